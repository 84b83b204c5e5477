// Command seed fills a development backend with fake receivers and products
// through the same REST API the admin uses.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/masterdata/products"
	"github.com/chalani/chalani/internal/masterdata/receivers"
)

var units = []string{"pcs", "box", "set", "kg", "ream"}

func main() {
	baseURL := getenv("BACKEND_URL", "http://127.0.0.1:8000")
	username := getenv("SEED_USERNAME", "admin")
	password := getenv("SEED_PASSWORD", "admin")
	count, err := strconv.Atoi(getenv("SEED_COUNT", "25"))
	if err != nil || count <= 0 {
		log.Fatalf("SEED_COUNT must be a positive integer")
	}
	seed, _ := strconv.ParseInt(getenv("SEED_RANDOM", "0"), 10, 64)
	faker := gofakeit.New(seed)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := backend.NewClient(backend.Options{BaseURL: baseURL, RPS: 10})
	if err != nil {
		log.Fatalf("backend client: %v", err)
	}
	var login struct {
		Access string `json:"access"`
	}
	if err := client.PostJSON(ctx, "/api/auth/login/", map[string]string{"username": username, "password": password}, &login); err != nil {
		log.Fatalf("login: %v", err)
	}
	ctx = backend.WithToken(ctx, login.Access)

	fmt.Println("→ Seeding receivers...")
	receiverPath := receivers.Resource().CollectionPath()
	for i := 0; i < count; i++ {
		payload := map[string]any{
			"name":    faker.Company(),
			"address": faker.City() + ", " + faker.Street(),
			"phone":   "98" + faker.Numerify("########"),
			"email":   strings.ToLower(faker.Email()),
		}
		if _, err := client.Create(ctx, receiverPath, payload); err != nil {
			log.Fatalf("create receiver: %v", err)
		}
	}

	fmt.Println("→ Seeding products...")
	productPath := products.Resource().CollectionPath()
	for i := 0; i < count; i++ {
		payload := map[string]any{
			"name":        faker.ProductName(),
			"code":        strings.ToUpper(faker.Lexify("???")) + "-" + faker.Numerify("###"),
			"unit":        units[faker.Number(0, len(units)-1)],
			"description": faker.Sentence(8),
		}
		if _, err := client.Create(ctx, productPath, payload); err != nil {
			log.Fatalf("create product: %v", err)
		}
	}

	fmt.Println("✓ Seed complete at", time.Now().Format(time.RFC3339))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
