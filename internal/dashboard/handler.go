// Package dashboard serves the landing page: backend summary counters plus
// the most recent draft letters.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/i18n"
	"github.com/chalani/chalani/internal/view"
)

const (
	summaryPath    = "/api/dashboard/"
	lettersPath    = "/api/letters/"
	recentLimit    = 5
	requestTimeout = 5 * time.Second
)

// Backend is the part of the backend client the dashboard reads.
type Backend interface {
	GetJSON(ctx context.Context, path string, query url.Values, dest any) error
	List(ctx context.Context, path string, query url.Values) (backend.Page, error)
}

// Stat is one summary counter.
type Stat struct {
	Key   string
	Label string
	Value string
}

// Letter is one row of the recent drafts table.
type Letter struct {
	ID       int64
	Number   string
	Subject  string
	Receiver string
	DateBS   string
}

type homePage struct {
	Stats         []Stat
	Recent        []Letter
	SummaryFailed bool
	RecentFailed  bool
}

// Handler renders /home.
type Handler struct {
	logger    *slog.Logger
	backend   Backend
	templates *view.Engine
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, b Backend, templates *view.Engine) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, backend: b, templates: templates}
}

// ServeHTTP loads the summary and the recent drafts concurrently. Either
// half may fail without hiding the other.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var data homePage
	var g errgroup.Group
	g.Go(func() error {
		stats, err := h.summary(ctx)
		if err != nil {
			data.SummaryFailed = true
			return fmt.Errorf("dashboard summary: %w", err)
		}
		data.Stats = stats
		return nil
	})
	g.Go(func() error {
		recent, err := h.recent(ctx)
		if err != nil {
			data.RecentFailed = true
			return fmt.Errorf("recent letters: %w", err)
		}
		data.Recent = recent
		return nil
	})
	// A plain Group does not cancel the sibling, so one failure leaves the
	// other half rendered.
	if err := g.Wait(); err != nil {
		h.logger.Warn("dashboard degraded", slog.Bool("summary_failed", data.SummaryFailed),
			slog.Bool("recent_failed", data.RecentFailed), slog.Any("error", err))
	}

	tr := i18n.FromContext(r.Context())
	for i := range data.Stats {
		stat := &data.Stats[i]
		if label := tr.T("stat." + stat.Key); label != "stat."+stat.Key {
			stat.Label = label
		}
		stat.Value = tr.Digits(stat.Value)
	}
	if err := h.templates.Render(w, "pages/home.html", h.templates.Page(r, "home.title", data)); err != nil {
		h.logger.Error("render template", slog.String("template", "pages/home.html"), slog.Any("error", err))
	}
}

func (h *Handler) summary(ctx context.Context) ([]Stat, error) {
	var payload map[string]any
	if err := h.backend.GetJSON(ctx, summaryPath, nil, &payload); err != nil {
		return nil, err
	}
	if inner, ok := payload["data"].(map[string]any); ok {
		payload = inner
	}
	return Stats(payload), nil
}

func (h *Handler) recent(ctx context.Context) ([]Letter, error) {
	page, err := h.backend.List(ctx, lettersPath, url.Values{"status": {"draft"}, "page": {"1"}})
	if err != nil {
		return nil, err
	}
	items := page.Items
	if len(items) > recentLimit {
		items = items[:recentLimit]
	}
	out := make([]Letter, 0, len(items))
	for _, rec := range items {
		out = append(out, Letter{
			ID:       rec.ID(),
			Number:   rec.String("dispatch_number"),
			Subject:  rec.String("subject"),
			Receiver: rec.String("receiver.name"),
			DateBS:   rec.String("date_bs"),
		})
	}
	return out, nil
}

var titleCaser = cases.Title(language.English)

// Stats flattens the scalar counters of a summary payload, sorted by key.
// Nested objects are flattened one level as "parent_child".
func Stats(payload map[string]any) []Stat {
	var stats []Stat
	var add func(prefix string, m map[string]any, depth int)
	add = func(prefix string, m map[string]any, depth int) {
		for key, value := range m {
			name := key
			if prefix != "" {
				name = prefix + "_" + key
			}
			switch v := value.(type) {
			case json.Number, float64, int, int64, string, bool:
				stats = append(stats, Stat{Key: name, Label: titleCaser.String(strings.ReplaceAll(name, "_", " ")), Value: backend.Record{"v": v}.String("v")})
			case map[string]any:
				if depth == 0 {
					add(name, v, depth+1)
				}
			}
		}
	}
	add("", payload, 0)
	sort.Slice(stats, func(i, j int) bool { return stats[i].Key < stats[j].Key })
	return stats
}
