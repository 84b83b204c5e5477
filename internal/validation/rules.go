package validation

import (
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/chalani/chalani/internal/i18n"
)

var (
	numericNP = regexp.MustCompile(`^[0-9०-९]+$`)
	phoneNP   = regexp.MustCompile(`^\+?[0-9०-९][0-9०-९\- ]{5,18}[0-9०-९]$`)
	isoDate   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// Bikram Sambat years the backend accepts.
const (
	minBSYear = 1970
	maxBSYear = 2100
)

func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("numeric_np", isNumericNP); err != nil {
		return err
	}
	if err := v.RegisterValidation("phone_np", isPhoneNP); err != nil {
		return err
	}
	return v.RegisterValidation("bsdate", isBSDate)
}

// Empty values pass; pair the rules with required where needed.

func isNumericNP(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || numericNP.MatchString(s)
}

func isPhoneNP(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || phoneNP.MatchString(s)
}

func isBSDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || ValidBSDate(s)
}

// ValidBSDate checks the shape of a Bikram Sambat date. BS months run to 32
// days, so the day bound is looser than in the Gregorian calendar.
func ValidBSDate(s string) bool {
	m := isoDate.FindStringSubmatch(i18n.CleanNumber(s))
	if m == nil {
		return false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return year >= minBSYear && year <= maxBSYear && month >= 1 && month <= 12 && day >= 1 && day <= 32
}
