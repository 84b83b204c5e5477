package crud

import (
	"time"

	"github.com/chalani/chalani/internal/i18n"
)

const isoDate = "2006-01-02"

// DateRange is an inclusive AD date filter.
type DateRange struct {
	From string
	To   string
}

// Active reports whether both ends are set.
func (d DateRange) Active() bool {
	return d.From != "" && d.To != ""
}

// ParseDateRange normalizes from and to. It returns the catalog key of the
// problem when the range cannot be applied; a half-filled range is ignored
// without error.
func ParseDateRange(from, to string) (DateRange, string) {
	from, to = i18n.CleanNumber(from), i18n.CleanNumber(to)
	if from == "" || to == "" {
		return DateRange{}, ""
	}
	start, err := time.Parse(isoDate, from)
	if err != nil {
		return DateRange{}, "flash.range_format"
	}
	end, err := time.Parse(isoDate, to)
	if err != nil {
		return DateRange{}, "flash.range_format"
	}
	if start.After(end) {
		return DateRange{}, "flash.range_invalid"
	}
	return DateRange{From: start.Format(isoDate), To: end.Format(isoDate)}, ""
}
