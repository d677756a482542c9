package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"euromillions/internal/models"
)

var (
	isoPrefixRe    = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	dayMonthYearRe = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{2})\b`)
)

// Date normalizes an API-side date string. A leading YYYY-MM-DD prefix is
// taken verbatim (any trailing time component ignored); otherwise the string
// must be a full RFC 3339 datetime, which is truncated to its date.
func Date(s string) (models.ISODate, error) {
	if m := isoPrefixRe.FindStringSubmatch(s); m != nil {
		return dateFromParts(m[1], m[2], m[3])
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.DateOf(t), nil
	}
	return models.ISODate{}, fmt.Errorf("unrecognized date %q", s)
}

// DayMonthYear finds a DD/MM/YY token embedded anywhere in text, as printed
// in the draw card header ("Tue 26/08/25"). The full year is 2000+YY: the
// draw series starts in 2004, so two-digit years are always 20xx.
func DayMonthYear(text string) (models.ISODate, error) {
	m := dayMonthYearRe.FindStringSubmatch(text)
	if m == nil {
		excerpt := text
		if len(excerpt) > 120 {
			excerpt = excerpt[:120]
		}
		return models.ISODate{}, fmt.Errorf("no dd/mm/yy token in %q", excerpt)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return models.NewISODate(2000+year, time.Month(month), day)
}

func dateFromParts(y, m, d string) (models.ISODate, error) {
	year, _ := strconv.Atoi(y)
	month, _ := strconv.Atoi(m)
	day, _ := strconv.Atoi(d)
	return models.NewISODate(year, time.Month(month), day)
}
