package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISODate is a calendar date with no time-of-day, serialized as YYYY-MM-DD.
// The zero value is the "unknown" sentinel used for historical records whose
// date could not be resolved; it marshals as the string "unknown".
type ISODate struct {
	time.Time
}

// NewISODate builds a date and rejects combinations that do not exist on the
// calendar (e.g. day 31 in a 30-day month) instead of normalizing them.
func NewISODate(year int, month time.Month, day int) (ISODate, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return ISODate{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, int(month), day)
	}
	return ISODate{t}, nil
}

// DateOf truncates an instant to its UTC calendar date.
func DateOf(t time.Time) ISODate {
	u := t.UTC()
	return ISODate{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// IsUnknown reports whether this is the unresolved-date sentinel.
func (d ISODate) IsUnknown() bool {
	return d.Time.IsZero()
}

func (d ISODate) Equal(other ISODate) bool {
	return d.Time.Equal(other.Time)
}

func (d ISODate) After(other ISODate) bool {
	return d.Time.After(other.Time)
}

func (d ISODate) String() string {
	if d.IsUnknown() {
		return "unknown"
	}
	return d.Format("2006-01-02")
}

func (d ISODate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *ISODate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "unknown" || s == "" {
		*d = ISODate{}
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return err
	}
	*d = ISODate{t}
	return nil
}

// Draw is the canonical record of one EuroMillions draw. Instances are built
// once per pipeline run and never mutated afterwards.
type Draw struct {
	Date    ISODate `json:"date"`
	Numbers []int   `json:"numbers"`
	Stars   []int   `json:"stars"`
	// JackpotEUR is the whole-euro jackpot. nil means unknown and serializes
	// as an explicit null so every history row keeps the same shape.
	JackpotEUR *int64 `json:"jackpot_eur"`
	// ID is the upstream record identifier, kept for traceability.
	ID string `json:"id,omitempty"`
	// Raw is the original upstream record, untouched. Nothing downstream
	// interprets it; it exists for debugging and audit.
	Raw map[string]any `json:"raw,omitempty"`
}

// JoinInts renders an int slice as space-separated decimals, the display form
// of a draw's numbers and stars on the status page and in CSV export.
func JoinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// VerificationReport records field-by-field agreement between the scraped
// latest draw and the latest API draw. AllOK deliberately excludes the
// jackpot: the amount is frequently absent or stale on one side.
type VerificationReport struct {
	DateMatch    bool `json:"date_match"`
	NumbersMatch bool `json:"numbers_match"`
	StarsMatch   bool `json:"stars_match"`
	JackpotMatch bool `json:"jackpot_match"`
	AllOK        bool `json:"all_ok"`
}
