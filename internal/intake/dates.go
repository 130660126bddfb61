package intake

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnknownDate is the sentinel normalized value for dates that could not be
// parsed. Sessions with an unknown date are still materialized but never
// linked to appointments.
const UnknownDate = "UNKNOWN"

// datePattern pairs a regexp with the order its capture groups appear in.
type datePattern struct {
	re        *regexp.Regexp
	yearFirst bool // groups are (year, month, day) instead of (month, day, year)
}

// Ordered structural date patterns; the first pattern that yields a valid
// calendar date wins.
var datePatterns = []datePattern{
	{regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`), true},  // YYYY-MM-DD
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), false}, // M/D/YYYY
	{regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`), false}, // M-D-YYYY
	{regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`), false},     // MM/DD/YYYY
	{regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})$`), true},  // YYYY/MM/DD
}

// NormalizeDate canonicalizes arbitrary date text to YYYY-MM-DD, or
// UnknownDate when the text is empty, an explicit unknown marker, or
// matches no pattern. Impossible component combinations (month 13, day 31
// in a 30-day month) are rejected rather than rolled into the next period.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return UnknownDate
	}
	switch strings.ToLower(s) {
	case "unknown", "not found":
		return UnknownDate
	}

	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		var year, month, day string
		if p.yearFirst {
			year, month, day = m[1], m[2], m[3]
		} else {
			month, day, year = m[1], m[2], m[3]
		}
		if iso, ok := buildDate(year, month, day); ok {
			return iso
		}
	}

	log.Printf("intake.NormalizeDate: unparsed date text %q", s)
	return UnknownDate
}

// buildDate constructs a calendar date from string components, rejecting
// values that time.Date would silently normalize (e.g. April 31 becoming
// May 1).
func buildDate(yearStr, monthStr, dayStr string) (string, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return "", false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return "", false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// ParseNormalizedDate converts a normalized YYYY-MM-DD value back to a
// time.Time at midnight UTC. Returns ok=false for UnknownDate.
func ParseNormalizedDate(normalized string) (time.Time, bool) {
	if normalized == UnknownDate {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", normalized)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
