package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for installation dates, tried in order. Slash dates are
// read as month/day/year, matching the upstream inventory exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var reEpochMillis = regexp.MustCompile(`^\d{12,13}$`)

// ParseDate parses a raw date string into a UTC date. Returns nil when the
// value is blank or matches no accepted layout; callers keep the field null
// rather than inventing a value. Timestamps keep only the date part.
func ParseDate(input string) *time.Time {
	s := CleanText(input)
	if s == "" {
		return nil
	}

	// ISO timestamps: keep the date prefix.
	if idx := strings.IndexAny(s, "T "); idx == 10 {
		s = s[:idx]
	}

	if reEpochMillis.MatchString(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err == nil {
			t := time.UnixMilli(ms).UTC().Truncate(24 * time.Hour)
			return &t
		}
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
