package handlers

import (
	"strings"
	"time"

	"github.com/oksasatya/devconnector-api/internal/application"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(field, v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, &application.ValidationError{Field: field, Msg: "Invalid " + field + " date"}
}

// parsePeriod parses from and an optional to.
func parsePeriod(from, to string) (time.Time, *time.Time, error) {
	f, err := parseDate("from", from)
	if err != nil {
		return time.Time{}, nil, err
	}
	if strings.TrimSpace(to) == "" {
		return f, nil, nil
	}
	t, err := parseDate("to", to)
	if err != nil {
		return time.Time{}, nil, err
	}
	return f, &t, nil
}
