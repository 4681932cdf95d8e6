package models

import (
	"strings"
	"time"
)

var diningDateLayouts = []string{"2006-01-02", "2006/01/02", "01/02/2006"}

// ParseDiningDate parses a calendar date in one of the accepted layouts and
// returns midnight of that day in loc.
func ParseDiningDate(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	for _, layout := range diningDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
