package dialog

import (
	"fmt"
	"strings"
	"time"

	"dining-concierge/internal/common/config"
)

// Config holds the slot validation rules.
type Config struct {
	Location  *time.Location
	Locations []string
	Cuisines  []string
}

func LoadConfig(cfg config.DialogConfig) (*Config, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}
	return &Config{
		Location:  loc,
		Locations: lower(cfg.Locations),
		Cuisines:  lower(cfg.Cuisines),
	}, nil
}

func lower(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}
