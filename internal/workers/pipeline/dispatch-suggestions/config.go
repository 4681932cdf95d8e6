// internal/workers/pipeline/dispatch-suggestions/config.go
package dispatchsuggestions

import (
	"time"

	"dining-concierge/internal/common/config"
)

// MaxSuggestions caps how many search hits are enriched and listed.
const MaxSuggestions = 5

type Config struct {
	Endpoints  config.PipelineConfig
	Index      string
	IDField    string
	SearchSize int
	Subject    string
	TimeZone   *time.Location
	Timeout    time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	loc, err := time.LoadLocation(cfg.Dialog.TimeZone)
	if err != nil {
		loc = time.UTC
	}
	size := cfg.Search.MaxResults
	if size <= 0 || size > MaxSuggestions {
		size = MaxSuggestions
	}
	return &Config{
		Endpoints:  cfg.PipelineEndpoints(),
		Index:      cfg.Search.Index,
		IDField:    cfg.Search.IDField,
		SearchSize: size,
		Subject:    cfg.Notify.Subject,
		TimeZone:   loc,
		Timeout:    config.GetDuration(cfg.Pipeline.Timeout),
	}
}
