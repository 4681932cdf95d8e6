// internal/workers/pipeline/dispatch-suggestions/formatter.go
package dispatchsuggestions

import (
	"fmt"
	"strings"

	"dining-concierge/internal/models"
)

// TopHits keeps index order and truncates to MaxSuggestions.
func TopHits(hits []models.SearchHit) []models.SearchHit {
	if len(hits) > MaxSuggestions {
		return hits[:MaxSuggestions]
	}
	return hits
}

// Compose builds the notification text. Entries are numbered consecutively
// from 1 in the order given.
func Compose(req *SuggestionRequest, entries []models.RestaurantDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! Here are my %s restaurant suggestions in %s for %d people, for %s: ",
		req.Cuisine, req.Location, req.NumberOfPeople, req.DiningTime)
	for i, entry := range entries {
		fmt.Fprintf(&b, "%d. %s, located at %s. ", i+1, entry.Name, entry.Address)
	}
	b.WriteString("Enjoy your meal!")
	return b.String()
}
