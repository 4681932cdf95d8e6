// internal/workers/pipeline/dispatch-suggestions/store.go
package dispatchsuggestions

import (
	"context"
	"errors"

	"dining-concierge/internal/models"
)

var ErrRestaurantNotFound = errors.New("RESTAURANT_NOT_FOUND")

// RestaurantStore looks up a restaurant by business id. A miss is reported
// as ErrRestaurantNotFound.
type RestaurantStore interface {
	Lookup(ctx context.Context, businessID string) (*models.RestaurantDetail, error)
}
