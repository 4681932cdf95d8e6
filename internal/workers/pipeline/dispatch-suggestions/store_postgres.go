// internal/workers/pipeline/dispatch-suggestions/store_postgres.go
package dispatchsuggestions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"dining-concierge/internal/models"
)

type PostgresStore struct {
	db    *sql.DB
	query string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{
		db:    db,
		query: fmt.Sprintf("SELECT name, address FROM %s WHERE business_id = $1", pq.QuoteIdentifier(table)),
	}
}

func (s *PostgresStore) Lookup(ctx context.Context, businessID string) (*models.RestaurantDetail, error) {
	detail := &models.RestaurantDetail{BusinessID: businessID}
	var address sql.NullString
	err := s.db.QueryRowContext(ctx, s.query, businessID).Scan(&detail.Name, &address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres lookup %s: %w", businessID, err)
	}
	detail.Address = address.String
	return detail, nil
}
