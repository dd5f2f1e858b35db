package store

import (
	"context"
	"database/sql"
	"errors"

	"jewelshop/internal/models"
)

// GetPincodeEntry retrieves a cached pincode lookup, or nil on a cache miss.
func (s *Store) GetPincodeEntry(ctx context.Context, pincode string) (*models.PincodeEntry, error) {
	var entry models.PincodeEntry
	err := s.db.GetContext(ctx, &entry, "SELECT * FROM pincode_cache WHERE pincode = $1", pincode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpsertPincodeEntry stores a pincode lookup result
func (s *Store) UpsertPincodeEntry(ctx context.Context, entry *models.PincodeEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pincode_cache (pincode, city, state, country, fetched_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (pincode) DO UPDATE
		SET city = EXCLUDED.city, state = EXCLUDED.state,
		    country = EXCLUDED.country, fetched_at = NOW()`,
		entry.Pincode, entry.City, entry.State, entry.Country)
	return err
}
