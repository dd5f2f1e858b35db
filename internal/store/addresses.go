package store

import (
	"context"
	"database/sql"
	"errors"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetAddressForUser retrieves a saved address by ID scoped to its owner. There
// is deliberately no lookup by ID alone.
func (s *Store) GetAddressForUser(ctx context.Context, addressID, userID uuid.UUID) (*models.Address, error) {
	return getAddressForUser(ctx, s.db, addressID, userID)
}

// GetAddressForUser reads a saved address inside the transaction, scoped to
// its owner.
func (t *txLedger) GetAddressForUser(ctx context.Context, addressID, userID uuid.UUID) (*models.Address, error) {
	return getAddressForUser(ctx, t.tx, addressID, userID)
}

func getAddressForUser(ctx context.Context, q sqlx.QueryerContext, addressID, userID uuid.UUID) (*models.Address, error) {
	var addr models.Address
	err := sqlx.GetContext(ctx, q, &addr,
		"SELECT * FROM addresses WHERE id = $1 AND user_id = $2", addressID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("address not found: %s", addressID)
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// ListAddressesForUser retrieves all saved addresses of a user
func (s *Store) ListAddressesForUser(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var addrs []models.Address
	err := s.db.SelectContext(ctx, &addrs,
		"SELECT * FROM addresses WHERE user_id = $1 ORDER BY created_at", userID)
	return addrs, err
}

// CreateAddress inserts a saved address for a user
func (s *Store) CreateAddress(ctx context.Context, addr *models.Address) error {
	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}

	return s.db.QueryRowxContext(ctx, `
		INSERT INTO addresses (id, user_id, street, city, state, country, pincode, landmark, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		addr.ID, addr.UserID, addr.Street, addr.City, addr.State,
		addr.Country, addr.Pincode, addr.Landmark, addr.Phone,
	).Scan(&addr.CreatedAt, &addr.UpdatedAt)
}

// UpdateAddress updates a saved address scoped to its owner
func (s *Store) UpdateAddress(ctx context.Context, addr *models.Address) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE addresses
		SET street = $1, city = $2, state = $3, country = $4,
		    pincode = $5, landmark = $6, phone = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9`,
		addr.Street, addr.City, addr.State, addr.Country,
		addr.Pincode, addr.Landmark, addr.Phone, addr.ID, addr.UserID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFoundf("address not found: %s", addr.ID)
	}
	return nil
}

// DeleteAddress removes a saved address scoped to its owner. Delivery
// snapshots taken from it are unaffected.
func (s *Store) DeleteAddress(ctx context.Context, addressID, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM addresses WHERE id = $1 AND user_id = $2", addressID, userID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFoundf("address not found: %s", addressID)
	}
	return nil
}

// CreateDeliveryAddress inserts an immutable delivery snapshot inside the
// transaction. Snapshot rows are never updated or deleted by the service.
func (t *txLedger) CreateDeliveryAddress(ctx context.Context, addr *models.DeliveryAddress) error {
	if addr.ID == uuid.Nil {
		addr.ID = uuid.New()
	}

	return t.tx.QueryRowxContext(ctx, `
		INSERT INTO delivery_addresses (id, street, city, state, country, pincode, landmark, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		addr.ID, addr.Street, addr.City, addr.State,
		addr.Country, addr.Pincode, addr.Landmark, addr.Phone,
	).Scan(&addr.CreatedAt)
}

// GetDeliveryAddress retrieves a delivery snapshot by ID
func (s *Store) GetDeliveryAddress(ctx context.Context, id uuid.UUID) (*models.DeliveryAddress, error) {
	var addr models.DeliveryAddress
	err := s.db.GetContext(ctx, &addr, "SELECT * FROM delivery_addresses WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("delivery address not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}
