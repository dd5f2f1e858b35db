package store

import (
	"context"
	"database/sql"
	"errors"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"

	"github.com/google/uuid"
)

// ListCartForUser retrieves a user's cart lines joined with jewelry data, in
// stable insertion order.
func (s *Store) ListCartForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItemDetail, error) {
	var items []models.CartItemDetail
	err := s.db.SelectContext(ctx, &items, `
		SELECT c.id, c.user_id, c.jewelry_id, c.quantity, c.created_at, c.updated_at,
		       j.name AS jewelry_name, j.model_number, j.price, j.stock_quantity, j.available_status
		FROM cart_items c
		JOIN jewelry j ON j.id = c.jewelry_id
		WHERE c.user_id = $1
		ORDER BY c.created_at, c.id`, userID)
	return items, err
}

// GetCartItem retrieves a cart line by ID
func (s *Store) GetCartItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM cart_items WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("cart item not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCartItemByUserAndJewelry retrieves the single cart line for a
// (user, jewelry) pair, or nil when none exists.
func (s *Store) GetCartItemByUserAndJewelry(ctx context.Context, userID, jewelryID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item,
		"SELECT * FROM cart_items WHERE user_id = $1 AND jewelry_id = $2", userID, jewelryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateCartItem inserts a new cart line
func (s *Store) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	return s.db.QueryRowxContext(ctx, `
		INSERT INTO cart_items (id, user_id, jewelry_id, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		item.ID, item.UserID, item.JewelryID, item.Quantity,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

// UpdateCartItemQuantity overwrites a cart line's quantity
func (s *Store) UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2", quantity, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFoundf("cart item not found: %s", id)
	}
	return nil
}

// DeleteCartItem removes a cart line by ID
func (s *Store) DeleteCartItem(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFoundf("cart item not found: %s", id)
	}
	return nil
}
