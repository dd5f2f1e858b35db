package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"

	"github.com/google/uuid"
)

// CreateOrder inserts a new order inside the transaction.
func (t *txLedger) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}

	return t.tx.QueryRowxContext(ctx, `
		INSERT INTO orders (id, jewelry_id, user_id, delivery_address_id, quantity, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING status_timestamp, created_at`,
		order.ID, order.JewelryID, order.UserID, order.DeliveryAddressID,
		order.Quantity, order.Amount, order.Status,
	).Scan(&order.StatusTimestamp, &order.CreatedAt)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderForUser retrieves an order by ID scoped to its owner
func (s *Store) GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND user_id = $2", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrdersForUser retrieves orders for a user, newest first
func (s *Store) ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// ListOrders retrieves all orders, newest first (admin)
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC")
	return orders, err
}

// UpdateOrderStatus moves an order to a new status and stamps the transition
// time. Orders are never deleted; CANCELLED and DELIVERED are terminal rows.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, status_timestamp = $2 WHERE id = $3",
		status, at, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFoundf("order not found: %s", orderID)
	}
	return nil
}
