package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GetJewelryByID retrieves a catalog item by ID
func (s *Store) GetJewelryByID(ctx context.Context, id uuid.UUID) (*models.Jewelry, error) {
	return getJewelry(ctx, s.db, id)
}

// GetJewelry reads a catalog item inside the transaction.
func (t *txLedger) GetJewelry(ctx context.Context, id uuid.UUID) (*models.Jewelry, error) {
	return getJewelry(ctx, t.tx, id)
}

func getJewelry(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*models.Jewelry, error) {
	var item models.Jewelry
	err := sqlx.GetContext(ctx, q, &item, "SELECT * FROM jewelry WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("jewelry not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetJewelryByModel retrieves a catalog item by model number
func (s *Store) GetJewelryByModel(ctx context.Context, modelNumber string) (*models.Jewelry, error) {
	var item models.Jewelry
	err := s.db.GetContext(ctx, &item, "SELECT * FROM jewelry WHERE model_number = $1", modelNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("jewelry not found: %s", modelNumber)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListJewelry retrieves all catalog items
func (s *Store) ListJewelry(ctx context.Context) ([]models.Jewelry, error) {
	var items []models.Jewelry
	err := s.db.SelectContext(ctx, &items, "SELECT * FROM jewelry ORDER BY created_at DESC")
	return items, err
}

// CreateJewelry inserts a new catalog item
func (s *Store) CreateJewelry(ctx context.Context, item *models.Jewelry) error {
	query := `
		INSERT INTO jewelry (id, model_number, name, type, stock_quantity, price, available_status, date_of_arrival, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.AvailableStatus = item.StockQuantity > 0

	return s.db.QueryRowxContext(ctx, query,
		item.ID, item.ModelNumber, item.Name, item.Type, item.StockQuantity,
		item.Price, item.AvailableStatus, item.DateOfArrival, item.UploadedBy,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

// UpdateJewelry updates a catalog item, keeping available_status in sync with
// the stored stock quantity.
func (s *Store) UpdateJewelry(ctx context.Context, item *models.Jewelry) error {
	item.AvailableStatus = item.StockQuantity > 0

	res, err := s.db.ExecContext(ctx, `
		UPDATE jewelry
		SET name = $1, type = $2, stock_quantity = $3, price = $4,
		    available_status = $5, date_of_arrival = $6, updated_at = NOW()
		WHERE model_number = $7`,
		item.Name, item.Type, item.StockQuantity, item.Price,
		item.AvailableStatus, item.DateOfArrival, item.ModelNumber)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFoundf("jewelry not found: %s", item.ModelNumber)
	}
	return nil
}

// DeleteJewelry removes a catalog item by model number
func (s *Store) DeleteJewelry(ctx context.Context, modelNumber string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jewelry WHERE model_number = $1", modelNumber)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFoundf("jewelry not found: %s", modelNumber)
	}
	return nil
}

// ReserveAndDebit decrements a catalog item's stock inside the transaction.
// The row is locked FOR UPDATE so concurrent checkouts debiting the same item
// serialize here; unrelated rows are not touched. The debit is visible only
// if the enclosing transaction commits.
func (t *txLedger) ReserveAndDebit(ctx context.Context, jewelryID uuid.UUID, quantity int) (*models.Jewelry, error) {
	var item models.Jewelry
	err := t.tx.GetContext(ctx, &item,
		"SELECT * FROM jewelry WHERE id = $1 FOR UPDATE", jewelryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("jewelry not found: %s", jewelryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock jewelry row: %w", err)
	}

	if item.StockQuantity < quantity {
		return nil, apperr.Validationf("insufficient stock for %s: available=%d, requested=%d",
			item.Name, item.StockQuantity, quantity)
	}

	item.StockQuantity -= quantity
	item.AvailableStatus = item.StockQuantity > 0

	_, err = t.tx.ExecContext(ctx,
		"UPDATE jewelry SET stock_quantity = $1, available_status = $2, updated_at = NOW() WHERE id = $3",
		item.StockQuantity, item.AvailableStatus, jewelryID)
	if err != nil {
		return nil, fmt.Errorf("failed to debit stock: %w", err)
	}

	return &item, nil
}
