package store

import (
	"context"
	"fmt"
	"time"

	"jewelshop/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Tx is the set of ledger operations that must share a single atomic scope.
// The checkout orchestrator receives one from RunInTx; writes made through it
// become visible only when the transaction commits. Tests substitute a fake.
type Tx interface {
	GetJewelry(ctx context.Context, id uuid.UUID) (*models.Jewelry, error)
	ReserveAndDebit(ctx context.Context, jewelryID uuid.UUID, quantity int) (*models.Jewelry, error)
	GetAddressForUser(ctx context.Context, addressID, userID uuid.UUID) (*models.Address, error)
	CreateDeliveryAddress(ctx context.Context, addr *models.DeliveryAddress) error
	CreateOrder(ctx context.Context, order *models.Order) error
}

// RunInTx executes fn inside a database transaction. A nil error from fn
// commits; any error rolls back and is returned unchanged.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, &txLedger{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// txLedger implements Tx over a live sqlx transaction. The actual queries
// live in the per-ledger files and are shared with the non-transactional
// Store methods through sqlx.ExtContext.
type txLedger struct {
	tx *sqlx.Tx
}
