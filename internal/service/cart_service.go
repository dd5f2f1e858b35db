package service

import (
	"context"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"
	"jewelshop/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type cartStore interface {
	GetJewelryByID(ctx context.Context, id uuid.UUID) (*models.Jewelry, error)
	GetCartItem(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	GetCartItemByUserAndJewelry(ctx context.Context, userID, jewelryID uuid.UUID) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	DeleteCartItem(ctx context.Context, id uuid.UUID) error
	ListCartForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItemDetail, error)
}

// CartService handles cart mutations. Every mutation validates the requested
// quantity against the item's current stock; the authoritative check happens
// again at checkout inside the transaction.
type CartService struct {
	store  cartStore
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store cartStore) *CartService {
	return &CartService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// Add puts one unit of an item into the user's cart. A second add of the same
// item increments the existing line instead of creating a duplicate.
func (s *CartService) Add(ctx context.Context, userID, jewelryID uuid.UUID) (*models.CartItem, error) {
	jewelry, err := s.store.GetJewelryByID(ctx, jewelryID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetCartItemByUserAndJewelry(ctx, userID, jewelryID)
	if err != nil {
		return nil, err
	}

	util.CartOperationsTotal.WithLabelValues("add").Inc()

	if existing != nil {
		if err := validateStock(jewelry, existing.Quantity+1); err != nil {
			return nil, err
		}
		if err := s.store.UpdateCartItemQuantity(ctx, existing.ID, existing.Quantity+1); err != nil {
			return nil, err
		}
		existing.Quantity++
		return existing, nil
	}

	if err := validateStock(jewelry, 1); err != nil {
		return nil, err
	}

	item := &models.CartItem{
		UserID:    userID,
		JewelryID: jewelryID,
		Quantity:  1,
	}
	if err := s.store.CreateCartItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// SetQuantity overwrites a cart line's quantity.
func (s *CartService) SetQuantity(ctx context.Context, cartItemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	item, err := s.store.GetCartItem(ctx, cartItemID)
	if err != nil {
		return nil, err
	}

	jewelry, err := s.store.GetJewelryByID(ctx, item.JewelryID)
	if err != nil {
		return nil, err
	}

	if err := validateStock(jewelry, quantity); err != nil {
		return nil, err
	}

	util.CartOperationsTotal.WithLabelValues("update").Inc()

	if err := s.store.UpdateCartItemQuantity(ctx, cartItemID, quantity); err != nil {
		return nil, err
	}
	item.Quantity = quantity
	return item, nil
}

// Remove deletes a cart line.
func (s *CartService) Remove(ctx context.Context, cartItemID uuid.UUID) error {
	util.CartOperationsTotal.WithLabelValues("remove").Inc()
	return s.store.DeleteCartItem(ctx, cartItemID)
}

// ListForUser returns the user's cart lines with joined jewelry data. An
// empty cart is reported as not found, not as an empty list.
func (s *CartService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItemDetail, error) {
	items, err := s.store.ListCartForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperr.NotFoundf("no cart found for user: %s", userID)
	}
	return items, nil
}

func validateStock(jewelry *models.Jewelry, quantity int) error {
	if jewelry.StockQuantity < quantity {
		return apperr.Validationf("requested quantity (%d) exceeds available stock (%d)",
			quantity, jewelry.StockQuantity)
	}
	return nil
}
