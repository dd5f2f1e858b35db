package service

import (
	"context"
	"testing"
	"time"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCartStore is an in-memory cartStore.
type fakeCartStore struct {
	jewelry map[uuid.UUID]models.Jewelry
	items   map[uuid.UUID]models.CartItem
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{
		jewelry: make(map[uuid.UUID]models.Jewelry),
		items:   make(map[uuid.UUID]models.CartItem),
	}
}

func (f *fakeCartStore) GetJewelryByID(_ context.Context, id uuid.UUID) (*models.Jewelry, error) {
	item, ok := f.jewelry[id]
	if !ok {
		return nil, apperr.NotFoundf("jewelry not found: %s", id)
	}
	return &item, nil
}

func (f *fakeCartStore) GetCartItem(_ context.Context, id uuid.UUID) (*models.CartItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, apperr.NotFoundf("cart item not found: %s", id)
	}
	return &item, nil
}

func (f *fakeCartStore) GetCartItemByUserAndJewelry(_ context.Context, userID, jewelryID uuid.UUID) (*models.CartItem, error) {
	for _, item := range f.items {
		if item.UserID == userID && item.JewelryID == jewelryID {
			found := item
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeCartStore) CreateCartItem(_ context.Context, item *models.CartItem) error {
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	f.items[item.ID] = *item
	return nil
}

func (f *fakeCartStore) UpdateCartItemQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	item, ok := f.items[id]
	if !ok {
		return apperr.NotFoundf("cart item not found: %s", id)
	}
	item.Quantity = quantity
	f.items[id] = item
	return nil
}

func (f *fakeCartStore) DeleteCartItem(_ context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFoundf("cart item not found: %s", id)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCartStore) ListCartForUser(_ context.Context, userID uuid.UUID) ([]models.CartItemDetail, error) {
	var details []models.CartItemDetail
	for _, item := range f.items {
		if item.UserID != userID {
			continue
		}
		jewelry := f.jewelry[item.JewelryID]
		details = append(details, models.CartItemDetail{
			CartItem:    item,
			JewelryName: jewelry.Name,
			Price:       jewelry.Price,
		})
	}
	return details, nil
}

func (f *fakeCartStore) addJewelry(stock int) uuid.UUID {
	id := uuid.New()
	f.jewelry[id] = models.Jewelry{
		ID:              id,
		Name:            "Gold Ring",
		Type:            models.JewelryTypeRing,
		StockQuantity:   stock,
		Price:           decimal.RequireFromString("150.00"),
		AvailableStatus: stock > 0,
	}
	return id
}

func TestCartAddNewItem(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)
	userID := uuid.New()
	jewelryID := fs.addJewelry(5)

	item, err := svc.Add(context.Background(), userID, jewelryID)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, jewelryID, item.JewelryID)
	assert.Len(t, fs.items, 1)
}

func TestCartAddExistingItemIncrementsQuantity(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)
	userID := uuid.New()
	jewelryID := fs.addJewelry(5)

	first, err := svc.Add(context.Background(), userID, jewelryID)
	require.NoError(t, err)

	second, err := svc.Add(context.Background(), userID, jewelryID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "re-add must not create a second line")
	assert.Equal(t, 2, second.Quantity)
	assert.Len(t, fs.items, 1)
}

func TestCartAddOutOfStock(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)
	jewelryID := fs.addJewelry(0)

	_, err := svc.Add(context.Background(), uuid.New(), jewelryID)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCartAddUnknownJewelry(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)

	_, err := svc.Add(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCartSetQuantity(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)
	userID := uuid.New()
	jewelryID := fs.addJewelry(5)

	item, err := svc.Add(context.Background(), userID, jewelryID)
	require.NoError(t, err)

	updated, err := svc.SetQuantity(context.Background(), item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, 4, fs.items[item.ID].Quantity)
}

func TestCartSetQuantityExceedsStock(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)
	userID := uuid.New()
	jewelryID := fs.addJewelry(3)

	item, err := svc.Add(context.Background(), userID, jewelryID)
	require.NoError(t, err)

	_, err = svc.SetQuantity(context.Background(), item.ID, 4)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, 1, fs.items[item.ID].Quantity, "quantity unchanged on rejection")
}

func TestCartSetQuantityBelowOne(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)

	_, err := svc.SetQuantity(context.Background(), uuid.New(), 0)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCartRemove(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)
	userID := uuid.New()
	jewelryID := fs.addJewelry(5)

	item, err := svc.Add(context.Background(), userID, jewelryID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), item.ID))
	assert.Empty(t, fs.items)

	err = svc.Remove(context.Background(), item.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCartListEmptyIsNotFound(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)

	_, err := svc.ListForUser(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCartListForUser(t *testing.T) {
	fs := newFakeCartStore()
	svc := NewCartService(fs)
	userID := uuid.New()
	jewelryID := fs.addJewelry(5)

	_, err := svc.Add(context.Background(), userID, jewelryID)
	require.NoError(t, err)

	items, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Gold Ring", items[0].JewelryName)
	assert.True(t, decimal.RequireFromString("150.00").Equal(items[0].Price))
}
