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

type fakeOrderStore struct {
	orders map[uuid.UUID]models.Order
	users  map[uuid.UUID]models.User
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{
		orders: make(map[uuid.UUID]models.Order),
		users:  make(map[uuid.UUID]models.User),
	}
}

func (f *fakeOrderStore) addOrder(userID uuid.UUID, status string) uuid.UUID {
	id := uuid.New()
	f.orders[id] = models.Order{
		ID:              id,
		UserID:          userID,
		JewelryID:       uuid.New(),
		Quantity:        1,
		Amount:          decimal.RequireFromString("99.00"),
		Status:          status,
		StatusTimestamp: time.Now().Add(-time.Hour),
		CreatedAt:       time.Now().Add(-time.Hour),
	}
	return id
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFoundf("order not found: %s", id)
	}
	return &order, nil
}

func (f *fakeOrderStore) GetOrderForUser(_ context.Context, id, userID uuid.UUID) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.UserID != userID {
		return nil, apperr.NotFoundf("order not found: %s", id)
	}
	return &order, nil
}

func (f *fakeOrderStore) ListOrdersForUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (f *fakeOrderStore) ListOrders(_ context.Context) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range f.orders {
		orders = append(orders, order)
	}
	return orders, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(_ context.Context, orderID uuid.UUID, status string, at time.Time) error {
	order, ok := f.orders[orderID]
	if !ok {
		return apperr.NotFoundf("order not found: %s", orderID)
	}
	order.Status = status
	order.StatusTimestamp = at
	f.orders[orderID] = order
	return nil
}

func (f *fakeOrderStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFoundf("user not found: %s", id)
	}
	return &user, nil
}

type fakeStatusPublisher struct {
	events []models.OrderStatusChangedEvent
}

func (p *fakeStatusPublisher) PublishOrderStatusChanged(_ context.Context, event *models.OrderStatusChangedEvent) error {
	p.events = append(p.events, *event)
	return nil
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusProcessing, models.OrderStatusShipped, true},
		{models.OrderStatusProcessing, models.OrderStatusCancelled, false},
		{models.OrderStatusProcessing, models.OrderStatusPending, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusProcessing, false},
		{models.OrderStatusDelivered, models.OrderStatusShipped, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.to, func(t *testing.T) {
			fs := newFakeOrderStore()
			svc := NewOrderService(fs, nil)
			orderID := fs.addOrder(uuid.New(), tc.from)

			order, err := svc.SetStatus(context.Background(), orderID, tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, order.Status)
				assert.Equal(t, tc.to, fs.orders[orderID].Status)
			} else {
				require.Error(t, err)
				assert.True(t, apperr.IsValidation(err))
				assert.Equal(t, tc.from, fs.orders[orderID].Status)
			}
		})
	}
}

func TestOrderSetStatusUnknownStatus(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, nil)
	orderID := fs.addOrder(uuid.New(), models.OrderStatusPending)

	_, err := svc.SetStatus(context.Background(), orderID, "REFUNDED")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestOrderSetStatusUpdatesTimestamp(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, nil)
	orderID := fs.addOrder(uuid.New(), models.OrderStatusPending)
	before := fs.orders[orderID].StatusTimestamp

	order, err := svc.SetStatus(context.Background(), orderID, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.True(t, order.StatusTimestamp.After(before))
}

func TestOrderSetStatusPublishesEvent(t *testing.T) {
	fs := newFakeOrderStore()
	pub := &fakeStatusPublisher{}
	svc := NewOrderService(fs, pub)

	userID := uuid.New()
	fs.users[userID] = models.User{ID: userID, UserName: "ada", Email: "ada@example.com"}
	orderID := fs.addOrder(userID, models.OrderStatusPending)

	_, err := svc.SetStatus(context.Background(), orderID, models.OrderStatusProcessing)
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, orderID, event.OrderID)
	assert.Equal(t, models.OrderStatusPending, event.OldStatus)
	assert.Equal(t, models.OrderStatusProcessing, event.NewStatus)
	assert.Equal(t, "ada@example.com", event.RecipientEmail)
}

func TestOrderGetScopedToOwner(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, nil)

	ownerID := uuid.New()
	orderID := fs.addOrder(ownerID, models.OrderStatusPending)

	order, err := svc.Get(context.Background(), orderID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, orderID, order.ID)

	_, err = svc.Get(context.Background(), orderID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err), "another user's order reads as not found")
}

func TestOrderListForUser(t *testing.T) {
	fs := newFakeOrderStore()
	svc := NewOrderService(fs, nil)

	userID := uuid.New()
	fs.addOrder(userID, models.OrderStatusPending)
	fs.addOrder(userID, models.OrderStatusShipped)
	fs.addOrder(uuid.New(), models.OrderStatusPending)

	orders, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
