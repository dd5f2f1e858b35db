package service

import (
	"context"
	"time"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"
	"jewelshop/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type orderStore interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListOrdersForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status string, at time.Time) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type statusPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// allowedTransitions is the order lifecycle: PENDING -> PROCESSING -> SHIPPED
// -> DELIVERED, with PENDING -> CANCELLED as the alternate terminal.
var allowedTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// OrderService handles order reads and the status lifecycle
type OrderService struct {
	store     orderStore
	publisher statusPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. publisher may be nil; status
// change notifications are then skipped.
func NewOrderService(store orderStore, publisher statusPublisher) *OrderService {
	return &OrderService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// Get retrieves an order scoped to its owner
func (s *OrderService) Get(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	return s.store.GetOrderForUser(ctx, orderID, userID)
}

// ListForUser retrieves all orders of a user, newest first
func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.store.ListOrdersForUser(ctx, userID)
}

// ListAll retrieves all orders across users (admin)
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}

// SetStatus moves an order through its lifecycle. Illegal transitions are
// rejected; every accepted transition updates the status timestamp.
func (s *OrderService) SetStatus(ctx context.Context, orderID uuid.UUID, newStatus string) (*models.Order, error) {
	if _, known := allowedTransitions[newStatus]; !known {
		return nil, apperr.Validationf("unknown order status: %s", newStatus)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(order.Status, newStatus) {
		return nil, apperr.Validationf("illegal status transition: %s -> %s", order.Status, newStatus)
	}

	now := time.Now()
	if err := s.store.UpdateOrderStatus(ctx, orderID, newStatus, now); err != nil {
		return nil, err
	}

	oldStatus := order.Status
	order.Status = newStatus
	order.StatusTimestamp = now

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("from", oldStatus),
		zap.String("to", newStatus))

	s.notifyStatusChange(ctx, order, oldStatus)

	return order, nil
}

// notifyStatusChange publishes a status change event, best-effort.
func (s *OrderService) notifyStatusChange(ctx context.Context, order *models.Order, oldStatus string) {
	if s.publisher == nil {
		return
	}

	user, err := s.store.GetUserByID(ctx, order.UserID)
	if err != nil {
		util.NotificationFailuresTotal.Inc()
		s.logger.Error("Failed to resolve notification recipient",
			zap.String("user_id", order.UserID.String()), zap.Error(err))
		return
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:        order.ID,
		UserID:         order.UserID,
		OldStatus:      oldStatus,
		NewStatus:      order.Status,
		RecipientName:  user.UserName,
		RecipientEmail: user.Email,
	}

	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		util.NotificationFailuresTotal.Inc()
		s.logger.Error("Failed to publish OrderStatusChanged event",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

func transitionAllowed(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
