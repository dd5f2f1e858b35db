package service

import (
	"context"
	"time"

	"jewelshop/internal/apperr"
	"jewelshop/internal/models"
	"jewelshop/internal/store"
	"jewelshop/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// checkoutStore is the slice of the store the orchestrator needs. *store.Store
// satisfies it; tests substitute an in-memory fake.
type checkoutStore interface {
	ListCartForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItemDetail, error)
	DeleteCartItem(ctx context.Context, id uuid.UUID) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error
}

// orderPublisher publishes the post-commit confirmation event.
type orderPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}

// idempotencyClaimer guards checkout against duplicate submissions.
type idempotencyClaimer interface {
	ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseIdempotencyKey(ctx context.Context, key string) error
}

// CheckoutService converts a user's cart into orders. All cart lines succeed
// or none do: stock debits, delivery snapshots and order rows share one
// database transaction. Cart cleanup and the confirmation notification happen
// after commit and are best-effort.
type CheckoutService struct {
	store       checkoutStore
	publisher   orderPublisher
	idempotency idempotencyClaimer
	logger      *zap.Logger
}

// NewCheckoutService creates a new checkout service. idempotency may be nil;
// duplicate-submission protection is then disabled.
func NewCheckoutService(store checkoutStore, publisher orderPublisher, idempotency idempotencyClaimer) *CheckoutService {
	return &CheckoutService{
		store:       store,
		publisher:   publisher,
		idempotency: idempotency,
		logger:      util.GetLogger(),
	}
}

const idempotencyKeyTTL = 24 * time.Hour

// Checkout converts all of userID's cart lines into PENDING orders delivered
// to addressID. The returned orders follow the cart-line order.
func (s *CheckoutService) Checkout(ctx context.Context, userID, addressID uuid.UUID, idempotencyKey string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "CheckoutService.Checkout")
	defer span.End()

	util.CheckoutAttemptsTotal.Inc()

	if idempotencyKey != "" && s.idempotency != nil {
		claimed, err := s.idempotency.ClaimIdempotencyKey(ctx, idempotencyKey, idempotencyKeyTTL)
		if err != nil {
			// Redis being down must not block checkout.
			s.logger.Warn("Idempotency check unavailable, continuing",
				zap.String("key", idempotencyKey), zap.Error(err))
		} else if !claimed {
			util.CheckoutFailedTotal.WithLabelValues("duplicate").Inc()
			return nil, apperr.Conflict("checkout already submitted")
		}
	}

	items, err := s.store.ListCartForUser(ctx, userID)
	if err != nil {
		s.failed(ctx, idempotencyKey, "db_error")
		return nil, err
	}
	if len(items) == 0 {
		s.failed(ctx, idempotencyKey, "empty_cart")
		return nil, apperr.Validation("cart is empty")
	}

	orders := make([]models.Order, 0, len(items))
	events := make([]models.OrderPlacedEvent, 0, len(items))

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		for _, line := range items {
			order, jewelryName, err := s.placeOrder(ctx, tx, line, userID, addressID)
			if err != nil {
				return err
			}
			orders = append(orders, *order)
			events = append(events, models.OrderPlacedEvent{
				OrderID:     order.ID,
				UserID:      userID,
				JewelryName: jewelryName,
				Quantity:    order.Quantity,
				Amount:      order.Amount,
			})
		}
		return nil
	})
	if err != nil {
		s.failed(ctx, idempotencyKey, failureReason(err))
		return nil, err
	}

	util.OrdersPlacedTotal.Add(float64(len(orders)))
	s.logger.Info("Checkout committed",
		zap.String("user_id", userID.String()),
		zap.Int("orders", len(orders)))

	// The orders are durable from here on. Cleanup and notification failures
	// are logged, never surfaced to the caller.
	s.clearCart(ctx, items)
	s.notify(ctx, userID, events)

	return orders, nil
}

// placeOrder handles one cart line inside the checkout transaction: validate
// item and address, debit stock, snapshot the delivery address, create the
// PENDING order with the amount frozen at the current price.
func (s *CheckoutService) placeOrder(ctx context.Context, tx store.Tx, line models.CartItemDetail, userID, addressID uuid.UUID) (*models.Order, string, error) {
	jewelry, err := tx.GetJewelry(ctx, line.JewelryID)
	if err != nil {
		return nil, "", err
	}

	addr, err := tx.GetAddressForUser(ctx, addressID, userID)
	if err != nil {
		return nil, "", err
	}

	start := time.Now()
	jewelry, err = tx.ReserveAndDebit(ctx, jewelry.ID, line.Quantity)
	util.StockDebitLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, "", err
	}

	snapshot := &models.DeliveryAddress{
		Street:   addr.Street,
		City:     addr.City,
		State:    addr.State,
		Country:  addr.Country,
		Pincode:  addr.Pincode,
		Landmark: addr.Landmark,
		Phone:    addr.Phone,
	}
	if err := tx.CreateDeliveryAddress(ctx, snapshot); err != nil {
		return nil, "", err
	}

	order := &models.Order{
		JewelryID:         jewelry.ID,
		UserID:            userID,
		DeliveryAddressID: snapshot.ID,
		Quantity:          line.Quantity,
		Amount:            jewelry.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		Status:            models.OrderStatusPending,
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, "", err
	}

	return order, jewelry.Name, nil
}

// clearCart deletes the checked-out lines. The committed orders are the
// authoritative state; a stale line left behind is recoverable, later cart
// mutations still validate against current stock.
func (s *CheckoutService) clearCart(ctx context.Context, items []models.CartItemDetail) {
	for _, line := range items {
		if err := s.store.DeleteCartItem(ctx, line.ID); err != nil {
			s.logger.Error("Failed to clear cart line after checkout",
				zap.String("cart_item_id", line.ID.String()),
				zap.Error(err))
		}
	}
}

// notify publishes one OrderPlaced event per created order.
func (s *CheckoutService) notify(ctx context.Context, userID uuid.UUID, events []models.OrderPlacedEvent) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		util.NotificationFailuresTotal.Add(float64(len(events)))
		s.logger.Error("Failed to resolve notification recipient",
			zap.String("user_id", userID.String()), zap.Error(err))
		return
	}

	for i := range events {
		event := events[i]
		event.BaseEvent = models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		}
		event.RecipientName = user.UserName
		event.RecipientEmail = user.Email

		if err := s.publisher.PublishOrderPlaced(ctx, &event); err != nil {
			util.NotificationFailuresTotal.Inc()
			s.logger.Error("Failed to publish OrderPlaced event",
				zap.String("order_id", event.OrderID.String()),
				zap.Error(err))
		}
	}
}

// failed records a checkout failure and frees the idempotency key so the
// caller may retry.
func (s *CheckoutService) failed(ctx context.Context, idempotencyKey, reason string) {
	util.CheckoutFailedTotal.WithLabelValues(reason).Inc()

	if idempotencyKey != "" && s.idempotency != nil {
		if err := s.idempotency.ReleaseIdempotencyKey(ctx, idempotencyKey); err != nil {
			s.logger.Warn("Failed to release idempotency key",
				zap.String("key", idempotencyKey), zap.Error(err))
		}
	}
}

func failureReason(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return "insufficient_stock"
	case apperr.KindNotFound:
		return "not_found"
	default:
		return "db_error"
	}
}
