package worker

import (
	"context"
	"fmt"
	"log"

	"jewelshop/internal/broker"
	"jewelshop/internal/mailer"
	"jewelshop/internal/models"
	"jewelshop/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes order events and sends confirmation mail. A
// failed send is logged and counted; the message is committed regardless, so
// a broken mail relay can never back up the order pipeline.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	mailer       mailer.Mailer
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, m mailer.Mailer) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		mailer:   m,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderPlaced(w.handleOrderPlaced)
	eventHandler.OnOrderStatusChanged(w.handleOrderStatusChanged)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	log.Println("Starting notification worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	log.Println("Stopping notification worker...")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	body := fmt.Sprintf(`Hello %s,

Your order has been placed successfully!

Order Details:
- Order ID: %s
- Item: %s
- Quantity: %d
- Total Amount: $%s

Thank you for shopping with us!`,
		event.RecipientName, event.OrderID, event.JewelryName,
		event.Quantity, event.Amount.StringFixed(2))

	if err := w.mailer.Send(ctx, event.RecipientEmail, "Order Confirmation", body); err != nil {
		util.NotificationFailuresTotal.Inc()
		w.logger.Error("Failed to send order confirmation",
			zap.String("order_id", event.OrderID.String()),
			zap.Error(err))
		return nil
	}

	util.NotificationsSentTotal.Inc()
	return nil
}

func (w *NotificationWorker) handleOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	body := fmt.Sprintf(`Hello %s,

Your order %s is now %s.

Thank you for shopping with us!`,
		event.RecipientName, event.OrderID, event.NewStatus)

	subject := fmt.Sprintf("Order %s", event.NewStatus)

	if err := w.mailer.Send(ctx, event.RecipientEmail, subject, body); err != nil {
		util.NotificationFailuresTotal.Inc()
		w.logger.Error("Failed to send status update",
			zap.String("order_id", event.OrderID.String()),
			zap.Error(err))
		return nil
	}

	util.NotificationsSentTotal.Inc()
	return nil
}
