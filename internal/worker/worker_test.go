package worker

import (
	"context"
	"testing"

	"jewelshop/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func TestHandleOrderPlacedSendsConfirmation(t *testing.T) {
	m := &fakeMailer{}
	w := NewNotificationWorker(nil, m)

	event := &models.OrderPlacedEvent{
		OrderID:        uuid.New(),
		UserID:         uuid.New(),
		JewelryName:    "Gold Ring",
		Quantity:       2,
		Amount:         decimal.RequireFromString("241.00"),
		RecipientName:  "ada",
		RecipientEmail: "ada@example.com",
	}

	require.NoError(t, w.handleOrderPlaced(context.Background(), event))
	require.Len(t, m.sent, 1)

	mail := m.sent[0]
	assert.Equal(t, "ada@example.com", mail.to)
	assert.Equal(t, "Order Confirmation", mail.subject)
	assert.Contains(t, mail.body, "Gold Ring")
	assert.Contains(t, mail.body, "Quantity: 2")
	assert.Contains(t, mail.body, "$241.00")
}

func TestHandleOrderPlacedSwallowsSendFailure(t *testing.T) {
	m := &fakeMailer{err: assert.AnError}
	w := NewNotificationWorker(nil, m)

	event := &models.OrderPlacedEvent{
		OrderID:        uuid.New(),
		RecipientEmail: "ada@example.com",
		Amount:         decimal.Zero,
	}

	// The handler must not return the mailer error; a returned error would
	// look like a processing failure to the consumer loop.
	assert.NoError(t, w.handleOrderPlaced(context.Background(), event))
	assert.Empty(t, m.sent)
}

func TestHandleOrderStatusChanged(t *testing.T) {
	m := &fakeMailer{}
	w := NewNotificationWorker(nil, m)

	event := &models.OrderStatusChangedEvent{
		OrderID:        uuid.New(),
		OldStatus:      models.OrderStatusProcessing,
		NewStatus:      models.OrderStatusShipped,
		RecipientName:  "ada",
		RecipientEmail: "ada@example.com",
	}

	require.NoError(t, w.handleOrderStatusChanged(context.Background(), event))
	require.Len(t, m.sent, 1)
	assert.Equal(t, "Order SHIPPED", m.sent[0].subject)
	assert.Contains(t, m.sent[0].body, "SHIPPED")
}
