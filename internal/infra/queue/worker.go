package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/infra/http/middleware"
	"github.com/agencydesk/crm-api/internal/infra/mail"
	"github.com/agencydesk/crm-api/internal/usecase"
)

// QuoteMailer is the delivery side of the quote pipeline.
type QuoteMailer interface {
	SendQuote(to string, data mail.QuoteEmailData) error
}

// Worker consumes quote-email jobs, delivers them over SMTP and records the
// last-emailed date on the contact. A failed job is dead-lettered.
type Worker struct {
	Channel *amqp.Channel
	Mailer  QuoteMailer
	Tenants usecase.TenantStoreProvider
	Log     *zap.Logger
}

func NewWorker(ch *amqp.Channel, mailer QuoteMailer, tenants usecase.TenantStoreProvider, log *zap.Logger) *Worker {
	return &Worker{Channel: ch, Mailer: mailer, Tenants: tenants, Log: log}
}

func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"crm-quote-worker",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("starting consumer: %w", err)
	}

	w.Log.Info("quote email worker started", zap.String("queue", queueName))

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("quote email worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed")
			}
			if err := w.ProcessMessage(ctx, d.Body); err != nil {
				w.Log.Error("quote email job failed, dead-lettering", zap.Error(err))
				middleware.RecordQuoteEmail("failed")
				d.Nack(false, false)
				continue
			}
			middleware.RecordQuoteEmail("sent")
			d.Ack(false)
		}
	}
}

// ProcessMessage handles one quote job body. Split out so tests can drive it
// without a broker.
func (w *Worker) ProcessMessage(ctx context.Context, body []byte) error {
	var payload usecase.QuoteEmailPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("decoding quote payload: %w", err)
	}

	data := mail.QuoteEmailData{
		Name:           payload.FirstName + " " + payload.LastName,
		PlanType:       payload.PlanType,
		State:          payload.State,
		CurrentCarrier: payload.CurrentCarrier,
		EffectiveDate:  payload.EffectiveDate,
		Notes:          payload.Notes,
	}
	if err := w.Mailer.SendQuote(payload.Email, data); err != nil {
		return err
	}

	// Bookkeeping is best effort: the email is already out.
	store, err := w.Tenants.ContactStore(ctx, payload.OrganizationID)
	if err != nil {
		w.Log.Warn("quote sent but tenant database unreachable for bookkeeping",
			zap.Error(err), zap.String("organization_id", payload.OrganizationID))
		return nil
	}
	if err := store.MarkEmailed(ctx, payload.ContactID); err != nil {
		w.Log.Warn("quote sent but last-emailed update failed",
			zap.Error(err), zap.Int64("contact_id", payload.ContactID))
	}

	w.Log.Info("quote email delivered",
		zap.String("organization_id", payload.OrganizationID),
		zap.Int64("contact_id", payload.ContactID))
	return nil
}
