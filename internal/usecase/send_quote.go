package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
)

// SendQuoteUseCase queues an email quote for one contact. Delivery happens
// asynchronously in the queue worker, which also records the last-emailed
// date once the message is out.
type SendQuoteUseCase struct {
	Tenants TenantStoreProvider
	Queue   QuoteQueueProducer
	Log     *zap.Logger
}

func NewSendQuoteUseCase(tenants TenantStoreProvider, queue QuoteQueueProducer, log *zap.Logger) *SendQuoteUseCase {
	return &SendQuoteUseCase{Tenants: tenants, Queue: queue, Log: log}
}

func (uc *SendQuoteUseCase) Execute(ctx context.Context, input SendQuoteInput) error {
	store, err := uc.Tenants.ContactStore(ctx, input.OrganizationID)
	if err != nil {
		return &TechnicalError{
			Code:    "TENANT_DB_UNAVAILABLE",
			Message: "could not reach organization database: " + err.Error(),
		}
	}

	contact, err := store.FindByID(ctx, input.ContactID)
	if err != nil {
		if errors.Is(err, entity.ErrContactNotFound) {
			return &DomainError{Code: "CONTACT_NOT_FOUND", Message: "contact not found"}
		}
		return &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	payload := QuoteEmailPayload{
		OrganizationID: input.OrganizationID,
		ContactID:      contact.ID,
		Email:          contact.Email,
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		PlanType:       contact.PlanType,
		State:          contact.State,
		CurrentCarrier: contact.CurrentCarrier,
		EffectiveDate:  contact.EffectiveDate,
		Notes:          input.Notes,
	}

	if err := uc.Queue.PublishQuote(ctx, payload); err != nil {
		return &TechnicalError{
			Code:    "QUEUE_UNAVAILABLE",
			Message: "failed to queue quote email: " + err.Error(),
		}
	}

	uc.Log.Info("quote email queued",
		zap.String("organization_id", input.OrganizationID),
		zap.Int64("contact_id", contact.ID))
	return nil
}
