package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
)

// MockQuoteProducer
type MockQuoteProducer struct {
	mock.Mock
}

func (m *MockQuoteProducer) PublishQuote(ctx context.Context, payload QuoteEmailPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

func TestSendQuotePublishesPayload(t *testing.T) {
	store := new(MockContactStore)
	tenants := new(MockTenantProvider)
	tenants.On("ContactStore", mock.Anything, "org-1").Return(store, nil)
	producer := new(MockQuoteProducer)

	contact := &entity.Contact{
		ID:             42,
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@example.com",
		PlanType:       "Medicare Advantage",
		State:          "NY",
		CurrentCarrier: "Aetna",
		EffectiveDate:  "2024-01-01",
	}
	store.On("FindByID", mock.Anything, int64(42)).Return(contact, nil)
	producer.On("PublishQuote", mock.Anything, mock.MatchedBy(func(p QuoteEmailPayload) bool {
		return p.ContactID == 42 && p.Email == "jane@example.com" && p.Notes == "call me"
	})).Return(nil)

	uc := NewSendQuoteUseCase(tenants, producer, zap.NewNop())
	err := uc.Execute(context.Background(), SendQuoteInput{
		OrganizationID: "org-1",
		ContactID:      42,
		Notes:          "call me",
	})

	assert.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestSendQuoteContactNotFound(t *testing.T) {
	store := new(MockContactStore)
	tenants := new(MockTenantProvider)
	tenants.On("ContactStore", mock.Anything, "org-1").Return(store, nil)
	store.On("FindByID", mock.Anything, int64(99)).Return(nil, entity.ErrContactNotFound)

	uc := NewSendQuoteUseCase(tenants, new(MockQuoteProducer), zap.NewNop())
	err := uc.Execute(context.Background(), SendQuoteInput{OrganizationID: "org-1", ContactID: 99})

	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONTACT_NOT_FOUND", domainErr.Code)
}

func TestSendQuoteQueueUnavailable(t *testing.T) {
	store := new(MockContactStore)
	tenants := new(MockTenantProvider)
	tenants.On("ContactStore", mock.Anything, "org-1").Return(store, nil)
	store.On("FindByID", mock.Anything, int64(1)).Return(&entity.Contact{ID: 1, Email: "a@b.co"}, nil)

	producer := new(MockQuoteProducer)
	producer.On("PublishQuote", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	uc := NewSendQuoteUseCase(tenants, producer, zap.NewNop())
	err := uc.Execute(context.Background(), SendQuoteInput{OrganizationID: "org-1", ContactID: 1})

	var techErr *TechnicalError
	assert.ErrorAs(t, err, &techErr)
	assert.Equal(t, "QUEUE_UNAVAILABLE", techErr.Code)
}
