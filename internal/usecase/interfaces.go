package usecase

import (
	"context"

	"github.com/agencydesk/crm-api/internal/entity"
)

// TenantContactStore is the contact table of one organization's database.
type TenantContactStore interface {
	List(ctx context.Context, limit int) ([]entity.Contact, error)
	FindByID(ctx context.Context, id int64) (*entity.Contact, error)
	Create(ctx context.Context, c *entity.Contact) (*entity.Contact, error)
	Update(ctx context.Context, c *entity.Contact) (*entity.Contact, error)
	Delete(ctx context.Context, id int64) error
	ListEmails(ctx context.Context) ([]string, error)
	MarkEmailed(ctx context.Context, id int64) error

	// ImportBatch writes staged rows in a single transaction, re-checking
	// email existence per row so rows inserted earlier in the same import
	// are observed. The whole batch rolls back on any row failure.
	ImportBatch(ctx context.Context, rows []NormalizedContact, overwrite bool) (inserted, updated int, err error)
}

// TenantStoreProvider resolves an organization to its contact store,
// provisioning the tenant database lazily on first access.
type TenantStoreProvider interface {
	ContactStore(ctx context.Context, orgID string) (TenantContactStore, error)
}

type CarrierCatalog interface {
	ListAll(ctx context.Context) ([]entity.Carrier, error)
}

type OrganizationRepositoryInterface interface {
	Create(ctx context.Context, org *entity.Organization) error
	FindByID(ctx context.Context, id string) (*entity.Organization, error)
	Delete(ctx context.Context, id string) error
}

type AgentRepositoryInterface interface {
	Create(ctx context.Context, a *entity.Agent) (*entity.Agent, error)
	FindByID(ctx context.Context, orgID string, id int64) (*entity.Agent, error)
	ListByOrganization(ctx context.Context, orgID string) ([]entity.Agent, error)
	DeleteByOrganization(ctx context.Context, orgID string) error
}

// QuoteQueueProducer publishes quote-email jobs for asynchronous delivery.
type QuoteQueueProducer interface {
	PublishQuote(ctx context.Context, payload QuoteEmailPayload) error
}

// QuoteEmailPayload is the message body placed on the quote queue. It carries
// everything the worker needs so it only touches the tenant database for the
// last-emailed bookkeeping.
type QuoteEmailPayload struct {
	OrganizationID string `json:"organization_id"`
	ContactID      int64  `json:"contact_id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	PlanType       string `json:"plan_type"`
	State          string `json:"state"`
	CurrentCarrier string `json:"current_carrier"`
	EffectiveDate  string `json:"effective_date"`
	Notes          string `json:"notes"`
}
