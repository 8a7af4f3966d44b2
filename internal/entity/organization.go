package entity

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant. Each organization owns exactly one isolated
// contact database, provisioned lazily on first real use.
type Organization struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	SubscriptionTier string    `json:"subscription_tier"`
	AgentLimit       int       `json:"agent_limit"`
	ContactLimit     int       `json:"contact_limit"`
	DatabaseName     string    `json:"-"`
	DatabaseURL      string    `json:"-"`
	DatabaseToken    string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	TierBasic   = "basic"
	TierPro     = "pro"
	TierUnknown = ""
)

func NewOrganization(name, email, tier string) *Organization {
	if tier == TierUnknown {
		tier = TierBasic
	}
	now := time.Now()
	return &Organization{
		ID:               uuid.New().String(),
		Name:             name,
		Email:            email,
		SubscriptionTier: tier,
		AgentLimit:       defaultAgentLimit(tier),
		ContactLimit:     defaultContactLimit(tier),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// HasDatabase reports whether the tenant database has been provisioned yet.
func (o *Organization) HasDatabase() bool {
	return o.DatabaseURL != ""
}

func defaultAgentLimit(tier string) int {
	if tier == TierPro {
		return 25
	}
	return 3
}

func defaultContactLimit(tier string) int {
	if tier == TierPro {
		return 50000
	}
	return 2500
}
