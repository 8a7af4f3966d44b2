package entity

import "time"

// Agent is a user scoped to one organization. State licenses and carrier
// contracts default from the organization's settings unless overridden here.
type Agent struct {
	ID               int64     `json:"id"`
	OrganizationID   string    `json:"organization_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Role             string    `json:"role"` // admin or agent
	StateLicenses    []string  `json:"state_licenses"`
	CarrierContracts []string  `json:"carrier_contracts"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

func (a *Agent) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
