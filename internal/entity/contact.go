package entity

import "time"

// Contact is a lead/customer record owned by one organization. It lives in the
// organization's own tenant database, never in the central registry.
type Contact struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	CurrentCarrier string     `json:"current_carrier"`
	PlanType       string     `json:"plan_type"`
	EffectiveDate  string     `json:"effective_date"` // YYYY-MM-DD
	BirthDate      string     `json:"birth_date"`     // YYYY-MM-DD
	TobaccoUser    bool       `json:"tobacco_user"`
	Gender         string     `json:"gender"` // M or F
	State          string     `json:"state"`
	ZipCode        string     `json:"zip_code"`
	PhoneNumber    string     `json:"phone_number"`
	AgentID        *int64     `json:"agent_id"`
	Status         string     `json:"status"`
	LastEmailedAt  *time.Time `json:"last_emailed_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

const ContactStatusNew = "New"
