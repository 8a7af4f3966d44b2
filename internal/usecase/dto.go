package usecase

import "github.com/agencydesk/crm-api/internal/entity"

// Column names expected in the import header. Order matters: the error and
// converted-carrier CSV exports list columns in this order.
const (
	ColFirstName      = "First Name"
	ColLastName       = "Last Name"
	ColEmail          = "Email"
	ColCurrentCarrier = "Current Carrier"
	ColPlanType       = "Plan Type"
	ColEffectiveDate  = "Effective Date"
	ColBirthDate      = "Birth Date"
	ColTobaccoUser    = "Tobacco User"
	ColGender         = "Gender"
	ColZipCode        = "ZIP Code"
	ColPhoneNumber    = "Phone Number" // optional
)

// RequiredImportColumns are the header columns every import must carry.
// Phone Number is accepted but not required.
func RequiredImportColumns() []string {
	return []string{
		ColFirstName, ColLastName, ColEmail, ColCurrentCarrier, ColPlanType,
		ColEffectiveDate, ColBirthDate, ColTobaccoUser, ColGender, ColZipCode,
	}
}

// ContactImportRow is one record of the JSON bulk-import variant.
type ContactImportRow struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	CurrentCarrier string `json:"current_carrier"`
	PlanType       string `json:"plan_type"`
	EffectiveDate  string `json:"effective_date"`
	BirthDate      string `json:"birth_date"`
	TobaccoUser    string `json:"tobacco_user"`
	Gender         string `json:"gender"`
	ZipCode        string `json:"zip_code"`
	PhoneNumber    string `json:"phone_number"`
}

// AsRecord converts the JSON row into the column-keyed form shared with the
// CSV path so both variants run the same pipeline.
func (r ContactImportRow) AsRecord() map[string]string {
	return map[string]string{
		ColFirstName:      r.FirstName,
		ColLastName:       r.LastName,
		ColEmail:          r.Email,
		ColCurrentCarrier: r.CurrentCarrier,
		ColPlanType:       r.PlanType,
		ColEffectiveDate:  r.EffectiveDate,
		ColBirthDate:      r.BirthDate,
		ColTobaccoUser:    r.TobaccoUser,
		ColGender:         r.Gender,
		ColZipCode:        r.ZipCode,
		ColPhoneNumber:    r.PhoneNumber,
	}
}

// ImportContactsInput carries one parsed record set through the pipeline.
// Header is the column set actually present in the upload; Rows preserve
// input order. RowOffset is added to the 1-based row numbers in the report
// (1 for CSV uploads, accounting for the header row).
type ImportContactsInput struct {
	OrganizationID    string
	Header            []string
	Rows              []map[string]string
	RowOffset         int
	OverwriteExisting bool
	AgentID           *int64
	Caller            *entity.Agent
}

// NormalizedContact is a row that passed validation, with every field in its
// canonical form: lower-cased email, 10-digit phone, YYYY-MM-DD dates, state
// derived from the ZIP table, standardized carrier.
type NormalizedContact struct {
	FirstName      string
	LastName       string
	Email          string // lower-cased
	OriginalEmail  string // as supplied, for duplicate error messages
	CurrentCarrier string
	PlanType       string
	EffectiveDate  string
	BirthDate      string
	TobaccoUser    bool
	Gender         string
	State          string
	ZipCode        string
	PhoneNumber    string
	AgentID        *int64
}

// ImportReport is the structured result of one bulk-import call. It is built
// fresh per request and never persisted.
type ImportReport struct {
	Success              bool             `json:"success"`
	Message              string           `json:"message"`
	TotalRows            int              `json:"total_rows"`
	ValidRows            int              `json:"valid_rows"`
	ErrorRows            int              `json:"error_rows"`
	ConvertedCarrierRows int              `json:"converted_carrier_rows"`
	ErrorCSV             string           `json:"error_csv"`
	ConvertedCarriersCSV string           `json:"converted_carriers_csv,omitempty"`
	SupportedCarriers    []entity.Carrier `json:"supported_carriers,omitempty"`
}

// errorRow keeps a rejected row's original values for the error CSV export.
type errorRow struct {
	RowNumber int
	Values    map[string]string
	Message   string
}

// convertedRow records a row whose carrier text matched no canonical carrier
// or alias and was passed through verbatim for operator review.
type convertedRow struct {
	RowNumber       int
	Values          map[string]string
	OriginalCarrier string
}

// SendQuoteInput requests an email quote for one contact.
type SendQuoteInput struct {
	OrganizationID string
	ContactID      int64
	Notes          string
}

// CreateOrganizationInput is the signup payload. The admin agent is created
// together with the organization.
type CreateOrganizationInput struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Tier           string `json:"subscription_tier"`
	AdminFirstName string `json:"admin_first_name"`
	AdminLastName  string `json:"admin_last_name"`
	AdminEmail     string `json:"admin_email"`
	AdminPhone     string `json:"admin_phone"`
}

type CreateOrganizationOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Tier         string `json:"subscription_tier"`
	AdminAgentID int64  `json:"admin_agent_id"`
}
