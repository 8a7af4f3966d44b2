package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/location"
	"github.com/agencydesk/crm-api/internal/usecase"
)

type ContactHandler struct {
	Tenants     usecase.TenantStoreProvider
	Zips        *location.Service
	SendQuoteUC *usecase.SendQuoteUseCase
}

func NewContactHandler(tenants usecase.TenantStoreProvider, zips *location.Service, sendQuoteUC *usecase.SendQuoteUseCase) *ContactHandler {
	return &ContactHandler{Tenants: tenants, Zips: zips, SendQuoteUC: sendQuoteUC}
}

type contactRequest struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	CurrentCarrier string `json:"current_carrier"`
	PlanType       string `json:"plan_type"`
	EffectiveDate  string `json:"effective_date"`
	BirthDate      string `json:"birth_date"`
	TobaccoUser    bool   `json:"tobacco_user"`
	Gender         string `json:"gender"`
	State          string `json:"state"`
	ZipCode        string `json:"zip_code"`
	PhoneNumber    string `json:"phone_number"`
	AgentID        *int64 `json:"agent_id"`
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}

	store, err := h.Tenants.ContactStore(r.Context(), orgID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	contacts, err := store.List(r.Context(), 100)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Create is deliberately more permissive than import: an unknown ZIP keeps
// whatever state the caller supplied instead of rejecting the contact.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}

	var input contactRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" || strings.TrimSpace(input.Email) == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "first_name, last_name and email are required")
		return
	}

	if state, ok := h.Zips.StateFor(input.ZipCode); ok {
		input.State = state
	}

	store, err := h.Tenants.ContactStore(r.Context(), orgID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	created, err := store.Create(r.Context(), input.toEntity(0))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "contact id must be numeric")
		return
	}

	var input contactRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}

	// Updates require a resolvable ZIP; the table's state is authoritative.
	state, ok := h.Zips.StateFor(input.ZipCode)
	if !ok {
		writeErrorResponse(w, http.StatusBadRequest, "UNKNOWN_ZIP", "ZIP code "+strings.TrimSpace(input.ZipCode)+" not found")
		return
	}
	input.State = state

	store, err := h.Tenants.ContactStore(r.Context(), orgID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	updated, err := store.Update(r.Context(), input.toEntity(id))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "contact id must be numeric")
		return
	}

	store, err := h.Tenants.ContactStore(r.Context(), orgID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if err := store.Delete(r.Context(), id); err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ContactHandler) SendQuote(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", "contact id must be numeric")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	// An empty body is fine; notes are optional.
	json.NewDecoder(r.Body).Decode(&body)

	err = h.SendQuoteUC.Execute(r.Context(), usecase.SendQuoteInput{
		OrganizationID: orgID,
		ContactID:      id,
		Notes:          body.Notes,
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"success": true, "message": "quote email queued"})
}

func (in contactRequest) toEntity(id int64) *entity.Contact {
	return &entity.Contact{
		ID:             id,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		CurrentCarrier: strings.TrimSpace(in.CurrentCarrier),
		PlanType:       strings.TrimSpace(in.PlanType),
		EffectiveDate:  strings.TrimSpace(in.EffectiveDate),
		BirthDate:      strings.TrimSpace(in.BirthDate),
		TobaccoUser:    in.TobaccoUser,
		Gender:         strings.ToUpper(strings.TrimSpace(in.Gender)),
		State:          strings.TrimSpace(in.State),
		ZipCode:        strings.TrimSpace(in.ZipCode),
		PhoneNumber:    strings.TrimSpace(in.PhoneNumber),
		AgentID:        in.AgentID,
	}
}
