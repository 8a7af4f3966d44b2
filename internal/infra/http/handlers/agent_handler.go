package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/usecase"
)

type AgentHandler struct {
	Agents usecase.AgentRepositoryInterface
	Orgs   usecase.OrganizationRepositoryInterface
}

func NewAgentHandler(agents usecase.AgentRepositoryInterface, orgs usecase.OrganizationRepositoryInterface) *AgentHandler {
	return &AgentHandler{Agents: agents, Orgs: orgs}
}

type createAgentRequest struct {
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	Role             string   `json:"role"`
	StateLicenses    []string `json:"state_licenses"`
	CarrierContracts []string `json:"carrier_contracts"`
}

func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}

	var input createAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" || strings.TrimSpace(input.Email) == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "first_name, last_name and email are required")
		return
	}
	role := input.Role
	if role == "" {
		role = entity.RoleAgent
	}
	if role != entity.RoleAdmin && role != entity.RoleAgent {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "role must be admin or agent")
		return
	}

	org, err := h.Orgs.FindByID(r.Context(), orgID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	existing, err := h.Agents.ListByOrganization(r.Context(), orgID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if len(existing) >= org.AgentLimit {
		writeErrorResponse(w, http.StatusForbidden, "AGENT_LIMIT_REACHED",
			"organization has reached its agent limit")
		return
	}

	created, err := h.Agents.Create(r.Context(), &entity.Agent{
		OrganizationID:   orgID,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		Email:            strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:            strings.TrimSpace(input.Phone),
		Role:             role,
		StateLicenses:    input.StateLicenses,
		CarrierContracts: input.CarrierContracts,
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}

	agents, err := h.Agents.ListByOrganization(r.Context(), orgID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, agents)
}
