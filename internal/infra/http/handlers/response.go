package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/usecase"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Success: false, Code: code, Message: message})
}

// writeUseCaseError maps the error taxonomy onto HTTP statuses: domain
// errors are the caller's fault, technical errors are ours and stay generic.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusBadRequest
		switch domainErr.Code {
		case "CONTACT_NOT_FOUND", "ORGANIZATION_NOT_FOUND", "AGENT_NOT_FOUND":
			status = http.StatusNotFound
		}
		writeErrorResponse(w, status, domainErr.Code, domainErr.Message)
		return
	}

	var techErr *usecase.TechnicalError
	if errors.As(err, &techErr) {
		writeErrorResponse(w, http.StatusInternalServerError, techErr.Code, "internal error")
		return
	}

	switch {
	case errors.Is(err, entity.ErrOrganizationNotFound):
		writeErrorResponse(w, http.StatusNotFound, "ORGANIZATION_NOT_FOUND", "organization not found")
	case errors.Is(err, entity.ErrContactNotFound):
		writeErrorResponse(w, http.StatusNotFound, "CONTACT_NOT_FOUND", "contact not found")
	case errors.Is(err, entity.ErrAgentNotFound):
		writeErrorResponse(w, http.StatusNotFound, "AGENT_NOT_FOUND", "agent not found")
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		writeErrorResponse(w, http.StatusConflict, "EMAIL_EXISTS", "email already exists")
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}

// organizationID extracts the tenant from the request. Auth middleware is out
// of scope; the reverse proxy injects this header after session validation.
func organizationID(r *http.Request) string {
	return r.Header.Get("X-Organization-ID")
}
