package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/usecase"
)

type OrganizationHandler struct {
	CreateUC *usecase.CreateOrganizationUseCase
	DeleteUC *usecase.DeleteOrganizationUseCase
	Orgs     usecase.OrganizationRepositoryInterface
}

func NewOrganizationHandler(
	createUC *usecase.CreateOrganizationUseCase,
	deleteUC *usecase.DeleteOrganizationUseCase,
	orgs usecase.OrganizationRepositoryInterface,
) *OrganizationHandler {
	return &OrganizationHandler{CreateUC: createUC, DeleteUC: deleteUC, Orgs: orgs}
}

func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}

	output, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output)
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	org, err := h.Orgs.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrOrganizationNotFound) {
			writeErrorResponse(w, http.StatusNotFound, "ORGANIZATION_NOT_FOUND", "organization not found")
			return
		}
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.DeleteUC.Execute(r.Context(), id); err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
