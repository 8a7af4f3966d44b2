package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/infra/http/middleware"
	"github.com/agencydesk/crm-api/internal/usecase"
)

const maxUploadBytes = 20 << 20 // 20 MiB

type ImportHandler struct {
	ImportUC *usecase.ImportContactsUseCase
	Agents   usecase.AgentRepositoryInterface
	Log      *zap.Logger
}

func NewImportHandler(importUC *usecase.ImportContactsUseCase, agents usecase.AgentRepositoryInterface, log *zap.Logger) *ImportHandler {
	return &ImportHandler{ImportUC: importUC, Agents: agents, Log: log}
}

// Upload handles the multipart CSV variant. Form fields:
//
//	file                 the CSV upload (required)
//	overwrite_duplicates "true" to update existing contacts in place
//	duplicateStrategy    legacy alias, "overwrite" means the same
//	agent_id             assign imported contacts to this agent
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_UPLOAD", "could not parse multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FILE", "form field 'file' is required")
		return
	}
	defer file.Close()

	overwrite := r.FormValue("overwrite_duplicates") == "true" ||
		r.FormValue("duplicateStrategy") == "overwrite"

	var agentID *int64
	if raw := strings.TrimSpace(r.FormValue("agent_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_AGENT", "agent_id must be numeric")
			return
		}
		agentID = &id
	}

	caller := h.resolveCaller(r, orgID)

	report, err := h.ImportUC.ExecuteCSV(r.Context(), orgID, file, overwrite, agentID, caller)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	if report.Success {
		middleware.RecordImportRows(report.ValidRows, report.ErrorRows, report.ConvertedCarrierRows)
	}
	writeJSON(w, http.StatusOK, report)
}

type bulkImportRequest struct {
	Contacts          []usecase.ContactImportRow `json:"contacts"`
	OverwriteExisting bool                       `json:"overwriteExisting"`
	AgentID           *int64                     `json:"agentId"`
}

// BulkImport handles the JSON variant used by integrations. Rows run through
// the same pipeline as CSV uploads; only admins may request overwriting.
func (h *ImportHandler) BulkImport(w http.ResponseWriter, r *http.Request) {
	orgID := organizationID(r)
	if orgID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_ORGANIZATION", "X-Organization-ID header is required")
		return
	}

	var req bulkImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return
	}
	if len(req.Contacts) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_IMPORT", "contacts must not be empty")
		return
	}

	caller := h.resolveCaller(r, orgID)

	overwrite := req.OverwriteExisting
	if overwrite && (caller == nil || !caller.IsAdmin()) {
		overwrite = false
	}

	rows := make([]map[string]string, 0, len(req.Contacts))
	for _, c := range req.Contacts {
		rows = append(rows, c.AsRecord())
	}

	report, err := h.ImportUC.Execute(r.Context(), usecase.ImportContactsInput{
		OrganizationID:    orgID,
		Header:            append(usecase.RequiredImportColumns(), usecase.ColPhoneNumber),
		Rows:              rows,
		RowOffset:         0,
		OverwriteExisting: overwrite,
		AgentID:           req.AgentID,
		Caller:            caller,
	})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	if report.Success {
		middleware.RecordImportRows(report.ValidRows, report.ErrorRows, report.ConvertedCarrierRows)
	}
	writeJSON(w, http.StatusOK, report)
}

// resolveCaller loads the agent identified by X-Agent-ID, if any. Lookup
// failures degrade to an anonymous import rather than failing the request.
func (h *ImportHandler) resolveCaller(r *http.Request, orgID string) *entity.Agent {
	raw := strings.TrimSpace(r.Header.Get("X-Agent-ID"))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	caller, err := h.Agents.FindByID(r.Context(), orgID, id)
	if err != nil {
		h.Log.Warn("could not resolve importing agent",
			zap.String("organization_id", orgID), zap.Int64("agent_id", id), zap.Error(err))
		return nil
	}
	return caller
}
