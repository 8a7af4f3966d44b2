package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agencydesk/crm-api/internal/location"
)

type ZipHandler struct {
	Zips *location.Service
}

func NewZipHandler(zips *location.Service) *ZipHandler {
	return &ZipHandler{Zips: zips}
}

func (h *ZipHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	zip := chi.URLParam(r, "zip")

	info, ok := h.Zips.Lookup(zip)
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "UNKNOWN_ZIP", "ZIP code "+zip+" not found")
		return
	}
	writeJSON(w, http.StatusOK, info)
}
