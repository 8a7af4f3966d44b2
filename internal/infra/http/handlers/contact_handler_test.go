package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agencydesk/crm-api/internal/entity"
	"github.com/agencydesk/crm-api/internal/infra/http/handlers"
	"github.com/agencydesk/crm-api/internal/location"
)

func contactRouter(h *handlers.ContactHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/contacts", h.List)
	r.Post("/api/contacts", h.Create)
	r.Put("/api/contacts/{id}", h.Update)
	r.Delete("/api/contacts/{id}", h.Delete)
	return r
}

func TestCreateContactDerivesStateFromZip(t *testing.T) {
	store := new(MockContactStore)
	tenants := new(MockTenantProvider)
	tenants.On("ContactStore", mock.Anything, "org-1").Return(store, nil)

	store.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.Contact) bool {
		return c.State == "NY" && c.Email == "jane@example.com"
	})).Return(&entity.Contact{ID: 1, Email: "jane@example.com", State: "NY"}, nil)

	h := handlers.NewContactHandler(tenants, testZips(), nil)

	body, _ := json.Marshal(map[string]any{
		"first_name": "Jane", "last_name": "Doe",
		"email": "Jane@Example.com", "zip_code": "10001", "state": "CA",
	})
	req := httptest.NewRequest("POST", "/api/contacts", bytes.NewReader(body))
	req.Header.Set("X-Organization-ID", "org-1")
	w := httptest.NewRecorder()

	contactRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	store.AssertExpectations(t)
}

func TestCreateContactKeepsSuppliedStateForUnknownZip(t *testing.T) {
	store := new(MockContactStore)
	tenants := new(MockTenantProvider)
	tenants.On("ContactStore", mock.Anything, "org-1").Return(store, nil)

	store.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.Contact) bool {
		return c.State == "CA"
	})).Return(&entity.Contact{ID: 1}, nil)

	h := handlers.NewContactHandler(tenants, testZips(), nil)

	body, _ := json.Marshal(map[string]any{
		"first_name": "Jane", "last_name": "Doe",
		"email": "jane@example.com", "zip_code": "99999", "state": "CA",
	})
	req := httptest.NewRequest("POST", "/api/contacts", bytes.NewReader(body))
	req.Header.Set("X-Organization-ID", "org-1")
	w := httptest.NewRecorder()

	contactRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateContactRejectsUnknownZip(t *testing.T) {
	h := handlers.NewContactHandler(new(MockTenantProvider), testZips(), nil)

	body, _ := json.Marshal(map[string]any{
		"first_name": "Jane", "last_name": "Doe",
		"email": "jane@example.com", "zip_code": "99999",
	})
	req := httptest.NewRequest("PUT", "/api/contacts/7", bytes.NewReader(body))
	req.Header.Set("X-Organization-ID", "org-1")
	w := httptest.NewRecorder()

	contactRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_ZIP")
}

func TestDeleteContactNotFound(t *testing.T) {
	store := new(MockContactStore)
	tenants := new(MockTenantProvider)
	tenants.On("ContactStore", mock.Anything, "org-1").Return(store, nil)
	store.On("Delete", mock.Anything, int64(99)).Return(entity.ErrContactNotFound)

	h := handlers.NewContactHandler(tenants, testZips(), nil)

	req := httptest.NewRequest("DELETE", "/api/contacts/99", nil)
	req.Header.Set("X-Organization-ID", "org-1")
	w := httptest.NewRecorder()

	contactRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestZipLookup(t *testing.T) {
	h := handlers.NewZipHandler(location.NewServiceFromTable(map[string]location.ZipInfo{
		"10001": {State: "NY", Counties: []string{"New York"}, Cities: []string{"New York"}},
	}))

	r := chi.NewRouter()
	r.Get("/api/zip-lookup/{zip}", h.Lookup)

	req := httptest.NewRequest("GET", "/api/zip-lookup/10001", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var info location.ZipInfo
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "NY", info.State)

	req = httptest.NewRequest("GET", "/api/zip-lookup/00000", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
