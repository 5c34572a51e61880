package patients

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newHandlerTestServer() (*echo.Echo, *mockOwnerSource) {
	svc, _, ownerSrc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()
	h.RegisterRoutes(e.Group("/api/v1"))
	return e, ownerSrc
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func createBody(ownerID uuid.UUID) string {
	return fmt.Sprintf(`{"name":"Rex","species":"dog","breed":"Beagle","birth_date":"2020-03-15","weight":12.5,"sex":"male","owner_id":%q}`, ownerID)
}

func TestHandler_CreateAndGet(t *testing.T) {
	e, ownerSrc := newHandlerTestServer()
	o := ownerSrc.add()

	rec := doJSON(e, http.MethodPost, "/api/v1/patients", createBody(o.ID))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created patient: %v", err)
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/patients/"+created.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"owner"`) {
		t.Errorf("expected embedded owner in detail: %s", rec.Body.String())
	}
}

func TestHandler_BadSpecies(t *testing.T) {
	e, ownerSrc := newHandlerTestServer()
	o := ownerSrc.add()

	body := strings.Replace(createBody(o.ID), "dog", "hamster", 1)
	rec := doJSON(e, http.MethodPost, "/api/v1/patients", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsupported species, got %d", rec.Code)
	}
}

func TestHandler_OwnerPatients(t *testing.T) {
	e, ownerSrc := newHandlerTestServer()
	o := ownerSrc.add()
	doJSON(e, http.MethodPost, "/api/v1/patients", createBody(o.ID))

	rec := doJSON(e, http.MethodGet, "/api/v1/owners/"+o.ID.String()+"/patients", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("owner patients: expected 200, got %d", rec.Code)
	}
	var items []Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 patient, got %d", len(items))
	}

	rec = doJSON(e, http.MethodGet, "/api/v1/owners/"+uuid.New().String()+"/patients", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown owner: expected 404, got %d", rec.Code)
	}
}

func TestHandler_Stats(t *testing.T) {
	e, ownerSrc := newHandlerTestServer()
	o := ownerSrc.add()
	doJSON(e, http.MethodPost, "/api/v1/patients", createBody(o.ID))

	rec := doJSON(e, http.MethodGet, "/api/v1/patients/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d", rec.Code)
	}
	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Patients != 1 || stats.Owners != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
