package patient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc := NewService(newMockRepo(), &mockSeeder{}, nil)
	return NewHandler(svc), echo.New()
}

func TestHandler_Register(t *testing.T) {
	h, e := newTestHandler()

	body := `{"uhid":1001,"name":"Asha Rao","email":"asha@example.com","contact":"9876543210","country":"India","country_code":"+91"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_Register_MissingFields(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"uhid":1001}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Register(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Register_Duplicate(t *testing.T) {
	h, e := newTestHandler()

	body := `{"uhid":1001,"name":"Asha Rao","email":"asha@example.com","contact":"9876543210","country":"India","country_code":"+91"}`
	for attempt := 0; attempt < 2; attempt++ {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := h.Register(c)
		if attempt == 0 {
			if err != nil {
				t.Fatalf("first registration: %v", err)
			}
			continue
		}
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) || httpErr.Code != http.StatusConflict {
			t.Errorf("expected 409, got %v", err)
		}
	}
}

func TestHandler_Get(t *testing.T) {
	h, e := newTestHandler()
	p := validPatient()
	if err := h.svc.Register(nil, p); err != nil {
		t.Fatalf("register: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uhid")
	c.SetParamValues("1001")

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.UHID != 1001 || got.Name != "Asha Rao" {
		t.Errorf("unexpected patient: %+v", got)
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uhid")
	c.SetParamValues("4040")

	err := h.Get(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_Get_InvalidUHID(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("uhid")
	c.SetParamValues("abc")

	err := h.Get(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_List(t *testing.T) {
	h, e := newTestHandler()
	if err := h.svc.Register(nil, validPatient()); err != nil {
		t.Fatalf("register: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/?limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected total 1, got %d", resp.Total)
	}
}
