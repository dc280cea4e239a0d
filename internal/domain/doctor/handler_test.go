package doctor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/identity"
)

func newHandlerTest() *Handler {
	users := &mockIdentityStore{byID: make(map[uuid.UUID]*identity.User)}
	repo := &mockRepo{doctors: make(map[uuid.UUID]*Doctor), users: users}
	svc := NewService(repo, users, zerolog.New(os.Stderr))
	return NewHandler(svc, true)
}

func TestListHandler(t *testing.T) {
	e := echo.New()
	h := newHandlerTest()
	if _, err := h.svc.Seed(nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
	rec := httptest.NewRecorder()
	if err := h.List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var doctors []Doctor
	if err := json.Unmarshal(rec.Body.Bytes(), &doctors); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(doctors) != 3 {
		t.Fatalf("expected 3 doctors, got %d", len(doctors))
	}
	for _, d := range doctors {
		if d.User == nil || d.User.Name == "" {
			t.Error("listing must embed the user summary")
		}
	}
}

func TestCreateHandler(t *testing.T) {
	e := echo.New()
	h := newHandlerTest()

	body := `{"name":"Dr. House","email":"house@clinic.com","specialty":"Diagnostics","bio":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/doctors", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}

	// Same email again is a conflict with the doctor-specific message.
	req = httptest.NewRequest(http.MethodPost, "/api/doctors", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	err := h.Create(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusConflict || he.Message != "Doctor with this email already exists" {
		t.Errorf("unexpected error: %v", he)
	}
}

func TestSeedHandler(t *testing.T) {
	e := echo.New()
	h := newHandlerTest()

	req := httptest.NewRequest(http.MethodPost, "/api/doctors/seed", nil)
	rec := httptest.NewRecorder()
	if err := h.Seed(e.NewContext(req, rec)); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	var resp struct {
		Message string   `json:"message"`
		Doctors []Doctor `json:"doctors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "Sample doctors added successfully" || len(resp.Doctors) != 3 {
		t.Errorf("unexpected response: %+v", resp)
	}
}
