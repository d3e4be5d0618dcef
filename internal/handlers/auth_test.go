package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/SanjanaSK25/Career-Connect/internal/models"
)

func registerBody(t *testing.T, name, username, email, password string) []byte {
	t.Helper()
	body, err := json.Marshal(registerRequest{Name: name, Username: username, Email: email, Password: password})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return body
}

func TestAuthHandlerRegister(t *testing.T) {
	store := newInMemoryUserStore()
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	handler := AuthHandler{Users: store, Sessions: &stubSessionIssuer{}, NowFunc: func() time.Time { return now }}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(registerBody(t, "Ada Lovelace", "ada", "ada@example.com", "s3cret")))
	rec := httptest.NewRecorder()

	handler.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	user, err := store.FindByEmail(req.Context(), "ada@example.com")
	if err != nil {
		t.Fatalf("expected user to be stored: %v", err)
	}
	if user.CreatedAt != now {
		t.Fatalf("expected createdAt to use NowFunc")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")); err != nil {
		t.Fatalf("expected stored password to be a bcrypt hash of the input: %v", err)
	}
	if _, ok := store.profiles[user.ID]; !ok {
		t.Fatalf("expected an empty profile to be created with the user")
	}
}

func TestAuthHandlerRegisterDuplicateEmail(t *testing.T) {
	store := newInMemoryUserStore()
	handler := AuthHandler{Users: store, Sessions: &stubSessionIssuer{}}

	first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(registerBody(t, "Ada", "ada", "ada@example.com", "pw")))
	rec := httptest.NewRecorder()
	handler.Register(rec, first)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected first registration to succeed, got %d", rec.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(registerBody(t, "Other", "other", "ada@example.com", "pw")))
	rec = httptest.NewRecorder()
	handler.Register(rec, second)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected duplicate email to return %d got %d", http.StatusBadRequest, rec.Code)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected a single stored user, got %d", len(store.users))
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	taken := newInMemoryUserStore()
	taken.users["u1"] = models.User{ID: "u1", Email: "ada@example.com", Username: "ada"}

	cases := []struct {
		name       string
		handler    AuthHandler
		method     string
		body       []byte
		wantStatus int
	}{
		{"wrongMethod", AuthHandler{Users: newInMemoryUserStore(), Sessions: &stubSessionIssuer{}}, http.MethodGet, nil, http.StatusMethodNotAllowed},
		{"missingDeps", AuthHandler{}, http.MethodPost, registerBody(t, "A", "a", "a@example.com", "pw"), http.StatusInternalServerError},
		{"badJSON", AuthHandler{Users: newInMemoryUserStore(), Sessions: &stubSessionIssuer{}}, http.MethodPost, []byte("{"), http.StatusBadRequest},
		{"missingFields", AuthHandler{Users: newInMemoryUserStore(), Sessions: &stubSessionIssuer{}}, http.MethodPost, []byte(`{"name":"A","email":"a@example.com"}`), http.StatusBadRequest},
		{"invalidEmail", AuthHandler{Users: newInMemoryUserStore(), Sessions: &stubSessionIssuer{}}, http.MethodPost, registerBody(t, "A", "a", "not-an-email", "pw"), http.StatusBadRequest},
		{"takenUsername", AuthHandler{Users: taken, Sessions: &stubSessionIssuer{}}, http.MethodPost, registerBody(t, "B", "ada", "b@example.com", "pw"), http.StatusBadRequest},
		{"storeError", AuthHandler{Users: newErrUserStore(errStoreDown), Sessions: &stubSessionIssuer{}}, http.MethodPost, registerBody(t, "A", "a", "a@example.com", "pw"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/auth/register", bytes.NewReader(tc.body))
			rec := httptest.NewRecorder()

			tc.handler.Register(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthHandlerRegisterRateLimited(t *testing.T) {
	handler := AuthHandler{Users: newInMemoryUserStore(), Sessions: &stubSessionIssuer{}, Limiter: denyAllLimiter{}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(registerBody(t, "A", "a", "a@example.com", "pw")))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d got %d", http.StatusTooManyRequests, rec.Code)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	store := newInMemoryUserStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	store.users["u1"] = models.User{ID: "u1", Email: "ada@example.com", Username: "ada", Password: string(hash)}

	issuer := &stubSessionIssuer{}
	handler := AuthHandler{Users: store, Sessions: issuer}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(`{"email":"ada@example.com","password":"s3cret"}`)))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Data tokenResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Token == "" {
		t.Fatalf("expected a token in the response")
	}
	if issuer.issued["u1"] != 1 {
		t.Fatalf("expected one token issued for u1, got %d", issuer.issued["u1"])
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	store := newInMemoryUserStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	store.users["u1"] = models.User{ID: "u1", Email: "ada@example.com", Username: "ada", Password: string(hash)}

	cases := []struct {
		name       string
		handler    AuthHandler
		method     string
		body       []byte
		wantStatus int
	}{
		{"wrongMethod", AuthHandler{Users: store, Sessions: &stubSessionIssuer{}}, http.MethodGet, nil, http.StatusMethodNotAllowed},
		{"missingDeps", AuthHandler{}, http.MethodPost, []byte(`{"email":"ada@example.com","password":"s3cret"}`), http.StatusInternalServerError},
		{"badJSON", AuthHandler{Users: store, Sessions: &stubSessionIssuer{}}, http.MethodPost, []byte("{"), http.StatusBadRequest},
		{"missingFields", AuthHandler{Users: store, Sessions: &stubSessionIssuer{}}, http.MethodPost, []byte(`{"email":"ada@example.com"}`), http.StatusBadRequest},
		{"unknownEmail", AuthHandler{Users: store, Sessions: &stubSessionIssuer{}}, http.MethodPost, []byte(`{"email":"nobody@example.com","password":"pw"}`), http.StatusNotFound},
		{"wrongPassword", AuthHandler{Users: store, Sessions: &stubSessionIssuer{}}, http.MethodPost, []byte(`{"email":"ada@example.com","password":"wrong"}`), http.StatusBadRequest},
		{"issueError", AuthHandler{Users: store, Sessions: &stubSessionIssuer{err: errStoreDown}}, http.MethodPost, []byte(`{"email":"ada@example.com","password":"s3cret"}`), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/auth/login", bytes.NewReader(tc.body))
			rec := httptest.NewRecorder()

			tc.handler.Login(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(string) bool { return false }
