package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpctx "github.com/dtroode/enrollment-server/internal/api/http/context"
	"github.com/dtroode/enrollment-server/internal/mocks"
	"github.com/dtroode/enrollment-server/internal/model"
	"github.com/dtroode/enrollment-server/internal/testutil"
)

type routerMocks struct {
	registration *mocks.RegistrationService
	verification *mocks.EmailVerificationService
	users        *mocks.UserService
	tokens       *mocks.TokenService
}

func newTestRouter(t *testing.T, opts Options) (http.Handler, routerMocks) {
	m := routerMocks{
		registration: mocks.NewRegistrationService(t),
		verification: mocks.NewEmailVerificationService(t),
		users:        mocks.NewUserService(t),
		tokens:       mocks.NewTokenService(t),
	}
	r := New(m.registration, m.verification, m.users, m.tokens, httpctx.NewManager(), testutil.MakeNoopLogger(), opts)
	return r.Register(), m
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	enabled, _ := newTestRouter(t, Options{Metrics: true})
	rec := httptest.NewRecorder()
	enabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "enrollment_http_request_duration_seconds")

	disabled, _ := newTestRouter(t, Options{})
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Register_ForwardedHost(t *testing.T) {
	tests := []struct {
		name       string
		trustProxy bool
		wantOrigin string
	}{
		{name: "untrusted peer", trustProxy: false, wantOrigin: "http://example.com"},
		{name: "trusted proxy", trustProxy: true, wantOrigin: "https://accounts.example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestRouter(t, Options{TrustProxyHeaders: tt.trustProxy})
			m.registration.On("Register", mock.Anything, mock.MatchedBy(func(p model.RegisterParams) bool {
				return p.Origin == tt.wantOrigin
			})).Return(model.RegisterResult{User: model.PublicUser{ID: uuid.New()}, EmailSent: true}, nil).Once()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"a@x.com","username":"alice","password":"pw"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Forwarded-Proto", "https")
			req.Header.Set("X-Forwarded-Host", "accounts.example.org")
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusCreated, rec.Code)
		})
	}
}

func TestRouter_Register(t *testing.T) {
	h, m := newTestRouter(t, Options{PublicBaseURL: "https://id.example.com", RequestTimeout: time.Second})
	m.registration.On("Register", mock.Anything, mock.MatchedBy(func(p model.RegisterParams) bool {
		return p.Origin == "https://id.example.com" && p.Email == "a@x.com"
	})).Return(model.RegisterResult{User: model.PublicUser{ID: uuid.New()}, EmailSent: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"a@x.com","username":"alice","password":"pw"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_Register_RejectsNonJSON(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("email=a@x.com"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_VerifyEmail(t *testing.T) {
	h, m := newTestRouter(t, Options{})
	m.verification.On("VerifyEmail", mock.Anything, "abc").Return(model.VerifyEmailResult{}, model.ErrInvalidToken)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify-email/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_UsersMe(t *testing.T) {
	userID := uuid.New()
	h, m := newTestRouter(t, Options{})
	m.tokens.On("GetUserID", mock.Anything, "good").Return(userID, nil)
	m.users.On("Get", mock.Anything, userID).Return(model.PublicUser{ID: userID}, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_NotFound(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"not_found"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/auth/register", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
