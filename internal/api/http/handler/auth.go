package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/dtroode/enrollment-server/internal/api/http/metrics"
	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/model"
)

const maxBodyBytes = 1 << 20

// RegistrationService registers new users.
type RegistrationService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.RegisterResult, error)
}

// EmailVerificationService completes email verification.
type EmailVerificationService interface {
	VerifyEmail(ctx context.Context, presented string) (model.VerifyEmailResult, error)
}

// Origin decides which scheme://host verification links point at.
type Origin struct {
	// PublicBaseURL, when set, is used verbatim.
	PublicBaseURL string
	// TrustProxyHeaders enables X-Forwarded-Proto and X-Forwarded-Host.
	// Only set it behind a proxy that overwrites both.
	TrustProxyHeaders bool
}

// Auth serves the registration and verification endpoints.
type Auth struct {
	registration RegistrationService
	verification EmailVerificationService
	validate     *validator.Validate
	origin       Origin
	logger       *logger.Logger
}

func NewAuth(registration RegistrationService, verification EmailVerificationService, origin Origin, logger *logger.Logger) *Auth {
	return &Auth{
		registration: registration,
		verification: verification,
		validate:     validator.New(),
		origin:       origin,
		logger:       logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,max=128"`
}

type registerResponse struct {
	User      model.PublicUser `json:"user"`
	EmailSent bool             `json:"email_sent"`
}

type verifyEmailResponse struct {
	User                  model.PublicUser `json:"user"`
	AccessToken           string           `json:"access_token"`
	RefreshToken          string           `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time        `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time        `json:"refresh_token_expires_at"`
}

// Register handles POST /api/v1/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, "request body must be valid JSON")
		return
	}

	body.Email = strings.TrimSpace(body.Email)
	body.Username = strings.TrimSpace(body.Username)

	if err := h.validate.Struct(&body); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, validationMessage(err))
		return
	}

	res, err := h.registration.Register(r.Context(), model.RegisterParams{
		Email:    body.Email,
		Username: body.Username,
		Password: body.Password,
		Origin:   requestOrigin(r, h.origin),
	})
	if err != nil {
		metrics.RecordRegistration(registrationOutcome(err))
		WriteServiceError(w, err)
		return
	}

	message := "User registered successfully. Verification email has been sent to your email."
	if !res.EmailSent {
		metrics.RecordRegistration(metrics.OutcomeMailFault)
		message = "User registered successfully, but the verification email could not be sent."
	} else {
		metrics.RecordRegistration(metrics.OutcomeSuccess)
	}

	WriteData(w, http.StatusCreated, registerResponse{User: res.User, EmailSent: res.EmailSent}, message)
}

// VerifyEmail handles GET /api/v1/auth/verify-email/{verificationToken}.
func (h *Auth) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	presented := chi.URLParam(r, "verificationToken")
	if presented == "" {
		WriteError(w, http.StatusBadRequest, KindInvalidToken, "verification token is missing")
		return
	}

	res, err := h.verification.VerifyEmail(r.Context(), presented)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, verifyEmailResponse{
		User:                  res.User,
		AccessToken:           res.Credentials.AccessToken,
		RefreshToken:          res.Credentials.RefreshToken,
		AccessTokenExpiresAt:  res.Credentials.AccessExpiresAt,
		RefreshTokenExpiresAt: res.Credentials.RefreshExpiresAt,
	}, "Email verified successfully")
}

func registrationOutcome(err error) string {
	switch {
	case errors.Is(err, model.ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, model.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, model.ErrCrypto):
		return metrics.OutcomeCryptoFault
	default:
		return metrics.OutcomeStorageFault
	}
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "request validation failed"
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return "request validation failed: " + strings.Join(fields, ", ")
}

// requestOrigin returns the scheme://host the client reached us on.
// A configured public base URL always wins over request headers; forwarded
// headers are ignored unless the proxy in front is trusted.
func requestOrigin(r *http.Request, origin Origin) string {
	if origin.PublicBaseURL != "" {
		return strings.TrimRight(origin.PublicBaseURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if origin.TrustProxyHeaders {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}
		if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
			host = strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}

	return scheme + "://" + host
}
