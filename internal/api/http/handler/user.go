package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/model"
)

// UserService reads user profiles.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
}

// User serves the profile endpoints.
type User struct {
	users          UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUser(users UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{users: users, contextManager: contextManager, logger: logger}
}

// Me handles GET /api/v1/users/me.
func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, KindUnauthorized, "authorization required")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		h.logger.Warn("User handler: failed to load current user",
			"user_id", userID,
			"error", err.Error())
		WriteServiceError(w, err)
		return
	}

	WriteData(w, http.StatusOK, map[string]model.PublicUser{"user": user}, "Current user fetched successfully")
}
