package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkalinin/userkeeper/internal/common"
	"github.com/mkalinin/userkeeper/internal/logging"
	"github.com/mkalinin/userkeeper/internal/server/models"
)

// UserService is the surface of the account service consumed by the HTTP
// layer.
type UserService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)
	IssueToken(user *models.User) (string, error)
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]models.UserProjection, error)
}

type Handler struct {
	users  UserService
	logger logging.Logger
}

func NewHandler(us UserService, l logging.Logger) *Handler {
	return &Handler{users: us, logger: l}
}

// NewServeMux registers all routes and wraps them with request-id, logging,
// and recovery middleware. Protected routes additionally require HTTP Basic
// credentials, where the username slot may carry either a username or a
// previously issued token (with the password then ignored).
func NewServeMux(h *Handler, logger logging.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Hello)
	mux.HandleFunc("GET /index", h.Hello)
	mux.HandleFunc("POST /api/v1/users", h.CreateUser)

	mux.Handle("GET /api/v1/users", h.requireAuth(http.HandlerFunc(h.ListUsers)))
	mux.Handle("GET /api/v1/token", h.requireAuth(http.HandlerFunc(h.GetToken)))
	mux.Handle("DELETE /api/v1/users/{username}", h.requireAuth(http.HandlerFunc(h.DeleteUser)))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// Hello confirms that the API actually works.
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Hello World!"))
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// CreateUser registers a new account and returns its projection.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username, password and email are required")
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, "username already taken")
			return
		}
		h.logger.Error(r.Context(), "failed to create user", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info(r.Context(), "user created", "username", user.Username)
	writeJSON(w, http.StatusCreated, user.Projection())
}

// ListUsers returns the projections of all accounts.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "failed to list users", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, list)
}

type tokenResponse struct {
	Token string `json:"token"`
}

// GetToken mints a fresh token for the authenticated user.
func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	token, err := h.users.IssueToken(user)
	if err != nil {
		h.logger.Error(r.Context(), "failed to issue token", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// DeleteUser removes an account. Administrative surface; callers still
// authenticate like everyone else.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	if err := h.users.DeleteUser(r.Context(), username); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "no such user")
			return
		}
		h.logger.Error(r.Context(), "failed to delete user", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info(r.Context(), "user deleted", "username", username)
	w.WriteHeader(http.StatusNoContent)
}
