package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Jayeshfarkunde27/To-let/internal/adapter/http/middleware"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/platform/metrics"
	"github.com/Jayeshfarkunde27/To-let/internal/user/entity"
	"github.com/Jayeshfarkunde27/To-let/internal/user/repository"
	"github.com/Jayeshfarkunde27/To-let/internal/user/usecase"
	"go.uber.org/zap"
)

type UserHandler struct {
	userUC  *usecase.UserUsecase
	metrics *metrics.MetricsManager
	logger  *logger.Logger
}

func NewUserHandler(userUC *usecase.UserUsecase, mm *metrics.MetricsManager, log *logger.Logger) *UserHandler {
	return &UserHandler{
		userUC:  userUC,
		metrics: mm,
		logger:  log.Named("UserHandler"),
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(user *entity.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request body for Register", zap.Error(err))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, token, err := h.userUC.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			http.Error(w, "Email already registered", http.StatusConflict)
			return
		}
		h.logger.Error("Failed to register user", zap.String("email", req.Email), zap.Error(err))
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	h.metrics.UsersRegisteredTotal.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(authResponse{User: toUserResponse(user), Token: token})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.Error("Failed to login user", zap.String("email", req.Email), zap.Error(err))
		http.Error(w, "Failed to login", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResponse{User: toUserResponse(user), Token: token})
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in token", http.StatusUnauthorized)
		return
	}

	if err := h.userUC.Logout(r.Context(), userID); err != nil {
		h.logger.Error("Failed to logout user", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Failed to logout", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in token", http.StatusUnauthorized)
		return
	}

	user, err := h.userUC.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to fetch profile", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Failed to fetch profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toUserResponse(user))
}

// SelectRole sets the account role, once. The response carries a fresh token
// with the new role claim.
func (h *UserHandler) SelectRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "User ID not found in token", http.StatusUnauthorized)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.userUC.SelectRole(r.Context(), userID, entity.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRole):
			http.Error(w, "Role must be 'tenant' or 'owner'", http.StatusBadRequest)
		case errors.Is(err, usecase.ErrRoleAlreadySet):
			http.Error(w, "Role has already been selected", http.StatusConflict)
		case errors.Is(err, repository.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			h.logger.Error("Failed to set role", zap.String("user_id", userID), zap.Error(err))
			http.Error(w, "Failed to set role", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(authResponse{User: toUserResponse(user), Token: token})
}
