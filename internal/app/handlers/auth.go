package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/pricedesk/internal/domain/models"
	"github.com/linemk/pricedesk/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/pricedesk/internal/service"
)

// LoginRequest - identifier это username или email
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Secret     string `json:"secret" validate:"required"`
}

// LoginResponse - токен и пользователь лежат на верхнем уровне ответа
type LoginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentSecret string `json:"currentSecret" validate:"required"`
	NewSecret     string `json:"newSecret" validate:"required"`
}

var validate = validator.New()

// LoginHandler обрабатывает POST /auth/login
func LoginHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.LoginHandler"
		logger := log.With(slog.String("op", op))

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "identifier and secret are required")
			return
		}

		res, err := authService.Login(r.Context(), req.Identifier, req.Secret)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, LoginResponse{
			Success: true,
			Message: "login successful",
			Token:   res.Token,
			User:    res.User,
		})
	}
}

// ChangePasswordHandler обрабатывает POST /auth/password для пользователя из токена
func ChangePasswordHandler(log *slog.Logger, authService service.AuthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ChangePasswordHandler"
		logger := log.With(slog.String("op", op))

		claims, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("claims not found in context")
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "currentSecret and newSecret are required")
			return
		}

		if err := authService.ChangePassword(r.Context(), claims.UserID, req.CurrentSecret, req.NewSecret); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusOK, Response{Success: true, Message: "password changed"})
	}
}
