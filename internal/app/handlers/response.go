package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linemk/pricedesk/internal/service"
	"github.com/linemk/pricedesk/internal/storage"
)

// Response - общий конверт ответа
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		// заголовок уже отправлен, остается только залогировать
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, Response{Success: false, Message: message})
}

// writeServiceError переводит ошибку сервиса в статус. Подробности сбоя остаются в логах.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, logger, http.StatusBadRequest, "validation error")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, logger, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrReferenceNotFound):
		if errors.Is(err, storage.ErrCategoryNotFound) {
			writeError(w, logger, http.StatusBadRequest, "category not found")
			return
		}
		writeError(w, logger, http.StatusBadRequest, "marketplace not found")
	case errors.Is(err, service.ErrNotFound):
		writeError(w, logger, http.StatusNotFound, "not found")
	default:
		logger.Error("request failed", slog.Any("error", err))
		writeError(w, logger, http.StatusInternalServerError, "internal server error")
	}
}
