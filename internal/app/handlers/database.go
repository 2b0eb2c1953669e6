package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/pricedesk/internal/service"
)

// DBTestHandler обрабатывает GET /db/test
func DBTestHandler(log *slog.Logger, healthService service.HealthServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.DBTestHandler"))

		if err := healthService.CheckDatabase(r.Context()); err != nil {
			writeError(w, logger, http.StatusInternalServerError, "database connection failed")
			return
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Message: "database connection successful"})
	}
}

// SeedHandler обрабатывает POST /db/seed: схема + начальные данные
func SeedHandler(log *slog.Logger, bootstrapper service.BootstrapperInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.SeedHandler"))

		report, err := bootstrapper.Run(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		message := "database seeded successfully"
		if report.Empty() {
			message = "database already seeded"
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Message: message, Data: report})
	}
}

// HealthzHandler - liveness, БД не трогает
func HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}` + "\n"))
	}
}
