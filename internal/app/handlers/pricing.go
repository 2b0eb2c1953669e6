package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/pricedesk/internal/service"
	"github.com/shopspring/decimal"
)

// SuggestPricesHandler обрабатывает GET /pricing/suggest?basePrice=
func SuggestPricesHandler(log *slog.Logger, pricingService service.PricingServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.SuggestPricesHandler"
		logger := log.With(slog.String("op", op))

		basePrice, err := decimal.NewFromString(r.URL.Query().Get("basePrice"))
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid basePrice")
			return
		}

		suggestion, err := pricingService.Suggest(r.Context(), basePrice)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Data: suggestion})
	}
}
