package handlers

import (
	"log/slog"
	"net/http"

	"github.com/linemk/pricedesk/internal/service"
)

func ListCategoriesHandler(log *slog.Logger, catalogService service.CatalogServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListCategoriesHandler"))

		categories, err := catalogService.ListCategories(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Data: categories})
	}
}

func ListMarketplacesHandler(log *slog.Logger, catalogService service.CatalogServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListMarketplacesHandler"))

		marketplaces, err := catalogService.ListMarketplaces(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Data: marketplaces})
	}
}

func ListStoresHandler(log *slog.Logger, catalogService service.CatalogServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(slog.String("op", "handlers.ListStoresHandler"))

		stores, err := catalogService.ListStores(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Data: stores})
	}
}
