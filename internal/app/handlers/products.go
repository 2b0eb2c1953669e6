package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/pricedesk/internal/service"
	"github.com/linemk/pricedesk/internal/storage"
	"github.com/shopspring/decimal"
)

// CreateProductRequest - тело POST /products. marketplacePrices: {"<id площадки>": цена}
type CreateProductRequest struct {
	Name              string                     `json:"name" validate:"required"`
	SKU               string                     `json:"sku" validate:"required"`
	BasePrice         decimal.Decimal            `json:"basePrice"`
	CategoryID        *EntityID                  `json:"categoryId" validate:"required"`
	Description       string                     `json:"description"`
	HasVariants       bool                       `json:"hasVariants"`
	MarketplacePrices map[string]decimal.Decimal `json:"marketplacePrices"`
}

// EntityID - id в теле запроса: форма присылает его строкой ("1"), клиенты API - числом
type EntityID int64

func (id *EntityID) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = EntityID(v)
	return nil
}

type UpdatePricesRequest struct {
	MarketplacePrices map[string]decimal.Decimal `json:"marketplacePrices" validate:"required,min=1"`
}

type CreateProductResponse struct {
	ProductID int64 `json:"productId"`
}

// ListProductsHandler обрабатывает GET /products?categoryId=&search=
func ListProductsHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		var filter storage.ProductFilter
		if raw := r.URL.Query().Get("categoryId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, logger, http.StatusBadRequest, "invalid categoryId")
				return
			}
			filter.CategoryID = &id
		}
		filter.Search = r.URL.Query().Get("search")

		products, err := productService.ListProducts(r.Context(), filter)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Data: products})
	}
}

// GetProductHandler обрабатывает GET /products/{id}
func GetProductHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		id, ok := productIDParam(w, r, logger)
		if !ok {
			return
		}

		product, err := productService.GetProduct(r.Context(), id)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Data: product})
	}
}

// CreateProductHandler обрабатывает POST /products
func CreateProductHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateProductHandler"
		logger := log.With(slog.String("op", op))

		var req CreateProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Warn("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			logger.Warn("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "missing required fields")
			return
		}

		prices, err := service.ParseMarketplacePrices(req.MarketplacePrices)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		productID, err := productService.CreateProduct(r.Context(), service.CreateProductInput{
			Name:              req.Name,
			SKU:               req.SKU,
			CategoryID:        int64(*req.CategoryID),
			BasePrice:         req.BasePrice,
			Description:       req.Description,
			HasVariants:       req.HasVariants,
			MarketplacePrices: prices,
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, logger, http.StatusCreated, Response{
			Success: true,
			Message: "product created successfully",
			Data:    CreateProductResponse{ProductID: productID},
		})
	}
}

// UpdatePricesHandler обрабатывает PUT /products/{id}/prices
func UpdatePricesHandler(log *slog.Logger, productService service.ProductServiceInterface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdatePricesHandler"
		logger := log.With(slog.String("op", op))

		id, ok := productIDParam(w, r, logger)
		if !ok {
			return
		}

		var req UpdatePricesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, logger, http.StatusBadRequest, "marketplacePrices is required")
			return
		}

		prices, err := service.ParseMarketplacePrices(req.MarketplacePrices)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		if err := productService.UpdatePrices(r.Context(), id, prices); err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, Response{Success: true, Message: "prices updated"})
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, logger, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}
