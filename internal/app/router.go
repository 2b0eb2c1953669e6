package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/pricedesk/internal/app/handlers"
	"github.com/linemk/pricedesk/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/pricedesk/internal/lib/logger/handlers/urllog"
	"github.com/linemk/pricedesk/internal/service"
	"github.com/linemk/pricedesk/internal/storage"
)

// Router собирает слои и маршруты приложения
func (a *App) Router() http.Handler {
	log := a.Logger

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(a.DB)
	catalogRepo := storage.NewCatalogRepository(a.DB)
	productRepo := storage.NewProductRepository(a.DB)
	transactor := storage.NewTransactor(log, a.DB)

	authService := service.NewAuthService(log, userRepo, a.Config.JWT.Secret, a.Config.JWT.TokenTTLDuration())
	pricingService := service.NewPricingService(log, catalogRepo)
	productService := service.NewProductService(log, transactor, productRepo, catalogRepo, pricingService)
	catalogService := service.NewCatalogService(log, catalogRepo)
	healthService := service.NewHealthService(log, storage.NewHealthRepository(a.DB))

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", handlers.HealthzHandler())
	router.Post("/auth/login", handlers.LoginHandler(log, authService))
	router.Get("/db/test", handlers.DBTestHandler(log, healthService))
	router.Post("/db/seed", handlers.SeedHandler(log, a.Bootstrapper()))

	router.Group(func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(a.Config.JWT.Secret))

		r.Post("/auth/password", handlers.ChangePasswordHandler(log, authService))

		r.Get("/products", handlers.ListProductsHandler(log, productService))
		r.Post("/products", handlers.CreateProductHandler(log, productService))
		r.Get("/products/{id}", handlers.GetProductHandler(log, productService))
		r.Put("/products/{id}/prices", handlers.UpdatePricesHandler(log, productService))

		r.Get("/pricing/suggest", handlers.SuggestPricesHandler(log, pricingService))

		r.Get("/categories", handlers.ListCategoriesHandler(log, catalogService))
		r.Get("/marketplaces", handlers.ListMarketplacesHandler(log, catalogService))
		r.Get("/stores", handlers.ListStoresHandler(log, catalogService))
	})

	return router
}
