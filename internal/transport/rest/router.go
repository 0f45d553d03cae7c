// Package rest содержит HTTP API витрины поверх chi.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

// Config описывает зависимости HTTP API.
type Config struct {
	Orders   OrderService
	Products ProductService
	News     NewsService
	Users    []Credentials
	Metrics  *metrics.Metrics
	Logger   *log.Entry
}

// NewRouter собирает маршруты API. Все маршруты требуют Basic-аутентификации.
func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	h := &handler{
		orders:   cfg.Orders,
		products: cfg.Products,
		news:     cfg.News,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(instrument(cfg.Metrics))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Group(func(r chi.Router) {
		r.Use(BasicAuth(cfg.Users))

		r.Route("/orders/api/v1", func(r chi.Router) {
			r.With(RequireRoles(RoleCustomer)).Post("/create", h.createOrder)
			r.With(RequireRoles(RoleCustomer)).Put("/add/{orderId}", h.addProductToOrder)
			r.With(RequireRoles(RoleCustomer)).Get("/summary/{orderId}", h.orderSummary)
			r.With(RequireRoles(RoleCustomer, RoleAdmin)).Get("/timeline/{orderId}", h.orderTimeline)
		})

		r.Route("/products/api/v1", func(r chi.Router) {
			r.With(RequireRoles(RoleAdmin)).Post("/add", h.addProduct)
			r.With(RequireRoles(RoleAdmin)).Put("/update/{productId}", h.updateProduct)
			r.With(RequireRoles(RoleAdmin)).Delete("/delete/{productId}", h.deleteProduct)
			r.With(RequireRoles(RoleCustomer, RoleAdmin)).Get("/list", h.listProducts)
		})

		r.Route("/news/api/v1", func(r chi.Router) {
			r.With(RequireRoles(RoleAdmin)).Post("/add", h.addNews)
			r.With(RequireRoles(RoleCustomer, RoleAdmin)).Get("/list", h.listNews)
		})
	})

	return r
}
