package handler

import (
	"net/http"

	"fsanano/storefront/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Handler struct {
	router *chi.Mux

	catalog   *CatalogHandler
	users     *UserHandler
	orders    *OrderHandler
	inventory *InventoryHandler
}

func NewHandler(
	log zerolog.Logger,
	sessions *session.Manager,
	catalog *CatalogHandler,
	users *UserHandler,
	orders *OrderHandler,
	inventory *InventoryHandler,
) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)
	router.Use(compressor())
	router.Use(sessions.Middleware)

	h := &Handler{
		router:    router,
		catalog:   catalog,
		users:     users,
		orders:    orders,
		inventory: inventory,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Get("/health", h.HealthCheck)

	h.router.Route("/api", func(r chi.Router) {
		r.Get("/category", h.catalog.ListCategories)
		r.Get("/products", h.catalog.SearchProducts)
		r.Get("/products/{categoryId}", h.catalog.ListProductsByCategory)
		r.Get("/shop/product/{productId}", h.catalog.GetProductDetail)

		r.Post("/register", h.users.Register)
		r.Post("/login", h.users.Login)
		r.Post("/logout", h.users.Logout)
		r.Get("/session", h.users.CurrentUser)
		r.Put("/update", h.users.UpdateName)
		r.Put("/updateEmail", h.users.UpdateEmail)
		r.Put("/updatePassword", h.users.UpdatePassword)
		r.Get("/user/{userId}", h.users.GetUser)

		r.Get("/orders/{userId}", h.orders.ListOrders)
		r.Post("/orders", h.orders.PlaceOrder)

		r.Get("/size_id/{productId}/{selectedSize}", h.inventory.GetSizeID)
		r.Get("/product_size/{productSizeId}", h.inventory.GetQuantity)
		r.Put("/product_size/{productSizeId}", h.inventory.SetQuantity)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
