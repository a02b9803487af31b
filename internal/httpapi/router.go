package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nikolayk812/cart-checkout/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterConfig struct {
	UserHeader string
	AdminToken string
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(h *Handler, cfg RouterConfig, m *metrics.Metrics, gatherer prometheus.Gatherer, db Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Instrument(m))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Unavailable", "database unreachable")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products/{productID}", h.getProduct)

		r.Group(func(r chi.Router) {
			r.Use(RequireOwner(cfg.UserHeader))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.getCart)
				r.Put("/", h.replaceCart)
				r.Delete("/", h.clearCart)
				r.Post("/merge", h.mergeCart)
				r.Post("/items", h.addItem)
				r.Patch("/items/{lineID}", h.updateItem)
				r.Delete("/items/{lineID}", h.removeItem)
			})

			r.Post("/checkout", h.checkout)
			r.Post("/payments/confirm", h.confirmPayment)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.listOrders)
				r.Get("/{orderID}", h.getOrder)
				r.Post("/{orderID}/cancel", h.cancelOrder)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin(cfg.AdminToken))

			r.Get("/orders", h.listAllOrders)
			r.Patch("/orders/{orderID}/status", h.updateOrderStatus)
			r.Get("/reconciliations", h.listReconciliations)
		})
	})

	return r
}
