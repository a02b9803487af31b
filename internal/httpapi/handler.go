package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type Handler struct {
	carts         CartService
	checkouts     CheckoutService
	confirmations ConfirmationService
	orders        OrderService
	products      ProductCatalog
	logger        *slog.Logger
}

func NewHandler(
	carts CartService,
	checkouts CheckoutService,
	confirmations ConfirmationService,
	orders OrderService,
	products ProductCatalog,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		carts:         carts,
		checkouts:     checkouts,
		confirmations: confirmations,
		orders:        orders,
		products:      products,
		logger:        logger,
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, h.logger, err)
}

func parseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("product_id %q is not a valid uuid: %w", raw, domain.ErrValidation)
	}
	return id, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s is not a valid uuid: %w", name, domain.ErrValidation)
	}
	return id, nil
}
