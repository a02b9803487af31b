package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

const defaultListLimit = 50

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForOwner(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrders(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	order, err := h.orders.Get(r.Context(), ownerFrom(r.Context()), orderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	order, err := h.orders.Cancel(r.Context(), ownerFrom(r.Context()), orderID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	orders, err := h.orders.ListAll(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrders(orders))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuidParam(r, "orderID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	order, err := h.orders.Transition(r.Context(), orderID, status)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}

func (h *Handler) listReconciliations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.orders.Reconciliations(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapReconciliations(recs))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "productID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	product, err := h.products.GetProduct(r.Context(), productID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProduct(product))
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s[%s] is not a number: %w", name, raw, domain.ErrValidation)
	}
	return n, nil
}
