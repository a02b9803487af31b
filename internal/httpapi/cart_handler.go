package httpapi

import (
	"net/http"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Get(r.Context(), ownerFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	productID, err := parseProductID(req.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	line, err := h.carts.Add(r.Context(), ownerFrom(r.Context()), productID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapCartLine(line))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuidParam(r, "lineID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	line, err := h.carts.Update(r.Context(), ownerFrom(r.Context()), lineID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCartLine(line))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuidParam(r, "lineID")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.carts.Remove(r.Context(), ownerFrom(r.Context()), lineID); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) replaceCart(w http.ResponseWriter, r *http.Request) {
	var req ReplaceCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	lines, err := mapLines(req.Items)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cart, err := h.carts.Replace(r.Context(), ownerFrom(r.Context()), lines)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapCart(cart))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), ownerFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) mergeCart(w http.ResponseWriter, r *http.Request) {
	var req MergeCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ownerID := ownerFrom(r.Context())

	result, err := h.carts.Merge(r.Context(), ownerID, domain.AnonymousCart(mapAnonymousLines(req.Items)))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	cart, err := h.carts.Get(r.Context(), ownerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, MergeCartResponse{
		Inserted: result.Inserted,
		Kept:     result.Kept,
		Skipped:  result.Skipped,
		Cart:     mapCart(cart),
	})
}
