package httpapi

import (
	"net/http"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

const idempotencyKeyHeader = "Idempotency-Key"

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	credential := domain.PaymentCredential{
		CardNumber:  req.Card.Number,
		HolderName:  req.Card.HolderName,
		ExpiryMonth: req.Card.ExpiryMonth,
		ExpiryYear:  req.Card.ExpiryYear,
		CVC:         req.Card.CVC,
	}

	result, err := h.checkouts.Checkout(r.Context(), ownerFrom(r.Context()), credential, r.Header.Get(idempotencyKeyHeader))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CheckoutResponse{
		Order:            mapOrder(result.Order),
		PaymentReference: result.PaymentReference,
	})
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	lines, err := mapLines(req.Items)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.confirmations.Confirm(r.Context(), ownerFrom(r.Context()), lines, req.Token)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, ConfirmPaymentResponse{
		OrderID:  result.OrderID,
		Replayed: result.Replayed,
	})
}
