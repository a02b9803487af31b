package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

const maxBodyBytes = 1 << 20

var statusByKind = map[domain.Kind]int{
	domain.KindValidation:             http.StatusBadRequest,
	domain.KindUnauthorized:           http.StatusUnauthorized,
	domain.KindNotFound:               http.StatusNotFound,
	domain.KindEmptyCart:              http.StatusConflict,
	domain.KindOutOfStock:             http.StatusConflict,
	domain.KindInvalidTransition:      http.StatusConflict,
	domain.KindStorageConflict:        http.StatusConflict,
	domain.KindCartChanged:            http.StatusConflict,
	domain.KindPaymentFailed:          http.StatusPaymentRequired,
	domain.KindPaymentAmbiguous:       http.StatusBadGateway,
	domain.KindReconciliationRequired: http.StatusInternalServerError,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// respondError maps err to its kind and status. Internal failures are logged, not echoed.
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)

	status, ok := statusByKind[kind]
	if !ok {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, string(domain.KindInternal), "internal error")
		return
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("kind", string(kind)),
			slog.Any("error", err))
	}

	writeError(w, status, string(kind), err.Error())
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty: %w", domain.ErrValidation)
		}
		return fmt.Errorf("invalid json: %v: %w", err, domain.ErrValidation)
	}

	return nil
}
