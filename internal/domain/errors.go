package domain

import "errors"

var (
	ErrValidation             = errors.New("validation error")
	ErrNotFound               = errors.New("not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrOutOfStock             = errors.New("out of stock")
	ErrPaymentFailed          = errors.New("payment failed")
	ErrPaymentAmbiguous       = errors.New("payment outcome unknown")
	ErrStorageConflict        = errors.New("storage conflict")
	ErrReconciliationRequired = errors.New("reconciliation required")
	ErrInvalidTransition      = errors.New("invalid order status transition")
	ErrCartChanged            = errors.New("cart changed during checkout")
)

// Kind is the stable, transport independent name of a failure.
type Kind string

const (
	KindValidation             Kind = "ValidationError"
	KindNotFound               Kind = "NotFound"
	KindUnauthorized           Kind = "Unauthorized"
	KindEmptyCart              Kind = "EmptyCart"
	KindOutOfStock             Kind = "OutOfStock"
	KindPaymentFailed          Kind = "PaymentFailed"
	KindPaymentAmbiguous       Kind = "PaymentAmbiguous"
	KindStorageConflict        Kind = "StorageConflict"
	KindReconciliationRequired Kind = "ReconciliationRequired"
	KindInvalidTransition      Kind = "InvalidTransition"
	KindCartChanged            Kind = "CartChanged"
	KindInternal               Kind = "Internal"
)

// ordered by precedence: a charge that needs reconciling outranks the cause that produced it
var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrReconciliationRequired, KindReconciliationRequired},
	{ErrPaymentAmbiguous, KindPaymentAmbiguous},
	{ErrPaymentFailed, KindPaymentFailed},
	{ErrUnauthorized, KindUnauthorized},
	{ErrValidation, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrEmptyCart, KindEmptyCart},
	{ErrOutOfStock, KindOutOfStock},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrCartChanged, KindCartChanged},
	{ErrStorageConflict, KindStorageConflict},
}

func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindInternal
}
