package domain

import (
	"log/slog"

	"github.com/google/uuid"
)

// PaymentCredential is forwarded to the gateway and never persisted.
type PaymentCredential struct {
	CardNumber  string
	HolderName  string
	ExpiryMonth int
	ExpiryYear  int
	CVC         string
}

// String masks the card number so credentials never reach logs.
func (c PaymentCredential) String() string {
	if len(c.CardNumber) < 4 {
		return "****"
	}

	return "****" + c.CardNumber[len(c.CardNumber)-4:]
}

func (c PaymentCredential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}

type ChargeRequest struct {
	Amount     Money
	Credential PaymentCredential
	// Reference makes the charge idempotent at the provider.
	Reference string
}

type ChargeResult struct {
	Succeeded     bool
	TransactionID string
	Message       string
}

// Verification is the provider's view of a hosted payment confirmation token.
type Verification struct {
	Token         string
	Paid          bool
	TransactionID string
	// Amount is what the provider collected; nil when it did not say.
	Amount *Money
	// PayerID is the owner the session was opened for, empty when unknown.
	PayerID string
}

type ConfirmationResult struct {
	OrderID  uuid.UUID
	Replayed bool
}
