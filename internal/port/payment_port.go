package port

import (
	"context"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type PaymentGateway interface {
	// ValidateCredential checks the credential format without contacting the provider.
	ValidateCredential(credential domain.PaymentCredential) error
	// Charge returns a result with Succeeded false when the provider declines.
	// Any error means the outcome is unknown.
	Charge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error)
}

type PaymentVerifier interface {
	Verify(ctx context.Context, token string) (domain.Verification, error)
}
