package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

type timeoutGateway struct {
	next    port.PaymentGateway
	timeout time.Duration
}

// WithTimeout bounds every charge. A charge that errors, including one that runs out
// of time, is reported as ErrPaymentAmbiguous since the provider may have taken the money.
func WithTimeout(next port.PaymentGateway, timeout time.Duration) port.PaymentGateway {
	return &timeoutGateway{next: next, timeout: timeout}
}

func (g *timeoutGateway) ValidateCredential(credential domain.PaymentCredential) error {
	return g.next.ValidateCredential(credential)
}

func (g *timeoutGateway) Charge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.next.Charge(ctx, req)
	if err == nil {
		return result, nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ChargeResult{}, fmt.Errorf("charge[%s] timed out after %s: %w", req.Reference, g.timeout, domain.ErrPaymentAmbiguous)
	}

	return domain.ChargeResult{}, fmt.Errorf("charge[%s]: %w: %w", req.Reference, domain.ErrPaymentAmbiguous, err)
}

type timeoutVerifier struct {
	next    port.PaymentVerifier
	timeout time.Duration
}

func VerifierWithTimeout(next port.PaymentVerifier, timeout time.Duration) port.PaymentVerifier {
	return &timeoutVerifier{next: next, timeout: timeout}
}

func (v *timeoutVerifier) Verify(ctx context.Context, token string) (domain.Verification, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	verification, err := v.next.Verify(ctx, token)
	if err == nil {
		return verification, nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Verification{}, fmt.Errorf("verify timed out after %s: %w", v.timeout, domain.ErrPaymentAmbiguous)
	}

	return domain.Verification{}, fmt.Errorf("verify: %w: %w", domain.ErrPaymentAmbiguous, err)
}
