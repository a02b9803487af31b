// Package payment holds PaymentGateway adapters.
//
// Sandbox simulates a card provider for development and tests. Card numbers
// ending in 0002 are declined and ones ending in 0119 never answer, so callers
// can exercise both the failed and the unknown outcome. Hosted payments exist
// only once OpenSession recorded them; any other token verifies as unpaid.
package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

const (
	declineSuffix = "0002"
	hangSuffix    = "0119"

	sessionTokenPrefix = "cs_"
)

type session struct {
	payerID string
	amount  domain.Money
}

type Sandbox struct {
	latency time.Duration

	mu       sync.Mutex
	charges  map[string]domain.ChargeResult
	sessions map[string]session
	calls    int
}

func NewSandbox(latency time.Duration) *Sandbox {
	return &Sandbox{
		latency:  latency,
		charges:  make(map[string]domain.ChargeResult),
		sessions: make(map[string]session),
	}
}

func (s *Sandbox) ValidateCredential(credential domain.PaymentCredential) error {
	number := normaliseCardNumber(credential.CardNumber)
	if len(number) < 12 {
		return fmt.Errorf("card number must have at least 12 digits: %w", domain.ErrValidation)
	}
	for _, r := range number {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("card number must be numeric: %w", domain.ErrValidation)
		}
	}
	if credential.ExpiryMonth != 0 && (credential.ExpiryMonth < 1 || credential.ExpiryMonth > 12) {
		return fmt.Errorf("expiry month[%d] is not valid: %w", credential.ExpiryMonth, domain.ErrValidation)
	}

	return nil
}

// Charge is idempotent per reference: a reference that already succeeded returns the same transaction.
func (s *Sandbox) Charge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	if req.Reference == "" {
		return domain.ChargeResult{}, fmt.Errorf("reference is empty")
	}

	s.mu.Lock()
	s.calls++
	previous, ok := s.charges[req.Reference]
	s.mu.Unlock()
	if ok {
		return previous, nil
	}

	if err := s.wait(ctx); err != nil {
		return domain.ChargeResult{}, err
	}

	number := normaliseCardNumber(req.Credential.CardNumber)
	switch {
	case s.ValidateCredential(req.Credential) != nil:
		return domain.ChargeResult{Message: "invalid payment details"}, nil
	case req.Amount.Amount.IsNegative():
		return domain.ChargeResult{Message: "negative amount"}, nil
	case strings.HasSuffix(number, declineSuffix):
		return domain.ChargeResult{Message: "card declined"}, nil
	case strings.HasSuffix(number, hangSuffix):
		<-ctx.Done()
		return domain.ChargeResult{}, ctx.Err()
	}

	result := domain.ChargeResult{
		Succeeded:     true,
		TransactionID: "txn_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		Message:       fmt.Sprintf("charged %s", req.Amount),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if previous, ok := s.charges[req.Reference]; ok {
		return previous, nil
	}
	s.charges[req.Reference] = result

	return result, nil
}

// OpenSession records a hosted payment payerID completed for amount and returns its confirmation token.
func (s *Sandbox) OpenSession(payerID string, amount domain.Money) string {
	token := sessionTokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{payerID: payerID, amount: amount}

	return token
}

// Verify reports tokens of opened sessions as paid, with their payer and amount.
func (s *Sandbox) Verify(ctx context.Context, token string) (domain.Verification, error) {
	if err := s.wait(ctx); err != nil {
		return domain.Verification{}, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[token]
	s.mu.Unlock()
	if !ok {
		return domain.Verification{Token: token}, nil
	}

	sum := sha256.Sum256([]byte(token))
	amount := sess.amount

	return domain.Verification{
		Token:         token,
		Paid:          true,
		TransactionID: "txn_" + hex.EncodeToString(sum[:8]),
		Amount:        &amount,
		PayerID:       sess.payerID,
	}, nil
}

// Charges returns how many charge attempts reached the sandbox.
func (s *Sandbox) Charges() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Sandbox) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func normaliseCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}
