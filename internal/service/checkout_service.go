package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/metrics"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/nikolayk812/cart-checkout/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/currency"
)

var errCheckoutInFlight = errors.New("checkout in progress")

type CheckoutConfig struct {
	// MaxTxRetries bounds re-runs of the commit transaction after a serialization failure.
	MaxTxRetries uint64
	// InFlightWait is how long a duplicate request waits for the one holding the key.
	InFlightWait time.Duration
	// ClaimStaleAfter lets a processing claim older than this be taken over.
	ClaimStaleAfter time.Duration
	// CommitTimeout bounds persisting a successful charge once the caller has gone away.
	CommitTimeout time.Duration
	// Currency, when set, is the only currency the store charges in.
	Currency currency.Unit
}

type CheckoutService struct {
	checkouts       port.CheckoutRepository
	orders          port.OrderRepository
	reconciliations port.ReconciliationRepository
	gateway         port.PaymentGateway

	cfg     CheckoutConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewCheckoutService(
	checkouts port.CheckoutRepository,
	orders port.OrderRepository,
	reconciliations port.ReconciliationRepository,
	gateway port.PaymentGateway,
	cfg CheckoutConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
) *CheckoutService {
	if cfg.CommitTimeout <= 0 {
		cfg.CommitTimeout = 30 * time.Second
	}

	return &CheckoutService{
		checkouts:       checkouts,
		orders:          orders,
		reconciliations: reconciliations,
		gateway:         gateway,
		cfg:             cfg,
		metrics:         m,
		logger:          logger,
		now:             time.Now,
	}
}

// Checkout charges the owner's cart once per token and turns it into a paid order.
// Retrying with the same token returns the order recorded by the first successful attempt.
func (s *CheckoutService) Checkout(ctx context.Context, ownerID string, credential domain.PaymentCredential, token string) (_ domain.CheckoutResult, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "CheckoutService.Checkout")
	defer span.End()

	replayed := false
	defer func() {
		s.metrics.CheckoutOutcome(err, replayed)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(domain.KindOf(err)))
		}
	}()

	if ownerID == "" {
		return domain.CheckoutResult{}, fmt.Errorf("ownerID is empty: %w", domain.ErrUnauthorized)
	}
	if token == "" {
		return domain.CheckoutResult{}, fmt.Errorf("idempotency token is empty: %w", domain.ErrValidation)
	}
	if err := s.gateway.ValidateCredential(credential); err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("gateway.ValidateCredential: %w", err)
	}

	key := domain.IdempotencyKey(ownerID, token)
	span.SetAttributes(attribute.String("checkout.key", key))

	req, err := s.claim(ctx, ownerID, key)
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("s.claim: %w", err)
	}

	switch req.Status {
	case domain.CheckoutStatusFulfilled:
		replayed = true
		return s.replay(ctx, req)
	case domain.CheckoutStatusReconciliation:
		return domain.CheckoutResult{}, fmt.Errorf("checkout charged reference %s without an order: %w", req.PaymentReference, domain.ErrReconciliationRequired)
	}

	return s.run(ctx, req, credential)
}

// claim takes the key or waits, bounded, for the request holding it to finish.
func (s *CheckoutService) claim(ctx context.Context, ownerID, key string) (domain.CheckoutRequest, error) {
	var result domain.CheckoutRequest

	op := func() error {
		req, claimed, err := s.checkouts.ClaimCheckout(ctx, ownerID, key, s.now().Add(-s.cfg.ClaimStaleAfter))
		if err != nil {
			// the holder released the key between our insert and read
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return backoff.Permanent(err)
		}

		if claimed {
			result = req
			return nil
		}

		switch req.Status {
		case domain.CheckoutStatusFulfilled, domain.CheckoutStatusReconciliation:
			result = req
			return nil
		default:
			return errCheckoutInFlight
		}
	}

	wait := s.cfg.InFlightWait
	if wait <= 0 {
		wait = -1
	}

	err := backoff.Retry(op, backoff.WithContext(newBackOff(wait), ctx))
	if errors.Is(err, errCheckoutInFlight) || errors.Is(err, domain.ErrNotFound) {
		return domain.CheckoutRequest{}, fmt.Errorf("%w: %w", errCheckoutInFlight, domain.ErrStorageConflict)
	}
	if err != nil {
		return domain.CheckoutRequest{}, err
	}

	return result, nil
}

func (s *CheckoutService) replay(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	order, err := s.orders.GetOrder(ctx, req.OrderID)
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("s.orders.GetOrder: %w", err)
	}

	s.logger.InfoContext(ctx, "checkout replayed",
		slog.String("owner_id", req.OwnerID),
		slog.String("order_id", order.ID.String()))

	return domain.CheckoutResult{Order: order, PaymentReference: req.PaymentReference}, nil
}

func (s *CheckoutService) run(ctx context.Context, req domain.CheckoutRequest, credential domain.PaymentCredential) (domain.CheckoutResult, error) {
	// a previous attempt got as far as charging with an unknown outcome
	resumed := req.CartFingerprint != ""

	snapshot, err := retryConflicts(ctx, s.cfg.MaxTxRetries, func() (domain.CartSnapshot, error) {
		return s.checkouts.SnapshotCart(ctx, req.OwnerID)
	})
	if err != nil {
		return domain.CheckoutResult{}, s.abandon(ctx, req, resumed, fmt.Errorf("s.checkouts.SnapshotCart: %w", err))
	}

	fingerprint := snapshot.Fingerprint()
	if resumed && fingerprint != req.CartFingerprint {
		return domain.CheckoutResult{}, s.abandon(ctx, req, resumed,
			fmt.Errorf("cart changed since an unconfirmed charge of %s: %w", req.Amount, domain.ErrPaymentAmbiguous))
	}

	if err := snapshot.Validate(); err != nil {
		return domain.CheckoutResult{}, s.abandon(ctx, req, resumed, fmt.Errorf("snapshot.Validate: %w", err))
	}

	total, err := snapshot.Total()
	if err != nil {
		return domain.CheckoutResult{}, s.abandon(ctx, req, resumed, fmt.Errorf("snapshot.Total: %w", err))
	}
	if err := checkCurrency(s.cfg.Currency, total); err != nil {
		return domain.CheckoutResult{}, s.abandon(ctx, req, resumed, err)
	}

	req.Amount = &total
	req.CartFingerprint = fingerprint
	if err := s.checkouts.MarkCheckout(ctx, req); err != nil {
		return domain.CheckoutResult{}, s.abandon(ctx, req, resumed, fmt.Errorf("s.checkouts.MarkCheckout: %w", err))
	}

	charge, err := s.charge(ctx, req, credential)
	if err != nil {
		req.Status = domain.CheckoutStatusAmbiguous
		if markErr := s.checkouts.MarkCheckout(context.WithoutCancel(ctx), req); markErr != nil {
			s.logger.ErrorContext(ctx, "failed to mark checkout ambiguous",
				slog.String("owner_id", req.OwnerID),
				slog.String("idempotency_key", req.IdempotencyKey),
				slog.String("amount", total.String()),
				slog.Any("error", markErr))
		}
		return domain.CheckoutResult{}, fmt.Errorf("s.charge: %w", err)
	}

	if !charge.Succeeded {
		s.release(ctx, req)
		return domain.CheckoutResult{}, fmt.Errorf("charge declined: %s: %w", charge.Message, domain.ErrPaymentFailed)
	}

	req.PaymentReference = charge.TransactionID

	// the money is taken, persist even if the caller is gone
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.CommitTimeout)
	defer cancel()

	order, err := s.commit(commitCtx, req, snapshot, total)
	if err != nil {
		return domain.CheckoutResult{}, s.reconcile(commitCtx, req, err)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("owner_id", order.OwnerID),
		slog.String("order_id", order.ID.String()),
		slog.String("total", order.Total.String()),
		slog.String("payment_reference", charge.TransactionID))

	return domain.CheckoutResult{Order: order, PaymentReference: charge.TransactionID}, nil
}

func (s *CheckoutService) charge(ctx context.Context, req domain.CheckoutRequest, credential domain.PaymentCredential) (domain.ChargeResult, error) {
	started := time.Now()
	defer s.metrics.ObserveGateway("charge", started)

	result, err := s.gateway.Charge(ctx, domain.ChargeRequest{
		Amount:     *req.Amount,
		Credential: credential,
		Reference:  req.IdempotencyKey,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrPaymentAmbiguous) {
			err = fmt.Errorf("%w: %w", domain.ErrPaymentAmbiguous, err)
		}

		s.logger.WarnContext(ctx, "charge outcome unknown",
			slog.String("owner_id", req.OwnerID),
			slog.String("idempotency_key", req.IdempotencyKey),
			slog.String("amount", req.Amount.String()),
			slog.Any("credential", credential),
			slog.Any("error", err))
		return domain.ChargeResult{}, err
	}

	return result, nil
}

func (s *CheckoutService) commit(ctx context.Context, req domain.CheckoutRequest, snapshot domain.CartSnapshot, total domain.Money) (domain.Order, error) {
	order := domain.NewOrder{
		OwnerID:          req.OwnerID,
		Status:           domain.OrderStatusPaid,
		Total:            total,
		PaymentReference: req.PaymentReference,
		IdempotencyKey:   req.IdempotencyKey,
		Items:            snapshot.OrderItems(),
	}

	return retryConflicts(ctx, s.cfg.MaxTxRetries, func() (domain.Order, error) {
		return s.checkouts.CommitCheckout(ctx, req, snapshot, order)
	})
}

// reconcile records a charge that has no committed order and blocks the key from being charged again.
func (s *CheckoutService) reconcile(ctx context.Context, req domain.CheckoutRequest, cause error) error {
	reason := domain.ReasonOrderPersistenceFailed
	switch {
	case errors.Is(cause, domain.ErrOutOfStock):
		reason = domain.ReasonOutOfStockAfterCharge
	case errors.Is(cause, domain.ErrCartChanged):
		reason = domain.ReasonCartChangedAfterCharge
	}

	_, recordErr := s.reconciliations.RecordReconciliation(ctx, domain.Reconciliation{
		OwnerID:          req.OwnerID,
		IdempotencyKey:   req.IdempotencyKey,
		PaymentReference: req.PaymentReference,
		Amount:           *req.Amount,
		Reason:           reason,
		Detail:           cause.Error(),
	})

	req.Status = domain.CheckoutStatusReconciliation
	markErr := s.checkouts.MarkCheckout(ctx, req)

	s.metrics.Reconciliation(reason)
	s.logger.ErrorContext(ctx, "charge succeeded without a committed order",
		slog.String("owner_id", req.OwnerID),
		slog.String("idempotency_key", req.IdempotencyKey),
		slog.String("payment_reference", req.PaymentReference),
		slog.String("amount", req.Amount.String()),
		slog.String("reason", string(reason)),
		slog.Any("cause", cause),
		slog.Any("record_error", recordErr),
		slog.Any("mark_error", markErr))

	return fmt.Errorf("order for charge %s not recorded: %w: %w", req.PaymentReference, domain.ErrReconciliationRequired, cause)
}

// abandon gives the key back when nothing was charged. A resumed request may
// have been charged before, so it returns to ambiguous instead.
func (s *CheckoutService) abandon(ctx context.Context, req domain.CheckoutRequest, resumed bool, cause error) error {
	if !resumed {
		s.release(ctx, req)
		return cause
	}

	req.Status = domain.CheckoutStatusAmbiguous
	if err := s.checkouts.MarkCheckout(context.WithoutCancel(ctx), req); err != nil {
		s.logger.ErrorContext(ctx, "failed to restore ambiguous checkout",
			slog.String("owner_id", req.OwnerID),
			slog.String("idempotency_key", req.IdempotencyKey),
			slog.Any("error", err))
	}

	if errors.Is(cause, domain.ErrPaymentAmbiguous) {
		return cause
	}
	return fmt.Errorf("%w: %w", domain.ErrPaymentAmbiguous, cause)
}

func (s *CheckoutService) release(ctx context.Context, req domain.CheckoutRequest) {
	if err := s.checkouts.ReleaseCheckout(context.WithoutCancel(ctx), req.IdempotencyKey); err != nil {
		s.logger.WarnContext(ctx, "failed to release checkout",
			slog.String("owner_id", req.OwnerID),
			slog.String("idempotency_key", req.IdempotencyKey),
			slog.Any("error", err))
	}
}
