package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/metrics"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/nikolayk812/cart-checkout/internal/telemetry"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/currency"
)

type ConfirmationConfig struct {
	MaxTxRetries uint64
	// ClearAttempts bounds retries of the background cart clear.
	ClearAttempts uint64
	ClearTimeout  time.Duration
	Currency      currency.Unit
}

// ConfirmationService records orders paid through the provider's hosted flow.
type ConfirmationService struct {
	orders          port.OrderRepository
	products        port.ProductRepository
	carts           port.CartRepository
	reconciliations port.ReconciliationRepository
	verifier        port.PaymentVerifier

	cfg     ConfirmationConfig
	metrics *metrics.Metrics
	logger  *slog.Logger

	clears sync.WaitGroup
}

func NewConfirmationService(
	orders port.OrderRepository,
	products port.ProductRepository,
	carts port.CartRepository,
	reconciliations port.ReconciliationRepository,
	verifier port.PaymentVerifier,
	cfg ConfirmationConfig,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ConfirmationService {
	if cfg.ClearTimeout <= 0 {
		cfg.ClearTimeout = 30 * time.Second
	}

	return &ConfirmationService{
		orders:          orders,
		products:        products,
		carts:           carts,
		reconciliations: reconciliations,
		verifier:        verifier,
		cfg:             cfg,
		metrics:         m,
		logger:          logger,
	}
}

// Confirm verifies the token with the provider and records a completed order priced
// from the catalog. A token confirmed before returns the existing order with Replayed set.
func (s *ConfirmationService) Confirm(ctx context.Context, ownerID string, items []domain.LineInput, token string) (_ domain.ConfirmationResult, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ConfirmationService.Confirm")
	defer span.End()

	replayed := false
	defer func() {
		s.metrics.ConfirmationOutcome(err, replayed)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(domain.KindOf(err)))
		}
	}()

	if ownerID == "" {
		return domain.ConfirmationResult{}, fmt.Errorf("ownerID is empty: %w", domain.ErrUnauthorized)
	}
	if token == "" {
		return domain.ConfirmationResult{}, fmt.Errorf("confirmation token is empty: %w", domain.ErrValidation)
	}
	if len(items) == 0 {
		return domain.ConfirmationResult{}, fmt.Errorf("items are empty: %w", domain.ErrValidation)
	}

	folded, err := domain.FoldLines(items)
	if err != nil {
		return domain.ConfirmationResult{}, fmt.Errorf("domain.FoldLines: %w", err)
	}

	verification, err := s.verify(ctx, token)
	if err != nil {
		return domain.ConfirmationResult{}, fmt.Errorf("s.verify: %w", err)
	}
	if !verification.Paid {
		return domain.ConfirmationResult{}, fmt.Errorf("token is not paid: %w", domain.ErrPaymentFailed)
	}

	order, err := s.price(ctx, ownerID, folded)
	if err != nil {
		return domain.ConfirmationResult{}, fmt.Errorf("s.price: %w", err)
	}
	if err := matchPayment(verification, ownerID, order.Total); err != nil {
		s.logger.WarnContext(ctx, "confirmation does not match the payment",
			slog.String("owner_id", ownerID),
			slog.String("payment_reference", verification.TransactionID),
			slog.String("total", order.Total.String()),
			slog.Any("error", err))
		return domain.ConfirmationResult{}, fmt.Errorf("matchPayment: %w", err)
	}
	order.Status = domain.OrderStatusCompleted
	order.PaymentReference = verification.TransactionID
	order.IdempotencyKey = domain.ConfirmationKey(token)

	// the provider has the money, persist even if the caller is gone
	persistCtx := context.WithoutCancel(ctx)

	type created struct {
		order    domain.Order
		replayed bool
	}
	result, err := retryConflicts(persistCtx, s.cfg.MaxTxRetries, func() (created, error) {
		o, r, err := s.orders.CreateOrder(persistCtx, order)
		return created{order: o, replayed: r}, err
	})
	// a payment already recorded for another order is accounted for, nothing to reconcile
	if errors.Is(err, domain.ErrPaymentFailed) {
		return domain.ConfirmationResult{}, fmt.Errorf("s.orders.CreateOrder: %w", err)
	}
	if err != nil {
		return domain.ConfirmationResult{}, s.reconcile(persistCtx, order, err)
	}

	replayed = result.replayed
	if !replayed {
		s.clearCart(ctx, ownerID)
	}

	s.logger.InfoContext(ctx, "payment confirmed",
		slog.String("owner_id", ownerID),
		slog.String("order_id", result.order.ID.String()),
		slog.String("total", result.order.Total.String()),
		slog.Bool("replayed", replayed))

	return domain.ConfirmationResult{OrderID: result.order.ID, Replayed: replayed}, nil
}

// Close waits for background cart clears to finish.
func (s *ConfirmationService) Close() {
	s.clears.Wait()
}

func (s *ConfirmationService) verify(ctx context.Context, token string) (domain.Verification, error) {
	started := time.Now()
	defer s.metrics.ObserveGateway("verify", started)

	verification, err := s.verifier.Verify(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrPaymentAmbiguous) {
			return domain.Verification{}, err
		}
		return domain.Verification{}, fmt.Errorf("%w: %w", domain.ErrPaymentAmbiguous, err)
	}

	return verification, nil
}

// matchPayment accepts a verification only when the provider collected the order total from this owner.
func matchPayment(v domain.Verification, ownerID string, total domain.Money) error {
	if v.PayerID != "" && v.PayerID != ownerID {
		return fmt.Errorf("token was paid by another account: %w", domain.ErrPaymentFailed)
	}
	if v.Amount == nil {
		return fmt.Errorf("provider reported no paid amount: %w", domain.ErrPaymentFailed)
	}
	if !v.Amount.Equal(total) {
		return fmt.Errorf("paid %s, order totals %s: %w", v.Amount, total, domain.ErrPaymentFailed)
	}

	return nil
}

// price builds the order from catalog prices; client supplied prices are never trusted.
func (s *ConfirmationService) price(ctx context.Context, ownerID string, lines []domain.LineInput) (domain.NewOrder, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	products, err := s.products.GetProducts(ctx, ids)
	if err != nil {
		return domain.NewOrder{}, fmt.Errorf("s.products.GetProducts: %w", err)
	}

	byID := make(map[uuid.UUID]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.NewOrderItem, 0, len(lines))
	amounts := make([]domain.Money, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return domain.NewOrder{}, fmt.Errorf("product[%s]: %w", line.ProductID, domain.ErrNotFound)
		}
		if product.Price == nil {
			return domain.NewOrder{}, fmt.Errorf("product[%s] has no price: %w", line.ProductID, domain.ErrValidation)
		}

		items = append(items, domain.NewOrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: *product.Price,
		})
		amounts = append(amounts, product.Price.Mul(line.Quantity))
	}

	total, err := domain.Sum(amounts...)
	if err != nil {
		return domain.NewOrder{}, fmt.Errorf("domain.Sum: %w", err)
	}
	if err := checkCurrency(s.cfg.Currency, total); err != nil {
		return domain.NewOrder{}, err
	}

	return domain.NewOrder{
		OwnerID: ownerID,
		Total:   total,
		Items:   items,
	}, nil
}

func (s *ConfirmationService) reconcile(ctx context.Context, order domain.NewOrder, cause error) error {
	reason := domain.ReasonConfirmationPersistenceFailed
	if errors.Is(cause, domain.ErrOutOfStock) {
		reason = domain.ReasonOutOfStockAfterCharge
	}

	_, recordErr := s.reconciliations.RecordReconciliation(ctx, domain.Reconciliation{
		OwnerID:          order.OwnerID,
		IdempotencyKey:   order.IdempotencyKey,
		PaymentReference: order.PaymentReference,
		Amount:           order.Total,
		Reason:           reason,
		Detail:           cause.Error(),
	})

	s.metrics.Reconciliation(reason)
	s.logger.ErrorContext(ctx, "confirmed payment without a recorded order",
		slog.String("owner_id", order.OwnerID),
		slog.String("idempotency_key", order.IdempotencyKey),
		slog.String("payment_reference", order.PaymentReference),
		slog.String("amount", order.Total.String()),
		slog.String("reason", string(reason)),
		slog.Any("cause", cause),
		slog.Any("record_error", recordErr))

	return fmt.Errorf("order for payment %s not recorded: %w: %w", order.PaymentReference, domain.ErrReconciliationRequired, cause)
}

// clearCart empties the owner's cart in the background; failures are logged only.
func (s *ConfirmationService) clearCart(ctx context.Context, ownerID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ClearTimeout)

	s.clears.Add(1)
	go func() {
		defer s.clears.Done()
		defer cancel()

		attempts := 0
		op := func() error {
			attempts++
			_, err := s.carts.ClearCart(ctx, ownerID)
			return err
		}

		b := backoff.WithContext(backoff.WithMaxRetries(newBackOff(0), s.cfg.ClearAttempts), ctx)
		if err := backoff.Retry(op, b); err != nil {
			s.metrics.CartClears.WithLabelValues("failed").Inc()
			s.logger.WarnContext(ctx, "failed to clear cart after confirmation",
				slog.String("owner_id", ownerID),
				slog.Int("attempts", attempts),
				slog.Any("error", err))
			return
		}

		s.metrics.CartClears.WithLabelValues("cleared").Inc()
	}()
}
