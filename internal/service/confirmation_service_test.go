package service_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/metrics"
	"github.com/nikolayk812/cart-checkout/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type confirmationFixture struct {
	orders   *orderRepoMock
	products *productRepoMock
	carts    *cartRepoMock
	recs     *reconciliationRepoMock
	verifier *verifierMock
	metrics  *metrics.Metrics
	service  *service.ConfirmationService
}

func newConfirmationFixture() *confirmationFixture {
	f := &confirmationFixture{
		orders:   new(orderRepoMock),
		products: new(productRepoMock),
		carts:    new(cartRepoMock),
		recs:     new(reconciliationRepoMock),
		verifier: new(verifierMock),
		metrics:  metrics.New(prometheus.NewRegistry()),
	}

	f.service = service.NewConfirmationService(f.orders, f.products, f.carts, f.recs, f.verifier, service.ConfirmationConfig{
		MaxTxRetries:  2,
		ClearAttempts: 2,
		ClearTimeout:  time.Second,
	}, f.metrics, discardLogger())

	return f
}

func (f *confirmationFixture) assertExpectations(t *testing.T) {
	t.Helper()

	f.orders.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.recs.AssertExpectations(t)
	f.verifier.AssertExpectations(t)
}

func catalog(prices ...string) []domain.Product {
	products := make([]domain.Product, 0, len(prices))
	for _, price := range prices {
		p := usd(price)
		products = append(products, domain.Product{ID: uuid.New(), Name: gofakeit.ProductName(), Price: &p, Stock: 10})
	}
	return products
}

// settled is what the provider reports for a token ownerID paid amount with.
func settled(token, txnID, ownerID, amount string) domain.Verification {
	paid := usd(amount)
	return domain.Verification{Token: token, Paid: true, TransactionID: txnID, Amount: &paid, PayerID: ownerID}
}

func TestConfirm(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx := t.Context()
	ownerID := gofakeit.UUID()
	token := "cs_" + gofakeit.LetterN(12)
	products := catalog("9.99", "5.00")
	orderID := uuid.New()

	f := newConfirmationFixture()

	f.verifier.On("Verify", mock.Anything, token).
		Return(settled(token, "txn_abc", ownerID, "24.98"), nil).Once()
	f.products.On("GetProducts", mock.Anything, []uuid.UUID{products[0].ID, products[1].ID}).
		Return(products, nil).Once()
	f.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(order domain.NewOrder) bool {
		return order.OwnerID == ownerID &&
			order.Status == domain.OrderStatusCompleted &&
			order.PaymentReference == "txn_abc" &&
			order.IdempotencyKey == domain.ConfirmationKey(token) &&
			order.Total.String() == "24.98 USD" &&
			len(order.Items) == 2 &&
			order.Items[0].Quantity == 2
	})).Return(domain.Order{ID: orderID, Total: usd("24.98")}, false, nil).Once()
	f.carts.On("ClearCart", mock.Anything, ownerID).Return(int64(2), nil).Once()

	// client prices are never sent, the repeated line is folded
	result, err := f.service.Confirm(ctx, ownerID, []domain.LineInput{
		{ProductID: products[0].ID, Quantity: 1},
		{ProductID: products[1].ID, Quantity: 1},
		{ProductID: products[0].ID, Quantity: 1},
	}, token)
	require.NoError(t, err)
	assert.Equal(t, orderID, result.OrderID)
	assert.False(t, result.Replayed)

	f.service.Close()

	f.assertExpectations(t)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.CartClears.WithLabelValues("cleared")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Confirmations.WithLabelValues(metrics.OutcomeOK)), 0)
}

func TestConfirm_Replayed(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ownerID := gofakeit.UUID()
	token := "cs_" + gofakeit.LetterN(12)
	products := catalog("3.00")
	orderID := uuid.New()

	f := newConfirmationFixture()

	f.verifier.On("Verify", mock.Anything, token).
		Return(settled(token, "txn_abc", ownerID, "3.00"), nil).Once()
	f.products.On("GetProducts", mock.Anything, mock.Anything).Return(products, nil).Once()
	f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(domain.Order{ID: orderID}, true, nil).Once()

	result, err := f.service.Confirm(t.Context(), ownerID, []domain.LineInput{{ProductID: products[0].ID, Quantity: 1}}, token)
	require.NoError(t, err)
	assert.Equal(t, orderID, result.OrderID)
	assert.True(t, result.Replayed)

	f.service.Close()

	f.assertExpectations(t)
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
}

func TestConfirm_Rejected(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ownerID := gofakeit.UUID()
	token := "cs_" + gofakeit.LetterN(12)
	products := catalog("3.00")
	unpriced := domain.Product{ID: uuid.New(), Name: gofakeit.ProductName()}
	line := []domain.LineInput{{ProductID: products[0].ID, Quantity: 1}}

	verified := func(v domain.Verification) func(f *confirmationFixture) {
		return func(f *confirmationFixture) {
			f.verifier.On("Verify", mock.Anything, token).Return(v, nil).Once()
			f.products.On("GetProducts", mock.Anything, mock.Anything).Return(products, nil).Once()
		}
	}
	paid := func(f *confirmationFixture) {
		f.verifier.On("Verify", mock.Anything, token).Return(settled(token, "txn_1", ownerID, "3.00"), nil).Once()
	}
	unsettled := settled(token, "txn_1", "", "3.00")
	unsettled.Amount = nil

	tests := []struct {
		name      string
		ownerID   string
		items     []domain.LineInput
		token     string
		setup     func(f *confirmationFixture)
		wantErrIs error
	}{
		{name: "no owner", items: line, token: token, wantErrIs: domain.ErrUnauthorized},
		{name: "no token", ownerID: ownerID, items: line, wantErrIs: domain.ErrValidation},
		{name: "no items", ownerID: ownerID, token: token, wantErrIs: domain.ErrValidation},
		{
			name:      "zero quantity",
			ownerID:   ownerID,
			items:     []domain.LineInput{{ProductID: products[0].ID}},
			token:     token,
			wantErrIs: domain.ErrValidation,
		},
		{
			name:    "token not paid",
			ownerID: ownerID,
			items:   line,
			token:   token,
			setup: func(f *confirmationFixture) {
				f.verifier.On("Verify", mock.Anything, token).Return(domain.Verification{Token: token}, nil).Once()
			},
			wantErrIs: domain.ErrPaymentFailed,
		},
		{
			name:    "provider unreachable",
			ownerID: ownerID,
			items:   line,
			token:   token,
			setup: func(f *confirmationFixture) {
				f.verifier.On("Verify", mock.Anything, token).Return(domain.Verification{}, errors.New("dial tcp: i/o timeout")).Once()
			},
			wantErrIs: domain.ErrPaymentAmbiguous,
		},
		{
			name:    "unknown product",
			ownerID: ownerID,
			items:   []domain.LineInput{{ProductID: uuid.New(), Quantity: 1}},
			token:   token,
			setup: func(f *confirmationFixture) {
				paid(f)
				f.products.On("GetProducts", mock.Anything, mock.Anything).Return([]domain.Product{}, nil).Once()
			},
			wantErrIs: domain.ErrNotFound,
		},
		{
			name:    "unpriced product",
			ownerID: ownerID,
			items:   []domain.LineInput{{ProductID: unpriced.ID, Quantity: 1}},
			token:   token,
			setup: func(f *confirmationFixture) {
				paid(f)
				f.products.On("GetProducts", mock.Anything, mock.Anything).Return([]domain.Product{unpriced}, nil).Once()
			},
			wantErrIs: domain.ErrValidation,
		},
		{
			name:      "paid amount differs from total",
			ownerID:   ownerID,
			items:     line,
			token:     token,
			setup:     verified(settled(token, "txn_1", ownerID, "0.01")),
			wantErrIs: domain.ErrPaymentFailed,
		},
		{
			name:      "paid by another account",
			ownerID:   ownerID,
			items:     line,
			token:     token,
			setup:     verified(settled(token, "txn_1", gofakeit.UUID(), "3.00")),
			wantErrIs: domain.ErrPaymentFailed,
		},
		{
			name:      "provider reports no amount",
			ownerID:   ownerID,
			items:     line,
			token:     token,
			setup:     verified(unsettled),
			wantErrIs: domain.ErrPaymentFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConfirmationFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.service.Confirm(t.Context(), tt.ownerID, tt.items, tt.token)
			require.ErrorIs(t, err, tt.wantErrIs)

			f.service.Close()
			f.assertExpectations(t)
			f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			f.recs.AssertNotCalled(t, "RecordReconciliation", mock.Anything, mock.Anything)
		})
	}
}

func TestConfirm_PersistenceFailureIsReconciled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ownerID := gofakeit.UUID()
	token := "cs_" + gofakeit.LetterN(12)
	products := catalog("8.00")

	tests := []struct {
		name       string
		cause      error
		wantReason domain.ReconciliationReason
		wantCalls  int
	}{
		{name: "out of stock", cause: domain.ErrOutOfStock, wantReason: domain.ReasonOutOfStockAfterCharge, wantCalls: 1},
		{name: "storage keeps conflicting", cause: domain.ErrStorageConflict, wantReason: domain.ReasonConfirmationPersistenceFailed, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConfirmationFixture()

			f.verifier.On("Verify", mock.Anything, token).Return(settled(token, "txn_9", ownerID, "8.00"), nil).Once()
			f.products.On("GetProducts", mock.Anything, mock.Anything).Return(products, nil).Once()
			f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(domain.Order{}, false, tt.cause)
			f.recs.On("RecordReconciliation", mock.Anything, mock.MatchedBy(func(rec domain.Reconciliation) bool {
				return rec.Reason == tt.wantReason &&
					rec.PaymentReference == "txn_9" &&
					rec.Amount.String() == "8.00 USD"
			})).Return(domain.Reconciliation{ID: uuid.New()}, nil).Once()

			_, err := f.service.Confirm(t.Context(), ownerID, []domain.LineInput{{ProductID: products[0].ID, Quantity: 1}}, token)
			require.ErrorIs(t, err, domain.ErrReconciliationRequired)
			require.ErrorIs(t, err, tt.cause)

			f.service.Close()
			f.assertExpectations(t)
			f.orders.AssertNumberOfCalls(t, "CreateOrder", tt.wantCalls)
			f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
			assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.Reconcile.WithLabelValues(string(tt.wantReason))), 0)
		})
	}
}

func TestConfirm_CartClearFailureIsNotFatal(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ownerID := gofakeit.UUID()
	token := "cs_" + gofakeit.LetterN(12)
	products := catalog("1.00")

	f := newConfirmationFixture()

	f.verifier.On("Verify", mock.Anything, token).Return(settled(token, "txn_2", ownerID, "1.00"), nil).Once()
	f.products.On("GetProducts", mock.Anything, mock.Anything).Return(products, nil).Once()
	f.orders.On("CreateOrder", mock.Anything, mock.Anything).Return(domain.Order{ID: uuid.New()}, false, nil).Once()
	f.carts.On("ClearCart", mock.Anything, ownerID).Return(int64(0), errors.New("connection refused"))

	_, err := f.service.Confirm(t.Context(), ownerID, []domain.LineInput{{ProductID: products[0].ID, Quantity: 1}}, token)
	require.NoError(t, err)

	f.service.Close()

	// first attempt plus ClearAttempts retries
	f.carts.AssertNumberOfCalls(t, "ClearCart", 3)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.CartClears.WithLabelValues("failed")), 0)
}

func TestConfirm_PaymentOfAnotherOrderIsNotReconciled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ownerID := gofakeit.UUID()
	token := "cs_" + gofakeit.LetterN(12)
	products := catalog("2.50")

	f := newConfirmationFixture()

	f.verifier.On("Verify", mock.Anything, token).Return(settled(token, "txn_3", ownerID, "2.50"), nil).Once()
	f.products.On("GetProducts", mock.Anything, mock.Anything).Return(products, nil).Once()
	f.orders.On("CreateOrder", mock.Anything, mock.Anything).
		Return(domain.Order{}, false, fmt.Errorf("payment[txn_3] is recorded for another owner: %w", domain.ErrPaymentFailed)).Once()

	_, err := f.service.Confirm(t.Context(), ownerID, []domain.LineInput{{ProductID: products[0].ID, Quantity: 1}}, token)
	require.ErrorIs(t, err, domain.ErrPaymentFailed)
	assert.NotErrorIs(t, err, domain.ErrReconciliationRequired)

	f.service.Close()
	f.assertExpectations(t)
	f.recs.AssertNotCalled(t, "RecordReconciliation", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "ClearCart", mock.Anything, mock.Anything)
}
