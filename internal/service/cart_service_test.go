package service_test

import (
	"testing"

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
)

func newCartService() (*service.CartService, *cartRepoMock, *metrics.Metrics) {
	carts := new(cartRepoMock)
	m := metrics.New(prometheus.NewRegistry())

	return service.NewCartService(carts, m, discardLogger()), carts, m
}

func TestCartService_Merge(t *testing.T) {
	svc, carts, m := newCartService()
	ownerID := gofakeit.UUID()
	a, b := uuid.New(), uuid.New()

	carts.On("MergeCart", mock.Anything, ownerID, []domain.LineInput{
		{ProductID: a, Quantity: 1},
		{ProductID: b, Quantity: 4},
	}).Return(domain.MergeResult{Inserted: 1, Kept: 1}, nil).Once()

	result, err := svc.Merge(t.Context(), ownerID, domain.AnonymousCart{
		{ProductID: a, Quantity: 1},
		{ProductID: a, Quantity: 9},
		{ProductID: b, Quantity: 4},
		{ProductID: uuid.New(), Quantity: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.MergeResult{Inserted: 1, Kept: 1, Skipped: 2}, result)
	assert.InDelta(t, 2, testutil.ToFloat64(m.MergedEntries.WithLabelValues("skipped")), 0)
	carts.AssertExpectations(t)
}

func TestCartService_Validation(t *testing.T) {
	svc, carts, _ := newCartService()
	ownerID := gofakeit.UUID()

	_, err := svc.Add(t.Context(), ownerID, uuid.New(), 0)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Add(t.Context(), ownerID, uuid.Nil, 1)
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Update(t.Context(), ownerID, uuid.New(), -1)
	require.ErrorIs(t, err, domain.ErrValidation)

	carts.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartService_Remove(t *testing.T) {
	svc, carts, _ := newCartService()
	ownerID := gofakeit.UUID()
	present, missing := uuid.New(), uuid.New()

	carts.On("DeleteItem", mock.Anything, ownerID, present).Return(true, nil).Once()
	carts.On("DeleteItem", mock.Anything, ownerID, missing).Return(false, nil).Once()

	require.NoError(t, svc.Remove(t.Context(), ownerID, present))
	require.ErrorIs(t, svc.Remove(t.Context(), ownerID, missing), domain.ErrNotFound)
	carts.AssertExpectations(t)
}

func TestCartService_Replace(t *testing.T) {
	svc, carts, _ := newCartService()
	ownerID := gofakeit.UUID()
	lines := []domain.LineInput{{ProductID: uuid.New(), Quantity: 2}}
	cart := domain.Cart{OwnerID: ownerID, Items: []domain.CartItem{{ProductID: lines[0].ProductID, Quantity: 2}}}

	carts.On("ReplaceCart", mock.Anything, ownerID, lines).Return(nil).Once()
	carts.On("GetCart", mock.Anything, ownerID).Return(cart, nil).Once()

	got, err := svc.Replace(t.Context(), ownerID, lines)
	require.NoError(t, err)
	assert.Equal(t, cart, got)
	carts.AssertExpectations(t)
}
