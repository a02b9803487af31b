package service_test

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_ListAllCapsLimit(t *testing.T) {
	orders := new(orderRepoMock)
	svc := service.NewOrderService(orders, new(reconciliationRepoMock), discardLogger())

	orders.On("ListOrders", mock.Anything, 500, 20).Return([]domain.Order{}, nil).Once()

	_, err := svc.ListAll(t.Context(), 10_000, 20)
	require.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestOrderService_Transition(t *testing.T) {
	orders := new(orderRepoMock)
	svc := service.NewOrderService(orders, new(reconciliationRepoMock), discardLogger())
	orderID := uuid.New()

	_, err := svc.Transition(t.Context(), orderID, domain.OrderStatus("shipped"))
	require.ErrorIs(t, err, domain.ErrValidation)

	orders.On("TransitionStatus", mock.Anything, orderID, domain.OrderStatusCompleted).
		Return(domain.Order{ID: orderID, Status: domain.OrderStatusCompleted}, nil).Once()

	order, err := svc.Transition(t.Context(), orderID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	orders.AssertExpectations(t)
}

func TestOrderService_Cancel(t *testing.T) {
	ownerID := gofakeit.UUID()

	t.Run("own order", func(t *testing.T) {
		orders := new(orderRepoMock)
		svc := service.NewOrderService(orders, new(reconciliationRepoMock), discardLogger())
		orderID := uuid.New()

		orders.On("GetOrderForOwner", mock.Anything, ownerID, orderID).
			Return(domain.Order{ID: orderID, OwnerID: ownerID, Status: domain.OrderStatusPaid}, nil).Once()
		orders.On("TransitionStatus", mock.Anything, orderID, domain.OrderStatusCancelled).
			Return(domain.Order{ID: orderID, Status: domain.OrderStatusCancelled}, nil).Once()

		order, err := svc.Cancel(t.Context(), ownerID, orderID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, order.Status)
		orders.AssertExpectations(t)
	})

	t.Run("someone else's order", func(t *testing.T) {
		orders := new(orderRepoMock)
		svc := service.NewOrderService(orders, new(reconciliationRepoMock), discardLogger())
		orderID := uuid.New()

		orders.On("GetOrderForOwner", mock.Anything, ownerID, orderID).
			Return(domain.Order{}, fmt.Errorf("q.GetOrderForOwner: %w", domain.ErrNotFound)).Once()

		_, err := svc.Cancel(t.Context(), ownerID, orderID)
		require.ErrorIs(t, err, domain.ErrNotFound)
		orders.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderService_Reconciliations(t *testing.T) {
	recs := new(reconciliationRepoMock)
	svc := service.NewOrderService(new(orderRepoMock), recs, discardLogger())
	want := []domain.Reconciliation{{ID: uuid.New(), Reason: domain.ReasonOrderPersistenceFailed}}

	recs.On("ListUnresolved", mock.Anything).Return(want, nil).Once()

	got, err := svc.Reconciliations(t.Context())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
