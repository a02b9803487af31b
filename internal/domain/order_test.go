package domain_test

import (
	"testing"

	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.OrderStatusPending, domain.OrderStatusPaid, true},
		{domain.OrderStatusPending, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPending, domain.OrderStatusCompleted, false},
		{domain.OrderStatusPaid, domain.OrderStatusCompleted, true},
		{domain.OrderStatusPaid, domain.OrderStatusCancelled, true},
		{domain.OrderStatusPaid, domain.OrderStatusPending, false},
		{domain.OrderStatusPaid, domain.OrderStatusPaid, false},
		{domain.OrderStatusCompleted, domain.OrderStatusCancelled, false},
		{domain.OrderStatusCancelled, domain.OrderStatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_Predecessors(t *testing.T) {
	assert.ElementsMatch(t, []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusPaid},
		domain.OrderStatusCancelled.Predecessors())
	assert.Equal(t, []domain.OrderStatus{domain.OrderStatusPaid}, domain.OrderStatusCompleted.Predecessors())
	assert.Empty(t, domain.OrderStatusPending.Predecessors())

	assert.True(t, domain.OrderStatusCompleted.IsTerminal())
	assert.False(t, domain.OrderStatusPaid.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := domain.ParseOrderStatus("paid")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, status)

	_, err = domain.ParseOrderStatus("shipped")
	require.ErrorIs(t, err, domain.ErrValidation)
}
