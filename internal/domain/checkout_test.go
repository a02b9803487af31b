package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestCartSnapshot_Validate(t *testing.T) {
	price := money("9.99", currency.USD)
	negative := money("-1.00", currency.USD)

	tests := []struct {
		name      string
		lines     []domain.SnapshotLine
		wantErrIs error
	}{
		{
			name:      "empty cart",
			wantErrIs: domain.ErrEmptyCart,
		},
		{
			name:  "ok",
			lines: []domain.SnapshotLine{{ProductID: uuid.New(), Quantity: 2, UnitPrice: &price, Stock: 2}},
		},
		{
			name:      "missing price",
			lines:     []domain.SnapshotLine{{ProductID: uuid.New(), Quantity: 1, Stock: 10}},
			wantErrIs: domain.ErrValidation,
		},
		{
			name:      "negative price",
			lines:     []domain.SnapshotLine{{ProductID: uuid.New(), Quantity: 1, UnitPrice: &negative, Stock: 10}},
			wantErrIs: domain.ErrValidation,
		},
		{
			name:      "not enough stock",
			lines:     []domain.SnapshotLine{{ProductID: uuid.New(), Quantity: 3, UnitPrice: &price, Stock: 2}},
			wantErrIs: domain.ErrOutOfStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.CartSnapshot{OwnerID: "owner", Lines: tt.lines}.Validate()
			if tt.wantErrIs != nil {
				require.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCartSnapshot_TotalAndItems(t *testing.T) {
	apple, pear := money("9.99", currency.USD), money("5.00", currency.USD)
	snapshot := domain.CartSnapshot{Lines: []domain.SnapshotLine{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: &apple, Stock: 10},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: &pear, Stock: 10},
	}}

	total, err := snapshot.Total()
	require.NoError(t, err)
	assert.Equal(t, "24.98 USD", total.String())

	items := snapshot.OrderItems()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, apple.Equal(items[0].UnitPrice))
}

func TestCartSnapshot_Fingerprint(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	price, cheaper := money("3.00", currency.USD), money("2.00", currency.USD)

	base := domain.CartSnapshot{Lines: []domain.SnapshotLine{
		{ProductID: a, Quantity: 1, UnitPrice: &price},
		{ProductID: b, Quantity: 2, UnitPrice: &price},
	}}
	reordered := domain.CartSnapshot{Lines: []domain.SnapshotLine{base.Lines[1], base.Lines[0]}}
	assert.Equal(t, base.Fingerprint(), reordered.Fingerprint())

	requantified := domain.CartSnapshot{Lines: []domain.SnapshotLine{
		{ProductID: a, Quantity: 1, UnitPrice: &price},
		{ProductID: b, Quantity: 3, UnitPrice: &price},
	}}
	assert.NotEqual(t, base.Fingerprint(), requantified.Fingerprint())

	repriced := domain.CartSnapshot{Lines: []domain.SnapshotLine{
		{ProductID: a, Quantity: 1, UnitPrice: &cheaper},
		{ProductID: b, Quantity: 2, UnitPrice: &price},
	}}
	assert.NotEqual(t, base.Fingerprint(), repriced.Fingerprint())
}

func TestIdempotencyKey(t *testing.T) {
	key := domain.IdempotencyKey("alice", "token-1")

	assert.Len(t, key, 64)
	assert.Equal(t, key, domain.IdempotencyKey("alice", "token-1"))
	assert.NotEqual(t, key, domain.IdempotencyKey("bob", "token-1"))
	assert.NotEqual(t, key, domain.IdempotencyKey("alice", "token-2"))
	// owner and token are not ambiguous when concatenated
	assert.NotEqual(t, domain.IdempotencyKey("ab", "c"), domain.IdempotencyKey("a", "bc"))
}

func TestConfirmationKey(t *testing.T) {
	key := domain.ConfirmationKey("cs_1")

	assert.True(t, strings.HasPrefix(key, "confirm:"))
	assert.Equal(t, key, domain.ConfirmationKey("cs_1"))
	assert.NotEqual(t, key, domain.ConfirmationKey("cs_2"))
	assert.NotEqual(t, key, domain.IdempotencyKey("confirm", "cs_1"))
}

func TestNewIdempotencyToken(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	lines := []domain.LineInput{{ProductID: a, Quantity: 1}, {ProductID: b, Quantity: 2}}
	reversed := []domain.LineInput{lines[1], lines[0]}

	assert.Equal(t, domain.NewIdempotencyToken(lines, "n1"), domain.NewIdempotencyToken(reversed, "n1"))
	assert.NotEqual(t, domain.NewIdempotencyToken(lines, "n1"), domain.NewIdempotencyToken(lines, "n2"))
}
