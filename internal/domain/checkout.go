package domain

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CartSnapshot is the priced content of a cart read under lock at checkout time.
type CartSnapshot struct {
	OwnerID string
	Lines   []SnapshotLine
}

type SnapshotLine struct {
	LineID    uuid.UUID
	ProductID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice *Money
	Stock     int
}

// Validate rejects carts that cannot be charged. A product without a price is
// rejected rather than priced with a placeholder.
func (s CartSnapshot) Validate() error {
	if len(s.Lines) == 0 {
		return ErrEmptyCart
	}

	for _, line := range s.Lines {
		if line.UnitPrice == nil {
			return fmt.Errorf("product[%s] has no price: %w", line.ProductID, ErrValidation)
		}
		if line.UnitPrice.Amount.IsNegative() {
			return fmt.Errorf("product[%s] has negative price: %w", line.ProductID, ErrValidation)
		}
		if line.Stock < line.Quantity {
			return fmt.Errorf("product[%s] has %d in stock, %d requested: %w", line.ProductID, line.Stock, line.Quantity, ErrOutOfStock)
		}
	}

	return nil
}

func (s CartSnapshot) Total() (Money, error) {
	amounts := make([]Money, 0, len(s.Lines))
	for _, line := range s.Lines {
		if line.UnitPrice == nil {
			return Money{}, fmt.Errorf("product[%s] has no price: %w", line.ProductID, ErrValidation)
		}
		amounts = append(amounts, line.UnitPrice.Mul(line.Quantity))
	}

	return Sum(amounts...)
}

// Fingerprint identifies the priced content of the cart independently of line order.
func (s CartSnapshot) Fingerprint() string {
	lines := slices.Clone(s.Lines)
	slices.SortFunc(lines, func(a, b SnapshotLine) int {
		return cmp.Compare(a.ProductID.String(), b.ProductID.String())
	})

	h := sha256.New()
	for _, line := range lines {
		price := "-"
		if line.UnitPrice != nil {
			price = line.UnitPrice.String()
		}
		fmt.Fprintf(h, "%s|%d|%s\n", line.ProductID, line.Quantity, price)
	}

	return hex.EncodeToString(h.Sum(nil))
}

func (s CartSnapshot) OrderItems() []NewOrderItem {
	items := make([]NewOrderItem, 0, len(s.Lines))
	for _, line := range s.Lines {
		items = append(items, NewOrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: *line.UnitPrice,
		})
	}

	return items
}

// IdempotencyKey scopes a client token to its owner.
func IdempotencyKey(ownerID, token string) string {
	sum := sha256.Sum256([]byte(ownerID + "\x00" + token))
	return hex.EncodeToString(sum[:])
}

// ConfirmationKey identifies the order paid by a hosted payment token. It ignores the
// owner, a provider payment pays for exactly one order. The prefix keeps it apart
// from every IdempotencyKey.
func ConfirmationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "confirm:" + hex.EncodeToString(sum[:])
}

// NewIdempotencyToken derives a checkout token from cart contents and a client nonce,
// so a retried submission of the same cart reuses the token.
func NewIdempotencyToken(lines []LineInput, nonce string) string {
	sorted := slices.Clone(lines)
	slices.SortFunc(sorted, func(a, b LineInput) int {
		return cmp.Compare(a.ProductID.String(), b.ProductID.String())
	})

	var b strings.Builder
	for _, line := range sorted {
		b.WriteString(line.ProductID.String())
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(line.Quantity))
		b.WriteByte(';')
	}
	b.WriteString(nonce)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

type CheckoutStatus string

const (
	CheckoutStatusProcessing     CheckoutStatus = "processing"
	CheckoutStatusAmbiguous      CheckoutStatus = "ambiguous"
	CheckoutStatusFulfilled      CheckoutStatus = "fulfilled"
	CheckoutStatusReconciliation CheckoutStatus = "reconciliation"
)

// CheckoutRequest records one idempotency key and how far its checkout got.
type CheckoutRequest struct {
	IdempotencyKey   string
	OwnerID          string
	Status           CheckoutStatus
	Amount           *Money
	CartFingerprint  string
	OrderID          uuid.UUID
	PaymentReference string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CheckoutResult struct {
	Order            Order
	PaymentReference string
}

type ReconciliationReason string

const (
	ReasonOrderPersistenceFailed        ReconciliationReason = "order_persistence_failed"
	ReasonOutOfStockAfterCharge         ReconciliationReason = "out_of_stock_after_charge"
	ReasonCartChangedAfterCharge        ReconciliationReason = "cart_changed_after_charge"
	ReasonConfirmationPersistenceFailed ReconciliationReason = "confirmation_persistence_failed"
)

// Reconciliation is an external charge with no matching committed order.
type Reconciliation struct {
	ID               uuid.UUID
	OwnerID          string
	IdempotencyKey   string
	PaymentReference string
	Amount           Money
	Reason           ReconciliationReason
	Detail           string

	CreatedAt  time.Time
	ResolvedAt *time.Time
}
