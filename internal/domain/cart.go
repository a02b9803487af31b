package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	OwnerID string
	Items   []CartItem
}

// CartItem is a cart line joined with the current product snapshot.
type CartItem struct {
	LineID      uuid.UUID
	ProductID   uuid.UUID
	Name        string
	Description string
	ImageURL    string
	Price       *Money
	Quantity    int

	CreatedAt time.Time
}

type CartLine struct {
	ID        uuid.UUID
	OwnerID   string
	ProductID uuid.UUID
	Quantity  int

	CreatedAt time.Time
}

// Total prices the cart at current catalog prices. Items without a price fail with ErrValidation.
func (c Cart) Total() (Money, error) {
	amounts := make([]Money, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Price == nil {
			return Money{}, fmt.Errorf("product[%s] has no price: %w", item.ProductID, ErrValidation)
		}
		amounts = append(amounts, item.Price.Mul(item.Quantity))
	}

	return Sum(amounts...)
}

// MaxQuantity bounds a single line, matching the cart_lines check constraint.
const MaxQuantity = 9999

func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity[%d] must be positive: %w", quantity, ErrValidation)
	}
	if quantity > MaxQuantity {
		return fmt.Errorf("quantity[%d] exceeds %d: %w", quantity, MaxQuantity, ErrValidation)
	}

	return nil
}

type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

func (l LineInput) Validate() error {
	if l.ProductID == uuid.Nil {
		return fmt.Errorf("productID is empty: %w", ErrValidation)
	}

	return ValidateQuantity(l.Quantity)
}

// FoldLines validates every line and sums quantities of repeated products,
// keeping first-seen order.
func FoldLines(lines []LineInput) ([]LineInput, error) {
	index := make(map[uuid.UUID]int, len(lines))
	folded := make([]LineInput, 0, len(lines))

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, err
		}

		if i, ok := index[line.ProductID]; ok {
			folded[i].Quantity += line.Quantity
			if err := ValidateQuantity(folded[i].Quantity); err != nil {
				return nil, fmt.Errorf("product[%s]: %w", line.ProductID, err)
			}
			continue
		}

		index[line.ProductID] = len(folded)
		folded = append(folded, line)
	}

	return folded, nil
}

// AnonymousCart is the client-local cart a user built before logging in.
// It is never authoritative once the owner is known and is consumed by merge only.
type AnonymousCart []LineInput

// Entries returns the mergeable lines and the number of invalid ones.
// A product repeated in the payload keeps its first entry.
func (a AnonymousCart) Entries() ([]LineInput, int) {
	seen := make(map[uuid.UUID]struct{}, len(a))
	entries := make([]LineInput, 0, len(a))
	skipped := 0

	for _, line := range a {
		if line.Validate() != nil {
			skipped++
			continue
		}
		if _, ok := seen[line.ProductID]; ok {
			skipped++
			continue
		}

		seen[line.ProductID] = struct{}{}
		entries = append(entries, line)
	}

	return entries, skipped
}

type MergeResult struct {
	// Inserted lines were absent on the server.
	Inserted int
	// Kept lines already existed; the server quantity won.
	Kept int
	// Skipped entries were malformed, repeated or referenced unknown products.
	Skipped int
}
