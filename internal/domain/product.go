package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is owned by the catalog and is read-only here.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	// Price is nil when the catalog has no price for the product.
	Price *Money
	Stock int

	CreatedAt time.Time
}
