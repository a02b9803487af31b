package port

import (
	"context"
	"time"

	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type CheckoutRepository interface {
	// ClaimCheckout inserts a processing request for key unless one exists. Ambiguous
	// requests and processing ones last touched before staleBefore are taken over.
	// An owner has at most one processing request across keys.
	// claimed is false when another request owns the key or the owner; that row is returned then.
	ClaimCheckout(ctx context.Context, ownerID, key string, staleBefore time.Time) (_ domain.CheckoutRequest, claimed bool, _ error)
	GetCheckout(ctx context.Context, key string) (domain.CheckoutRequest, error)
	// ReleaseCheckout forgets a processing request that changed nothing.
	ReleaseCheckout(ctx context.Context, key string) error
	MarkCheckout(ctx context.Context, req domain.CheckoutRequest) error

	SnapshotCart(ctx context.Context, ownerID string) (domain.CartSnapshot, error)
	// CommitCheckout decrements stock, records the order, removes the snapshot's lines
	// from the cart and marks the request fulfilled, all in one transaction.
	CommitCheckout(ctx context.Context, req domain.CheckoutRequest, snapshot domain.CartSnapshot, order domain.NewOrder) (domain.Order, error)
}

type ReconciliationRepository interface {
	RecordReconciliation(ctx context.Context, rec domain.Reconciliation) (domain.Reconciliation, error)
	ListUnresolved(ctx context.Context) ([]domain.Reconciliation, error)
}
