package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
	"github.com/shopspring/decimal"
)

const checkoutOwnerProcessingConstraint = "checkout_requests_owner_processing_key"

type checkoutRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCheckout(pool *pgxpool.Pool) port.CheckoutRepository {
	return &checkoutRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func (r *checkoutRepository) ClaimCheckout(ctx context.Context, ownerID, key string, staleBefore time.Time) (domain.CheckoutRequest, bool, error) {
	if ownerID == "" {
		return domain.CheckoutRequest{}, false, errOwnerIDEmpty
	}
	if key == "" {
		return domain.CheckoutRequest{}, false, fmt.Errorf("idempotency key is empty: %w", domain.ErrValidation)
	}

	row, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (db.CheckoutRequest, error) {
		// a crashed request of another key may have charged, it must be resumed, not replaced
		if _, err := q.ExpireStaleCheckoutRequests(ctx, db.ExpireStaleCheckoutRequestsParams{
			OwnerID:        ownerID,
			IdempotencyKey: key,
			StaleBefore:    staleBefore,
		}); err != nil {
			return db.CheckoutRequest{}, fmt.Errorf("q.ExpireStaleCheckoutRequests: %w", err)
		}

		row, err := q.ClaimCheckoutRequest(ctx, db.ClaimCheckoutRequestParams{
			IdempotencyKey: key,
			OwnerID:        ownerID,
			StaleBefore:    staleBefore,
		})
		if err != nil {
			return db.CheckoutRequest{}, fmt.Errorf("q.ClaimCheckoutRequest: %w", err)
		}

		return row, nil
	})
	switch {
	case err == nil:
		req, err := mapCheckoutRequestToDomain(row)
		if err != nil {
			return domain.CheckoutRequest{}, false, fmt.Errorf("mapCheckoutRequestToDomain: %w", err)
		}
		return req, true, nil

	case isUniqueViolation(err, checkoutOwnerProcessingConstraint):
		// another key of the same owner is being charged, report that one
		blocking, err := r.q.GetProcessingCheckoutRequest(ctx, ownerID)
		if err != nil {
			return domain.CheckoutRequest{}, false, translate(fmt.Errorf("q.GetProcessingCheckoutRequest: %w", err))
		}

		req, err := mapCheckoutRequestToDomain(blocking)
		if err != nil {
			return domain.CheckoutRequest{}, false, fmt.Errorf("mapCheckoutRequestToDomain: %w", err)
		}
		return req, false, nil

	case isNoRows(err):
		// the conflicting row was not taken over, report its state
		existing, err := r.GetCheckout(ctx, key)
		if err != nil {
			return domain.CheckoutRequest{}, false, fmt.Errorf("r.GetCheckout: %w", err)
		}
		return existing, false, nil
	}

	return domain.CheckoutRequest{}, false, translate(err)
}

func (r *checkoutRepository) GetCheckout(ctx context.Context, key string) (domain.CheckoutRequest, error) {
	row, err := r.q.GetCheckoutRequest(ctx, key)
	if err != nil {
		return domain.CheckoutRequest{}, translate(fmt.Errorf("q.GetCheckoutRequest: %w", err))
	}

	req, err := mapCheckoutRequestToDomain(row)
	if err != nil {
		return domain.CheckoutRequest{}, fmt.Errorf("mapCheckoutRequestToDomain: %w", err)
	}

	return req, nil
}

func (r *checkoutRepository) ReleaseCheckout(ctx context.Context, key string) error {
	if _, err := r.q.ReleaseCheckoutRequest(ctx, key); err != nil {
		return translate(fmt.Errorf("q.ReleaseCheckoutRequest: %w", err))
	}

	return nil
}

func (r *checkoutRepository) MarkCheckout(ctx context.Context, req domain.CheckoutRequest) error {
	return markCheckout(ctx, r.q, req)
}

// SnapshotCart reads the priced cart with its rows share-locked. The locks are held
// only for the duration of the read transaction.
func (r *checkoutRepository) SnapshotCart(ctx context.Context, ownerID string) (domain.CartSnapshot, error) {
	if ownerID == "" {
		return domain.CartSnapshot{}, errOwnerIDEmpty
	}

	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead}

	return withTxOptions(ctx, r.pool, r.q, opts, func(q *db.Queries) (domain.CartSnapshot, error) {
		rows, err := q.SnapshotCart(ctx, ownerID)
		if err != nil {
			return domain.CartSnapshot{}, translate(fmt.Errorf("q.SnapshotCart: %w", err))
		}

		snapshot, err := mapSnapshotRowsToDomain(ownerID, rows)
		if err != nil {
			return domain.CartSnapshot{}, fmt.Errorf("mapSnapshotRowsToDomain: %w", err)
		}

		return snapshot, nil
	})
}

func (r *checkoutRepository) CommitCheckout(ctx context.Context, req domain.CheckoutRequest, snapshot domain.CartSnapshot, order domain.NewOrder) (domain.Order, error) {
	if order.OwnerID == "" {
		return domain.Order{}, errOwnerIDEmpty
	}

	created, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Order, error) {
		created, err := insertOrder(ctx, q, order)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insertOrder: %w", err)
		}

		if err := deleteSnapshotLines(ctx, q, snapshot); err != nil {
			return domain.Order{}, fmt.Errorf("deleteSnapshotLines: %w", err)
		}

		if err := insertOrderCreatedEvent(ctx, q, created); err != nil {
			return domain.Order{}, fmt.Errorf("insertOrderCreatedEvent: %w", err)
		}

		req.Status = domain.CheckoutStatusFulfilled
		req.OrderID = created.ID
		req.PaymentReference = created.PaymentReference
		if err := markCheckout(ctx, q, req); err != nil {
			return domain.Order{}, fmt.Errorf("markCheckout: %w", err)
		}

		return created, nil
	})
	if err == nil {
		return created, nil
	}

	// a stale takeover raced the original committer, both charged the same reference
	if order.IdempotencyKey != "" && isOrderReplay(err) {
		existing, getErr := withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Order, error) {
			row, err := q.GetOrderByIdempotencyKey(ctx, &order.IdempotencyKey)
			if err != nil {
				return domain.Order{}, translate(fmt.Errorf("q.GetOrderByIdempotencyKey: %w", err))
			}

			existing, err := loadOrder(ctx, q, row)
			if err != nil {
				return domain.Order{}, fmt.Errorf("loadOrder: %w", err)
			}

			req.Status = domain.CheckoutStatusFulfilled
			req.OrderID = existing.ID
			req.PaymentReference = existing.PaymentReference
			if err := markCheckout(ctx, q, req); err != nil {
				return domain.Order{}, fmt.Errorf("markCheckout: %w", err)
			}

			return existing, nil
		})
		if getErr != nil {
			return domain.Order{}, fmt.Errorf("existing order: %w", getErr)
		}
		return existing, nil
	}

	return domain.Order{}, err
}

// deleteSnapshotLines removes exactly the lines the order was priced from. A line
// removed or requantified since the snapshot fails the commit with ErrCartChanged;
// lines added since then stay in the cart.
func deleteSnapshotLines(ctx context.Context, q *db.Queries, snapshot domain.CartSnapshot) error {
	params := db.DeleteSnapshotLinesParams{
		LineIds:    make([]uuid.UUID, 0, len(snapshot.Lines)),
		Quantities: make([]int32, 0, len(snapshot.Lines)),
		OwnerID:    snapshot.OwnerID,
	}
	for _, line := range snapshot.Lines {
		params.LineIds = append(params.LineIds, line.LineID)
		params.Quantities = append(params.Quantities, int32(line.Quantity))
	}

	deleted, err := q.DeleteSnapshotLines(ctx, params)
	if err != nil {
		return translate(fmt.Errorf("q.DeleteSnapshotLines: %w", err))
	}
	if deleted != int64(len(snapshot.Lines)) {
		return fmt.Errorf("only %d of %d snapshot lines still match the cart: %w", deleted, len(snapshot.Lines), domain.ErrCartChanged)
	}

	return nil
}

func markCheckout(ctx context.Context, q *db.Queries, req domain.CheckoutRequest) error {
	params := db.MarkCheckoutRequestParams{
		Status:           string(req.Status),
		CartFingerprint:  nullable(req.CartFingerprint),
		PaymentReference: nullable(req.PaymentReference),
		IdempotencyKey:   req.IdempotencyKey,
	}
	if req.Amount != nil {
		params.Amount = decimal.NewNullDecimal(req.Amount.Amount)
		params.Currency = nullable(req.Amount.Currency.String())
	}
	if req.OrderID != uuid.Nil {
		params.OrderID = uuid.NullUUID{UUID: req.OrderID, Valid: true}
	}

	updated, err := q.MarkCheckoutRequest(ctx, params)
	if err != nil {
		return translate(fmt.Errorf("q.MarkCheckoutRequest: %w", err))
	}
	if updated == 0 {
		return fmt.Errorf("checkout request is gone: %w", domain.ErrNotFound)
	}

	return nil
}
