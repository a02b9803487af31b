package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

type reconciliationRepository struct {
	q *db.Queries
}

func NewReconciliation(pool *pgxpool.Pool) port.ReconciliationRepository {
	return &reconciliationRepository{
		q: db.New(pool),
	}
}

// RecordReconciliation appends a charge that has no committed order. Rows are never updated here.
func (r *reconciliationRepository) RecordReconciliation(ctx context.Context, rec domain.Reconciliation) (domain.Reconciliation, error) {
	if rec.PaymentReference == "" {
		return domain.Reconciliation{}, fmt.Errorf("payment reference is empty: %w", domain.ErrValidation)
	}

	row, err := r.q.InsertReconciliation(ctx, db.InsertReconciliationParams{
		OwnerID:          rec.OwnerID,
		IdempotencyKey:   rec.IdempotencyKey,
		PaymentReference: rec.PaymentReference,
		Amount:           rec.Amount.Amount,
		Currency:         rec.Amount.Currency.String(),
		Reason:           string(rec.Reason),
		Detail:           rec.Detail,
	})
	if err != nil {
		return domain.Reconciliation{}, translate(fmt.Errorf("q.InsertReconciliation: %w", err))
	}

	recorded, err := mapReconciliationToDomain(row)
	if err != nil {
		return domain.Reconciliation{}, fmt.Errorf("mapReconciliationToDomain: %w", err)
	}

	return recorded, nil
}

func (r *reconciliationRepository) ListUnresolved(ctx context.Context) ([]domain.Reconciliation, error) {
	rows, err := r.q.ListUnresolvedReconciliations(ctx)
	if err != nil {
		return nil, translate(fmt.Errorf("q.ListUnresolvedReconciliations: %w", err))
	}

	recs := make([]domain.Reconciliation, 0, len(rows))
	for _, row := range rows {
		rec, err := mapReconciliationToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapReconciliationToDomain: %w", err)
		}
		recs = append(recs, rec)
	}

	return recs, nil
}
