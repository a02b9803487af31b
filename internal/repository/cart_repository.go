package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

var errOwnerIDEmpty = fmt.Errorf("ownerID is empty: %w", domain.ErrUnauthorized)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, errOwnerIDEmpty
	}

	dbCartRows, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, translate(fmt.Errorf("q.GetCart: %w", err))
	}

	items, err := mapGetCartRowsToDomain(dbCartRows)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

// AddItem inserts the line or increments the quantity of the existing (owner, product) line
// in a single statement.
func (r *cartRepository) AddItem(ctx context.Context, ownerID string, line domain.LineInput) (domain.CartLine, error) {
	if ownerID == "" {
		return domain.CartLine{}, errOwnerIDEmpty
	}
	if err := line.Validate(); err != nil {
		return domain.CartLine{}, err
	}

	row, err := r.q.AddLine(ctx, db.AddLineParams{
		OwnerID:   ownerID,
		ProductID: line.ProductID,
		Quantity:  int32(line.Quantity),
	})
	if err != nil {
		return domain.CartLine{}, translate(fmt.Errorf("q.AddLine: %w", err))
	}

	return mapCartLineToDomain(row), nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, ownerID string, lineID uuid.UUID, quantity int) (domain.CartLine, error) {
	if ownerID == "" {
		return domain.CartLine{}, errOwnerIDEmpty
	}
	if err := domain.ValidateQuantity(quantity); err != nil {
		return domain.CartLine{}, err
	}

	row, err := r.q.UpdateLineQuantity(ctx, db.UpdateLineQuantityParams{
		ID:       lineID,
		OwnerID:  ownerID,
		Quantity: int32(quantity),
	})
	if err != nil {
		return domain.CartLine{}, translate(fmt.Errorf("q.UpdateLineQuantity: %w", err))
	}

	return mapCartLineToDomain(row), nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, lineID uuid.UUID) (bool, error) {
	if ownerID == "" {
		return false, errOwnerIDEmpty
	}

	rowsAffected, err := r.q.DeleteLine(ctx, db.DeleteLineParams{
		ID:      lineID,
		OwnerID: ownerID,
	})
	if err != nil {
		return false, translate(fmt.Errorf("q.DeleteLine: %w", err))
	}

	return rowsAffected > 0, nil
}

// ReplaceCart swaps the whole cart in one transaction.
func (r *cartRepository) ReplaceCart(ctx context.Context, ownerID string, lines []domain.LineInput) error {
	if ownerID == "" {
		return errOwnerIDEmpty
	}

	folded, err := domain.FoldLines(lines)
	if err != nil {
		return fmt.Errorf("domain.FoldLines: %w", err)
	}

	_, err = withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if _, err := q.DeleteCart(ctx, ownerID); err != nil {
			return struct{}{}, translate(fmt.Errorf("q.DeleteCart: %w", err))
		}

		for _, line := range folded {
			err := q.InsertLine(ctx, db.InsertLineParams{
				OwnerID:   ownerID,
				ProductID: line.ProductID,
				Quantity:  int32(line.Quantity),
			})
			if err != nil {
				return struct{}{}, translate(fmt.Errorf("q.InsertLine[%s]: %w", line.ProductID, err))
			}
		}

		return struct{}{}, nil
	})

	return err
}

func (r *cartRepository) ClearCart(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, errOwnerIDEmpty
	}

	rowsAffected, err := r.q.DeleteCart(ctx, ownerID)
	if err != nil {
		return 0, translate(fmt.Errorf("q.DeleteCart: %w", err))
	}

	return rowsAffected, nil
}

// MergeCart inserts each entry only when the owner has no line for the product yet.
// Insert-if-absent is a single statement, so concurrent merges cannot both insert.
func (r *cartRepository) MergeCart(ctx context.Context, ownerID string, entries []domain.LineInput) (domain.MergeResult, error) {
	if ownerID == "" {
		return domain.MergeResult{}, errOwnerIDEmpty
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.MergeResult, error) {
		var result domain.MergeResult

		for _, entry := range entries {
			if entry.Validate() != nil {
				result.Skipped++
				continue
			}

			inserted, err := q.MergeLine(ctx, db.MergeLineParams{
				OwnerID:   ownerID,
				Quantity:  int32(entry.Quantity),
				ProductID: entry.ProductID,
			})
			if err != nil {
				return domain.MergeResult{}, translate(fmt.Errorf("q.MergeLine[%s]: %w", entry.ProductID, err))
			}
			if inserted > 0 {
				result.Inserted++
				continue
			}

			exists, err := q.ProductExists(ctx, entry.ProductID)
			if err != nil {
				return domain.MergeResult{}, translate(fmt.Errorf("q.ProductExists[%s]: %w", entry.ProductID, err))
			}
			if exists {
				result.Kept++
			} else {
				result.Skipped++
			}
		}

		return result, nil
	})
}
