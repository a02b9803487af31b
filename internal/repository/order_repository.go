package repository

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/nikolayk812/cart-checkout/internal/port"
)

const (
	orderIdempotencyConstraint      = "orders_idempotency_key_key"
	orderPaymentReferenceConstraint = "orders_payment_reference_key"
)

type orderRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.NewOrder) (domain.Order, bool, error) {
	if order.OwnerID == "" {
		return domain.Order{}, false, errOwnerIDEmpty
	}

	created, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (domain.Order, error) {
		created, err := insertOrder(ctx, q, order)
		if err != nil {
			return domain.Order{}, fmt.Errorf("insertOrder: %w", err)
		}

		if err := insertOrderCreatedEvent(ctx, q, created); err != nil {
			return domain.Order{}, fmt.Errorf("insertOrderCreatedEvent: %w", err)
		}

		return created, nil
	})
	if err == nil {
		return created, false, nil
	}

	if order.IdempotencyKey != "" && isOrderReplay(err) {
		existing, getErr := r.GetOrderByIdempotencyKey(ctx, order.IdempotencyKey)
		if errors.Is(getErr, domain.ErrNotFound) {
			return domain.Order{}, false, fmt.Errorf("payment[%s] is recorded for another order: %w", order.PaymentReference, domain.ErrPaymentFailed)
		}
		if getErr != nil {
			return domain.Order{}, false, fmt.Errorf("r.GetOrderByIdempotencyKey: %w", getErr)
		}
		if existing.OwnerID != order.OwnerID {
			return domain.Order{}, false, fmt.Errorf("payment[%s] is recorded for another owner: %w", order.PaymentReference, domain.ErrPaymentFailed)
		}
		return existing, true, nil
	}

	return domain.Order{}, false, err
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	row, err := r.q.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, translate(fmt.Errorf("q.GetOrder[%s]: %w", orderID, err))
	}

	return loadOrder(ctx, r.q, row)
}

func (r *orderRepository) GetOrderForOwner(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, errOwnerIDEmpty
	}

	row, err := r.q.GetOrderForOwner(ctx, db.GetOrderForOwnerParams{
		ID:      orderID,
		OwnerID: ownerID,
	})
	if err != nil {
		return domain.Order{}, translate(fmt.Errorf("q.GetOrderForOwner[%s]: %w", orderID, err))
	}

	return loadOrder(ctx, r.q, row)
}

func (r *orderRepository) GetOrderByIdempotencyKey(ctx context.Context, key string) (domain.Order, error) {
	row, err := r.q.GetOrderByIdempotencyKey(ctx, &key)
	if err != nil {
		return domain.Order{}, translate(fmt.Errorf("q.GetOrderByIdempotencyKey: %w", err))
	}

	return loadOrder(ctx, r.q, row)
}

// ListOrdersForOwner returns the owner's orders newest first with their items.
func (r *orderRepository) ListOrdersForOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, errOwnerIDEmpty
	}

	rows, err := r.q.ListOrdersForOwner(ctx, ownerID)
	if err != nil {
		return nil, translate(fmt.Errorf("q.ListOrdersForOwner: %w", err))
	}

	return loadOrders(ctx, r.q, rows)
}

// ListOrders is the privileged cross-owner listing; items are not loaded.
func (r *orderRepository) ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit[%d] must be positive: %w", limit, domain.ErrValidation)
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset[%d] must not be negative: %w", offset, domain.ErrValidation)
	}

	rows, err := r.q.ListOrders(ctx, db.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, translate(fmt.Errorf("q.ListOrders: %w", err))
	}

	return mapOrdersToDomain(rows, nil)
}

// TransitionStatus moves the order forward with a compare-and-set on its current status.
func (r *orderRepository) TransitionStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (domain.Order, error) {
	from := to.Predecessors()
	fromStatuses := make([]string, 0, len(from))
	for _, s := range from {
		fromStatuses = append(fromStatuses, string(s))
	}

	row, err := r.q.TransitionOrderStatus(ctx, db.TransitionOrderStatusParams{
		ToStatus:     string(to),
		ID:           orderID,
		FromStatuses: fromStatuses,
	})
	if err == nil {
		return loadOrder(ctx, r.q, row)
	}
	if !isNoRows(err) {
		return domain.Order{}, translate(fmt.Errorf("q.TransitionOrderStatus[%s]: %w", orderID, err))
	}

	current, err := r.q.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, translate(fmt.Errorf("q.GetOrder[%s]: %w", orderID, err))
	}

	return domain.Order{}, fmt.Errorf("order[%s] from %s to %s: %w", orderID, current.Status, to, domain.ErrInvalidTransition)
}

// insertOrder records the order, decrements stock for every item and records the items.
// The order row goes first so a duplicate idempotency key fails before any stock moves.
// Runs inside the caller's transaction.
func insertOrder(ctx context.Context, q *db.Queries, order domain.NewOrder) (domain.Order, error) {
	orderRow, err := q.InsertOrder(ctx, db.InsertOrderParams{
		OwnerID:          order.OwnerID,
		TotalAmount:      order.Total.Amount,
		TotalCurrency:    order.Total.Currency.String(),
		Status:           string(order.Status),
		PaymentReference: nullable(order.PaymentReference),
		IdempotencyKey:   nullable(order.IdempotencyKey),
	})
	if err != nil {
		return domain.Order{}, translate(fmt.Errorf("q.InsertOrder: %w", err))
	}

	// a fixed lock order keeps concurrent checkouts of overlapping carts from deadlocking
	items := slices.Clone(order.Items)
	slices.SortFunc(items, func(a, b domain.NewOrderItem) int {
		return cmp.Compare(a.ProductID.String(), b.ProductID.String())
	})

	for _, item := range items {
		decremented, err := q.DecrementStock(ctx, db.DecrementStockParams{
			Quantity: int32(item.Quantity),
			ID:       item.ProductID,
		})
		if err != nil {
			return domain.Order{}, translate(fmt.Errorf("q.DecrementStock[%s]: %w", item.ProductID, err))
		}
		if decremented == 0 {
			return domain.Order{}, fmt.Errorf("product[%s] quantity %d: %w", item.ProductID, item.Quantity, domain.ErrOutOfStock)
		}

		_, err = q.InsertOrderItem(ctx, db.InsertOrderItemParams{
			OrderID:           orderRow.ID,
			ProductID:         item.ProductID,
			Quantity:          int32(item.Quantity),
			UnitPriceAmount:   item.UnitPrice.Amount,
			UnitPriceCurrency: item.UnitPrice.Currency.String(),
		})
		if err != nil {
			return domain.Order{}, translate(fmt.Errorf("q.InsertOrderItem[%s]: %w", item.ProductID, err))
		}
	}

	return loadOrder(ctx, q, orderRow)
}

func loadOrder(ctx context.Context, q *db.Queries, row db.Order) (domain.Order, error) {
	orders, err := loadOrders(ctx, q, []db.Order{row})
	if err != nil {
		return domain.Order{}, err
	}

	return orders[0], nil
}

func loadOrders(ctx context.Context, q *db.Queries, rows []db.Order) ([]domain.Order, error) {
	if len(rows) == 0 {
		return []domain.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	itemRows, err := q.ListOrderItems(ctx, ids)
	if err != nil {
		return nil, translate(fmt.Errorf("q.ListOrderItems: %w", err))
	}

	orders, err := mapOrdersToDomain(rows, itemRows)
	if err != nil {
		return nil, fmt.Errorf("mapOrdersToDomain: %w", err)
	}

	return orders, nil
}

// isOrderReplay reports an order insert rejected because its key or payment was recorded before.
func isOrderReplay(err error) bool {
	return isUniqueViolation(err, orderIdempotencyConstraint) || isUniqueViolation(err, orderPaymentReferenceConstraint)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
