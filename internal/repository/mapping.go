package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/db"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/shopspring/decimal"
)

func mapNullPrice(amount decimal.NullDecimal, code string) (*domain.Money, error) {
	if !amount.Valid {
		return nil, nil
	}

	price, err := domain.ParseMoney(amount.Decimal, code)
	if err != nil {
		return nil, fmt.Errorf("domain.ParseMoney: %w", err)
	}

	return &price, nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	price, err := mapNullPrice(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapNullPrice: %w", err)
	}

	return domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		ImageURL:    row.ImageUrl,
		Price:       price,
		Stock:       int(row.Stock),
		CreatedAt:   row.CreatedAt,
	}, nil
}

func mapCartLineToDomain(row db.CartLine) domain.CartLine {
	return domain.CartLine{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		ProductID: row.ProductID,
		Quantity:  int(row.Quantity),
		CreatedAt: row.CreatedAt,
	}
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartItem, error) {
	price, err := mapNullPrice(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("mapNullPrice: %w", err)
	}

	return domain.CartItem{
		LineID:      row.ID,
		ProductID:   row.ProductID,
		Name:        row.Name,
		Description: row.Description,
		ImageURL:    row.ImageUrl,
		Price:       price,
		Quantity:    int(row.Quantity),
		CreatedAt:   row.CreatedAt,
	}, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapSnapshotRowsToDomain(ownerID string, rows []db.SnapshotCartRow) (domain.CartSnapshot, error) {
	snapshot := domain.CartSnapshot{OwnerID: ownerID}

	for _, row := range rows {
		price, err := mapNullPrice(row.PriceAmount, row.PriceCurrency)
		if err != nil {
			return domain.CartSnapshot{}, fmt.Errorf("mapNullPrice: %w", err)
		}

		snapshot.Lines = append(snapshot.Lines, domain.SnapshotLine{
			LineID:    row.ID,
			ProductID: row.ProductID,
			Name:      row.Name,
			Quantity:  int(row.Quantity),
			UnitPrice: price,
			Stock:     int(row.Stock),
		})
	}

	return snapshot, nil
}

func mapOrderToDomain(row db.Order) (domain.Order, error) {
	total, err := domain.ParseMoney(row.TotalAmount, row.TotalCurrency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ParseMoney: %w", err)
	}

	status, err := domain.ParseOrderStatus(row.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ParseOrderStatus: %w", err)
	}

	return domain.Order{
		ID:               row.ID,
		OwnerID:          row.OwnerID,
		Total:            total,
		Status:           status,
		PaymentReference: deref(row.PaymentReference),
		IdempotencyKey:   deref(row.IdempotencyKey),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}

func mapOrderItemRowToDomain(row db.ListOrderItemsRow) (domain.OrderItem, error) {
	unitPrice, err := domain.ParseMoney(row.UnitPriceAmount, row.UnitPriceCurrency)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("domain.ParseMoney: %w", err)
	}

	return domain.OrderItem{
		ProductID: row.ProductID,
		Name:      row.Name,
		ImageURL:  row.ImageUrl,
		Quantity:  int(row.Quantity),
		UnitPrice: unitPrice,
		CreatedAt: row.CreatedAt,
	}, nil
}

// mapOrdersToDomain nests item rows under their orders, preserving the order of orderRows.
func mapOrdersToDomain(orderRows []db.Order, itemRows []db.ListOrderItemsRow) ([]domain.Order, error) {
	itemsByOrder := make(map[uuid.UUID][]domain.OrderItem, len(orderRows))
	for _, row := range itemRows {
		item, err := mapOrderItemRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderItemRowToDomain: %w", err)
		}
		itemsByOrder[row.OrderID] = append(itemsByOrder[row.OrderID], item)
	}

	orders := make([]domain.Order, 0, len(orderRows))
	for _, row := range orderRows {
		order, err := mapOrderToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderToDomain: %w", err)
		}
		order.Items = itemsByOrder[row.ID]
		orders = append(orders, order)
	}

	return orders, nil
}

func mapCheckoutRequestToDomain(row db.CheckoutRequest) (domain.CheckoutRequest, error) {
	req := domain.CheckoutRequest{
		IdempotencyKey:   row.IdempotencyKey,
		OwnerID:          row.OwnerID,
		Status:           domain.CheckoutStatus(row.Status),
		CartFingerprint:  deref(row.CartFingerprint),
		PaymentReference: deref(row.PaymentReference),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}

	if row.OrderID.Valid {
		req.OrderID = row.OrderID.UUID
	}

	if row.Amount.Valid && row.Currency != nil {
		amount, err := domain.ParseMoney(row.Amount.Decimal, *row.Currency)
		if err != nil {
			return domain.CheckoutRequest{}, fmt.Errorf("domain.ParseMoney: %w", err)
		}
		req.Amount = &amount
	}

	return req, nil
}

func mapReconciliationToDomain(row db.PaymentReconciliation) (domain.Reconciliation, error) {
	amount, err := domain.ParseMoney(row.Amount, row.Currency)
	if err != nil {
		return domain.Reconciliation{}, fmt.Errorf("domain.ParseMoney: %w", err)
	}

	return domain.Reconciliation{
		ID:               row.ID,
		OwnerID:          row.OwnerID,
		IdempotencyKey:   row.IdempotencyKey,
		PaymentReference: row.PaymentReference,
		Amount:           amount,
		Reason:           domain.ReconciliationReason(row.Reason),
		Detail:           row.Detail,
		CreatedAt:        row.CreatedAt,
		ResolvedAt:       row.ResolvedAt,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
