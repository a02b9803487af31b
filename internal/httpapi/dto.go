package httpapi

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MoneyDTO struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type LineDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type AddItemRequest = LineDTO

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type ReplaceCartRequest struct {
	Items []LineDTO `json:"items"`
}

type MergeCartRequest struct {
	Items []LineDTO `json:"items"`
}

type MergeCartResponse struct {
	Inserted int          `json:"inserted"`
	Kept     int          `json:"kept"`
	Skipped  int          `json:"skipped"`
	Cart     CartResponse `json:"cart"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	// Total is absent when any item has no price.
	Total *MoneyDTO `json:"total,omitempty"`
}

type CartItemResponse struct {
	LineID      uuid.UUID `json:"line_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       *MoneyDTO `json:"price,omitempty"`
	Quantity    int       `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

type CartLineResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type CardDTO struct {
	Number      string `json:"number"`
	HolderName  string `json:"holder_name"`
	ExpiryMonth int    `json:"expiry_month"`
	ExpiryYear  int    `json:"expiry_year"`
	CVC         string `json:"cvc"`
}

type CheckoutRequest struct {
	Card CardDTO `json:"card"`
}

type CheckoutResponse struct {
	Order            OrderResponse `json:"order"`
	PaymentReference string        `json:"payment_reference"`
}

type ConfirmPaymentRequest struct {
	Token string    `json:"token"`
	Items []LineDTO `json:"items"`
}

type ConfirmPaymentResponse struct {
	OrderID  uuid.UUID `json:"order_id"`
	Replayed bool      `json:"replayed"`
}

type OrderResponse struct {
	ID               uuid.UUID           `json:"id"`
	OwnerID          string              `json:"owner_id"`
	Status           string              `json:"status"`
	Total            MoneyDTO            `json:"total"`
	PaymentReference string              `json:"payment_reference,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice MoneyDTO  `json:"unit_price"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       *MoneyDTO `json:"price,omitempty"`
	Stock       int       `json:"stock"`
}

type ReconciliationResponse struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          string    `json:"owner_id"`
	PaymentReference string    `json:"payment_reference"`
	Amount           MoneyDTO  `json:"amount"`
	Reason           string    `json:"reason"`
	Detail           string    `json:"detail,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func mapMoney(m domain.Money) MoneyDTO {
	return MoneyDTO{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency.String(),
	}
}

func mapMoneyPtr(m *domain.Money) *MoneyDTO {
	if m == nil {
		return nil
	}
	dto := mapMoney(*m)
	return &dto
}

func mapLines(lines []LineDTO) ([]domain.LineInput, error) {
	inputs := make([]domain.LineInput, 0, len(lines))
	for i, line := range lines {
		productID, err := parseProductID(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		inputs = append(inputs, domain.LineInput{
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}
	return inputs, nil
}

// mapAnonymousLines keeps unparsable product ids as uuid.Nil so the merge skips them.
func mapAnonymousLines(lines []LineDTO) []domain.LineInput {
	inputs := make([]domain.LineInput, 0, len(lines))
	for _, line := range lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			productID = uuid.Nil
		}
		inputs = append(inputs, domain.LineInput{
			ProductID: productID,
			Quantity:  line.Quantity,
		})
	}
	return inputs
}

func mapCart(cart domain.Cart) CartResponse {
	resp := CartResponse{Items: make([]CartItemResponse, 0, len(cart.Items))}
	for _, item := range cart.Items {
		resp.Items = append(resp.Items, CartItemResponse{
			LineID:      item.LineID,
			ProductID:   item.ProductID,
			Name:        item.Name,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			Price:       mapMoneyPtr(item.Price),
			Quantity:    item.Quantity,
			CreatedAt:   item.CreatedAt,
		})
	}

	if len(cart.Items) > 0 {
		if total, err := cart.Total(); err == nil {
			resp.Total = mapMoneyPtr(&total)
		}
	}

	return resp
}

func mapCartLine(line domain.CartLine) CartLineResponse {
	return CartLineResponse{
		ID:        line.ID,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		CreatedAt: line.CreatedAt,
	}
}

func mapOrder(order domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			UnitPrice: mapMoney(item.UnitPrice),
		})
	}

	return OrderResponse{
		ID:               order.ID,
		OwnerID:          order.OwnerID,
		Status:           string(order.Status),
		Total:            mapMoney(order.Total),
		PaymentReference: order.PaymentReference,
		Items:            items,
		CreatedAt:        order.CreatedAt,
		UpdatedAt:        order.UpdatedAt,
	}
}

func mapOrders(orders []domain.Order) []OrderResponse {
	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, mapOrder(order))
	}
	return resp
}

func mapProduct(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       mapMoneyPtr(p.Price),
		Stock:       p.Stock,
	}
}

func mapReconciliations(recs []domain.Reconciliation) []ReconciliationResponse {
	resp := make([]ReconciliationResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, ReconciliationResponse{
			ID:               rec.ID,
			OwnerID:          rec.OwnerID,
			PaymentReference: rec.PaymentReference,
			Amount:           mapMoney(rec.Amount),
			Reason:           string(rec.Reason),
			Detail:           rec.Detail,
			CreatedAt:        rec.CreatedAt,
		})
	}
	return resp
}
