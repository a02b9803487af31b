package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/cart-checkout/internal/domain"
	"github.com/stretchr/testify/mock"
)

type cartRepoMock struct {
	mock.Mock
}

func (m *cartRepoMock) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *cartRepoMock) AddItem(ctx context.Context, ownerID string, line domain.LineInput) (domain.CartLine, error) {
	args := m.Called(ctx, ownerID, line)
	return args.Get(0).(domain.CartLine), args.Error(1)
}

func (m *cartRepoMock) UpdateQuantity(ctx context.Context, ownerID string, lineID uuid.UUID, quantity int) (domain.CartLine, error) {
	args := m.Called(ctx, ownerID, lineID, quantity)
	return args.Get(0).(domain.CartLine), args.Error(1)
}

func (m *cartRepoMock) DeleteItem(ctx context.Context, ownerID string, lineID uuid.UUID) (bool, error) {
	args := m.Called(ctx, ownerID, lineID)
	return args.Bool(0), args.Error(1)
}

func (m *cartRepoMock) ReplaceCart(ctx context.Context, ownerID string, lines []domain.LineInput) error {
	return m.Called(ctx, ownerID, lines).Error(0)
}

func (m *cartRepoMock) ClearCart(ctx context.Context, ownerID string) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *cartRepoMock) MergeCart(ctx context.Context, ownerID string, entries []domain.LineInput) (domain.MergeResult, error) {
	args := m.Called(ctx, ownerID, entries)
	return args.Get(0).(domain.MergeResult), args.Error(1)
}

type orderRepoMock struct {
	mock.Mock
}

func (m *orderRepoMock) CreateOrder(ctx context.Context, order domain.NewOrder) (domain.Order, bool, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(domain.Order), args.Bool(1), args.Error(2)
}

func (m *orderRepoMock) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *orderRepoMock) GetOrderForOwner(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error) {
	args := m.Called(ctx, ownerID, orderID)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *orderRepoMock) GetOrderByIdempotencyKey(ctx context.Context, key string) (domain.Order, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Order), args.Error(1)
}

func (m *orderRepoMock) ListOrdersForOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *orderRepoMock) ListOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *orderRepoMock) TransitionStatus(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (domain.Order, error) {
	args := m.Called(ctx, orderID, to)
	return args.Get(0).(domain.Order), args.Error(1)
}

type checkoutRepoMock struct {
	mock.Mock
}

func (m *checkoutRepoMock) ClaimCheckout(ctx context.Context, ownerID, key string, staleBefore time.Time) (domain.CheckoutRequest, bool, error) {
	args := m.Called(ctx, ownerID, key, staleBefore)
	return args.Get(0).(domain.CheckoutRequest), args.Bool(1), args.Error(2)
}

func (m *checkoutRepoMock) GetCheckout(ctx context.Context, key string) (domain.CheckoutRequest, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.CheckoutRequest), args.Error(1)
}

func (m *checkoutRepoMock) ReleaseCheckout(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *checkoutRepoMock) MarkCheckout(ctx context.Context, req domain.CheckoutRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *checkoutRepoMock) SnapshotCart(ctx context.Context, ownerID string) (domain.CartSnapshot, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.CartSnapshot), args.Error(1)
}

func (m *checkoutRepoMock) CommitCheckout(ctx context.Context, req domain.CheckoutRequest, snapshot domain.CartSnapshot, order domain.NewOrder) (domain.Order, error) {
	args := m.Called(ctx, req, snapshot, order)
	return args.Get(0).(domain.Order), args.Error(1)
}

type reconciliationRepoMock struct {
	mock.Mock
}

func (m *reconciliationRepoMock) RecordReconciliation(ctx context.Context, rec domain.Reconciliation) (domain.Reconciliation, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(domain.Reconciliation), args.Error(1)
}

func (m *reconciliationRepoMock) ListUnresolved(ctx context.Context) ([]domain.Reconciliation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

type productRepoMock struct {
	mock.Mock
}

func (m *productRepoMock) GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *productRepoMock) GetProducts(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]domain.Product), args.Error(1)
}

type verifierMock struct {
	mock.Mock
}

func (m *verifierMock) Verify(ctx context.Context, token string) (domain.Verification, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Verification), args.Error(1)
}

type gatewayMock struct {
	mock.Mock
}

func (m *gatewayMock) ValidateCredential(credential domain.PaymentCredential) error {
	return m.Called(credential).Error(0)
}

func (m *gatewayMock) Charge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.ChargeResult), args.Error(1)
}
