package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/catalog"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSaleRepository is a mock implementation of sales.Repository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) UpdateStatus(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter sales.Filter) ([]*sales.Sale, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*sales.Sale), args.Get(1).(int64), args.Error(2)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

// unavailableStore simulates an unreachable idempotency backend
type unavailableStore struct{}

func (unavailableStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (unavailableStore) IsProcessed(context.Context, string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (unavailableStore) Release(context.Context, string) error {
	return errors.New("redis: connection refused")
}

func newProduct(t *testing.T, sku, price, cost string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		SKU:   sku,
		Name:  "Produto " + sku,
		Price: decimal.RequireFromString(price),
		Cost:  decimal.RequireFromString(cost),
	})
	require.NoError(t, err)
	return p
}

func newCompletedSale(t *testing.T) *sales.Sale {
	t.Helper()
	item, err := sales.NewItem(uuid.New(), "Pao de queijo", decimal.NewFromInt(3),
		decimal.RequireFromString("4.50"), decimal.RequireFromString("1.20"), decimal.Zero)
	require.NoError(t, err)
	sale, err := sales.NewSale(uuid.New(), []sales.Item{item}, decimal.Zero, sales.PaymentPix, decimal.Zero)
	require.NoError(t, err)
	sale.Number = 7
	return sale
}

func cashier() identity.Identity {
	return identity.Identity{UserID: uuid.New(), Email: "caixa@example.com", Role: identity.RoleCashier}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func newService(saleRepo *MockSaleRepository, productRepo *MockProductRepository, store shared.IdempotencyStore) *SaleService {
	return NewSaleService(saleRepo, productRepo, store, nil, zap.NewNop())
}

func TestSaleService_Create_UsesCatalogPrices(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	productRepo := new(MockProductRepository)
	coffee := newProduct(t, "CAF-001", "7.50", "2.00")
	bread := newProduct(t, "PAO-001", "1.25", "0.40")

	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{coffee.ID, bread.ID}).
		Return([]*catalog.Product{bread, coffee}, nil)
	saleRepo.On("Create", mock.Anything, mock.AnythingOfType("*sales.Sale")).
		Run(func(args mock.Arguments) { args.Get(1).(*sales.Sale).Number = 15 }).
		Return(nil)

	svc := newService(saleRepo, productRepo, cache.NewInMemoryIdempotencyStore(time.Minute))
	resp, err := svc.Create(context.Background(), cashier(), "", CreateSaleRequest{
		Items: []SaleItemRequest{
			{ProductID: coffee.ID.String(), Quantity: decimal.NewFromInt(2)},
			{ProductID: bread.ID.String(), Quantity: decimal.NewFromInt(4), Discount: decimal.RequireFromString("0.50")},
			{ProductID: coffee.ID.String(), Quantity: decimal.NewFromInt(1)},
		},
		PaymentMethod: "cash",
		AmountPaid:    decimal.NewFromInt(50),
		CustomerName:  "Maria",
	})

	require.NoError(t, err)
	assert.Equal(t, "V000015", resp.Code)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "Maria", resp.CustomerName)
	require.Len(t, resp.Items, 3)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("7.50")))
	assert.True(t, resp.Items[1].UnitCost.Equal(decimal.RequireFromString("0.40")))
	assert.True(t, resp.Total.Equal(decimal.RequireFromString("27")), resp.Total.String())
	assert.True(t, resp.Change.Equal(decimal.NewFromInt(23)))
	saleRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestSaleService_Create_ProductNotFound(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	productRepo := new(MockProductRepository)
	missing := uuid.New()
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{missing}).Return([]*catalog.Product{}, nil)

	svc := newService(saleRepo, productRepo, cache.NewInMemoryIdempotencyStore(time.Minute))
	_, err := svc.Create(context.Background(), cashier(), "", CreateSaleRequest{
		Items:         []SaleItemRequest{{ProductID: missing.String(), Quantity: decimal.NewFromInt(1)}},
		PaymentMethod: "pix",
	})

	requireCode(t, err, "PRODUCT_NOT_FOUND")
	saleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSaleService_Create_InactiveProduct(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	productRepo := new(MockProductRepository)
	p := newProduct(t, "OLD-001", "3", "1")
	p.SetActive(false)
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{p.ID}).Return([]*catalog.Product{p}, nil)

	svc := newService(saleRepo, productRepo, cache.NewInMemoryIdempotencyStore(time.Minute))
	_, err := svc.Create(context.Background(), cashier(), "", CreateSaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID.String(), Quantity: decimal.NewFromInt(1)}},
		PaymentMethod: "pix",
	})

	requireCode(t, err, "PRODUCT_INACTIVE")
}

func TestSaleService_Create_InsufficientPayment(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	productRepo := new(MockProductRepository)
	p := newProduct(t, "CAF-001", "10", "3")
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{p.ID}).Return([]*catalog.Product{p}, nil)

	svc := newService(saleRepo, productRepo, cache.NewInMemoryIdempotencyStore(time.Minute))
	_, err := svc.Create(context.Background(), cashier(), "", CreateSaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID.String(), Quantity: decimal.NewFromInt(1)}},
		PaymentMethod: "cash",
		AmountPaid:    decimal.NewFromInt(5),
	})

	requireCode(t, err, "INSUFFICIENT_PAYMENT")
}

func TestSaleService_Create_DuplicateIdempotencyKey(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	productRepo := new(MockProductRepository)
	p := newProduct(t, "CAF-001", "10", "3")
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{p.ID}).Return([]*catalog.Product{p}, nil)
	saleRepo.On("Create", mock.Anything, mock.AnythingOfType("*sales.Sale")).Return(nil)

	svc := newService(saleRepo, productRepo, cache.NewInMemoryIdempotencyStore(time.Minute))
	user := cashier()
	req := CreateSaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID.String(), Quantity: decimal.NewFromInt(1)}},
		PaymentMethod: "debit_card",
	}

	_, err := svc.Create(context.Background(), user, "key-1", req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), user, "key-1", req)
	assert.ErrorIs(t, err, shared.ErrDuplicateRequest)

	_, err = svc.Create(context.Background(), cashier(), "key-1", req)
	require.NoError(t, err, "keys are scoped per user")
	saleRepo.AssertNumberOfCalls(t, "Create", 2)
}

func TestSaleService_Create_FailureReleasesKey(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	productRepo := new(MockProductRepository)
	p := newProduct(t, "CAF-001", "10", "3")
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{p.ID}).Return([]*catalog.Product{p}, nil)
	saleRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
	saleRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	svc := newService(saleRepo, productRepo, store)
	user := cashier()
	req := CreateSaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID.String(), Quantity: decimal.NewFromInt(1)}},
		PaymentMethod: "pix",
	}

	_, err := svc.Create(context.Background(), user, "retry-me", req)
	require.Error(t, err)
	processed, _ := store.IsProcessed(context.Background(), user.UserID.String()+":retry-me")
	assert.False(t, processed)

	_, err = svc.Create(context.Background(), user, "retry-me", req)
	require.NoError(t, err)
	saleRepo.AssertExpectations(t)
}

func TestSaleService_Create_StoreUnavailableFailsOpen(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	productRepo := new(MockProductRepository)
	p := newProduct(t, "CAF-001", "10", "3")
	productRepo.On("FindByIDs", mock.Anything, []uuid.UUID{p.ID}).Return([]*catalog.Product{p}, nil)
	saleRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newService(saleRepo, productRepo, unavailableStore{})
	_, err := svc.Create(context.Background(), cashier(), "k", CreateSaleRequest{
		Items:         []SaleItemRequest{{ProductID: p.ID.String(), Quantity: decimal.NewFromInt(1)}},
		PaymentMethod: "pix",
	})

	require.NoError(t, err)
}

func TestSaleService_Lifecycle(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	sale := newCompletedSale(t)
	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
	saleRepo.On("UpdateStatus", mock.Anything, sale).Return(nil)

	svc := newService(saleRepo, new(MockProductRepository), unavailableStore{})
	ctx := context.Background()
	actor := identity.Identity{UserID: uuid.New(), Role: identity.RoleManager}

	change, err := svc.Cancel(ctx, actor, sale.ID, CancelSaleRequest{Reason: "cliente desistiu"})
	require.NoError(t, err)
	assert.Equal(t, "completed", change.Before.Status)
	assert.Equal(t, "cancelled", change.After.Status)
	assert.Equal(t, "cliente desistiu", change.After.CancelReason)
	assert.Equal(t, actor.UserID, *change.After.CancelledBy)

	_, err = svc.Cancel(ctx, actor, sale.ID, CancelSaleRequest{Reason: "de novo"})
	requireCode(t, err, "INVALID_STATE")

	_, err = svc.Complete(ctx, actor, sale.ID, CompleteSaleRequest{})
	requireCode(t, err, "INVALID_STATE")

	change, err = svc.Reopen(ctx, actor, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "open", change.After.Status)
	assert.Nil(t, change.After.CancelledAt)

	change, err = svc.Complete(ctx, actor, sale.ID, CompleteSaleRequest{AmountPaid: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, "completed", change.After.Status)
	assert.True(t, change.After.Change.Equal(decimal.RequireFromString("6.50")))

	saleRepo.AssertNumberOfCalls(t, "UpdateStatus", 3)
}

func TestSaleService_Reopen_RequiresCancelled(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	sale := newCompletedSale(t)
	saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)

	svc := newService(saleRepo, new(MockProductRepository), unavailableStore{})
	_, err := svc.Reopen(context.Background(), cashier(), sale.ID)

	requireCode(t, err, "INVALID_STATE")
	saleRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
}

func TestSaleService_Cancel_NotFound(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	id := uuid.New()
	saleRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	svc := newService(saleRepo, new(MockProductRepository), unavailableStore{})
	_, err := svc.Cancel(context.Background(), cashier(), id, CancelSaleRequest{Reason: "erro"})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestSaleService_List_BuildsFilter(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	cashierID := uuid.New()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	saleRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f sales.Filter) bool {
		return f.Status != nil && *f.Status == sales.StatusCancelled &&
			f.CashierID != nil && *f.CashierID == cashierID &&
			f.From.Equal(from) && f.To.Equal(to.AddDate(0, 0, 1)) &&
			f.Page == 1 && f.PageSize == 20
	})).Return([]*sales.Sale{newCompletedSale(t)}, int64(1), nil)

	svc := newService(saleRepo, new(MockProductRepository), unavailableStore{})
	out, total, err := svc.List(context.Background(), SaleListFilter{
		Status:    "cancelled",
		CashierID: cashierID.String(),
		From:      &from,
		To:        &to,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, out, 1)
}
