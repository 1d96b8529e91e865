package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/crm/internal/clock"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	customerrepo "github.com/smallbiznis/crm/internal/customer/repository"
	"github.com/smallbiznis/crm/internal/order/domain"
	"github.com/smallbiznis/crm/internal/order/repository"
	"github.com/smallbiznis/crm/internal/order/service"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
	productrepo "github.com/smallbiznis/crm/internal/product/repository"
	"github.com/smallbiznis/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db       *gorm.DB
	svc      domain.Service
	customer customerdomain.Customer
	laptop   productdomain.Product
	phone    productdomain.Product
	earbuds  productdomain.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	conn := testutil.NewDB(t)
	node := testutil.NewNode(t)
	ctx := context.Background()

	customers := customerrepo.Provide()
	products := productrepo.Provide()

	customer := customerdomain.Customer{ID: node.Generate(), Name: "Alice Johnson", Email: "alice@example.com", CreatedAt: baseTime}
	require.NoError(t, customers.Insert(ctx, conn, &customer))

	mk := func(name, price string, stock int) productdomain.Product {
		p := productdomain.Product{ID: node.Generate(), Name: name, Price: decimal.RequireFromString(price), Stock: stock}
		require.NoError(t, products.Insert(ctx, conn, &p))
		return p
	}

	svc := service.New(service.Params{
		DB:           conn,
		Log:          zaptest.NewLogger(t),
		GenID:        node,
		Clock:        clock.NewFakeClock(baseTime),
		Repo:         repository.Provide(),
		CustomerRepo: customers,
		ProductRepo:  products,
	})

	return fixture{
		db:       conn,
		svc:      svc,
		customer: customer,
		laptop:   mk("Laptop", "1200.00", 5),
		phone:    mk("Smartphone", "800.00", 10),
		earbuds:  mk("Earbuds", "0.10", 100),
	}
}

func (f fixture) counts(t *testing.T) (orders, links int64) {
	t.Helper()
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Table("order_products").Count(&links).Error)
	return orders, links
}

func TestCreateOrderComputesTotalFromProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.svc.Create(ctx, domain.CreateOrderInput{
		CustomerID: f.customer.ID.String(),
		ProductIDs: []string{f.laptop.ID.String(), f.phone.ID.String()},
	})

	require.True(t, res.Success, res.Errors)
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Order)
	assert.Equal(t, "2000.00", res.Order.TotalAmount.StringFixed(2))
	assert.True(t, res.Order.OrderDate.Equal(baseTime))
	assert.Len(t, res.Order.Products, 2)
	require.NotNil(t, res.Order.Customer)
	assert.Equal(t, f.customer.ID, res.Order.Customer.ID)

	stored, err := f.svc.GetByID(ctx, res.Order.ID.String())
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(decimal.RequireFromString("2000")))
	assert.Len(t, stored.Products, 2)
	require.NotNil(t, stored.Customer)
	assert.Equal(t, "Alice Johnson", stored.Customer.Name)

	orders, links := f.counts(t)
	assert.Equal(t, int64(1), orders)
	assert.Equal(t, int64(2), links)
}

func TestCreateOrderSumIsExact(t *testing.T) {
	f := newFixture(t)

	ids := []string{f.earbuds.ID.String(), f.phone.ID.String()}
	res := f.svc.Create(context.Background(), domain.CreateOrderInput{CustomerID: f.customer.ID.String(), ProductIDs: ids})
	require.True(t, res.Success, res.Errors)
	assert.Equal(t, "800.10", res.Order.TotalAmount.StringFixed(2))
}

func TestCreateOrderUsesProvidedDate(t *testing.T) {
	f := newFixture(t)
	when := time.Date(2023, 12, 24, 18, 30, 0, 0, time.FixedZone("WIB", 7*3600))

	res := f.svc.Create(context.Background(), domain.CreateOrderInput{
		CustomerID: f.customer.ID.String(),
		ProductIDs: []string{f.laptop.ID.String()},
		OrderDate:  &when,
	})
	require.True(t, res.Success, res.Errors)
	assert.True(t, res.Order.OrderDate.Equal(when))
	assert.Equal(t, time.UTC, res.Order.OrderDate.Location())
}

func TestCreateOrderCollapsesRepeatedProducts(t *testing.T) {
	f := newFixture(t)

	laptop := f.laptop.ID.String()
	res := f.svc.Create(context.Background(), domain.CreateOrderInput{
		CustomerID: f.customer.ID.String(),
		ProductIDs: []string{laptop, laptop},
	})
	require.True(t, res.Success, res.Errors)
	assert.Len(t, res.Order.Products, 1)
	assert.Equal(t, "1200.00", res.Order.TotalAmount.StringFixed(2))

	_, links := f.counts(t)
	assert.Equal(t, int64(1), links)
}

func TestCreateOrderReportsEveryProblem(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Create(context.Background(), domain.CreateOrderInput{
		CustomerID: "999",
		ProductIDs: []string{f.laptop.ID.String(), "888", "not-a-number"},
	})

	assert.False(t, res.Success)
	assert.Nil(t, res.Order)
	assert.Equal(t, []string{
		"Invalid customer ID.",
		"Invalid product ID: 888",
		"Invalid product ID: not-a-number",
	}, res.Errors)

	orders, links := f.counts(t)
	assert.Zero(t, orders)
	assert.Zero(t, links)
}

func TestCreateOrderRequiresProducts(t *testing.T) {
	f := newFixture(t)

	res := f.svc.Create(context.Background(), domain.CreateOrderInput{CustomerID: f.customer.ID.String()})
	assert.False(t, res.Success)
	assert.Equal(t, []string{"At least one product must be selected."}, res.Errors)

	res = f.svc.Create(context.Background(), domain.CreateOrderInput{CustomerID: "abc", ProductIDs: []string{}})
	assert.Equal(t, []string{"Invalid customer ID.", "At least one product must be selected."}, res.Errors)

	orders, _ := f.counts(t)
	assert.Zero(t, orders)
}

func TestCreateOrderRollsBackWhenLinksFail(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Migrator().DropTable("order_products"))

	res := f.svc.Create(context.Background(), domain.CreateOrderInput{
		CustomerID: f.customer.ID.String(),
		ProductIDs: []string{f.laptop.ID.String()},
	})

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "order_products")

	var orders int64
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.svc.Create(ctx, domain.CreateOrderInput{
		CustomerID: f.customer.ID.String(),
		ProductIDs: []string{f.laptop.ID.String(), f.phone.ID.String()},
	})
	require.True(t, first.Success)

	later := baseTime.Add(48 * time.Hour)
	second := f.svc.Create(ctx, domain.CreateOrderInput{
		CustomerID: f.customer.ID.String(),
		ProductIDs: []string{f.earbuds.ID.String()},
		OrderDate:  &later,
	})
	require.True(t, second.Success)

	page, err := f.svc.List(ctx, domain.ListOrderRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.Order.ID, page.Items[0].ID)
	assert.Equal(t, int64(2), page.TotalCount)
	require.NotNil(t, page.Items[1].Customer)
	assert.Len(t, page.Items[1].Products, 2)

	minTotal := decimal.RequireFromString("1000")
	page, err = f.svc.List(ctx, domain.ListOrderRequest{TotalMin: &minTotal})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.Order.ID, page.Items[0].ID)

	from := baseTime.Add(24 * time.Hour)
	page, err = f.svc.List(ctx, domain.ListOrderRequest{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, second.Order.ID, page.Items[0].ID)

	page, err = f.svc.List(ctx, domain.ListOrderRequest{ProductName: "smart"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, first.Order.ID, page.Items[0].ID)

	page, err = f.svc.List(ctx, domain.ListOrderRequest{ProductID: f.earbuds.ID.String()})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, second.Order.ID, page.Items[0].ID)

	page, err = f.svc.List(ctx, domain.ListOrderRequest{CustomerName: "JOHNSON", OrderBy: "totalAmount"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.Order.ID, page.Items[0].ID)

	page, err = f.svc.List(ctx, domain.ListOrderRequest{CustomerName: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = f.svc.List(ctx, domain.ListOrderRequest{ProductID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestGetOrderNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), "77")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetByID(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
