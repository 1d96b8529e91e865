// Package seed loads the sample CRM data set. Records go through the mutation
// services so every validation rule applies to them.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("seed",
	fx.Provide(New),
)

type customerSeed struct {
	name  string
	email string
	phone *string
}

type productSeed struct {
	name  string
	price string
	stock int
}

var (
	sampleCustomers = []customerSeed{
		{name: "Alice Johnson", email: "alice@example.com", phone: strPtr("+1234567890")},
		{name: "Bob Smith", email: "bob@example.com", phone: strPtr("123-456-7890")},
		{name: "Carol White", email: "carol@example.com"},
	}
	sampleProducts = []productSeed{
		{name: "Laptop", price: "1200.00", stock: 5},
		{name: "Smartphone", price: "800.00", stock: 10},
		{name: "Headphones", price: "150.00", stock: 25},
	}
)

const productsPerOrder = 2

type Params struct {
	fx.In

	Log       *zap.Logger
	Customers customerdomain.Service
	Products  productdomain.Service
	Orders    orderdomain.Service
}

type Seeder struct {
	log       *zap.Logger
	customers customerdomain.Service
	products  productdomain.Service
	orders    orderdomain.Service
}

// Summary counts the rows a run created.
type Summary struct {
	Customers int
	Products  int
	Orders    int
}

func New(p Params) *Seeder {
	return &Seeder{
		log:       p.Log.Named("seed"),
		customers: p.Customers,
		products:  p.Products,
		orders:    p.Orders,
	}
}

// Run creates whatever part of the sample data is missing. Orders are only
// created when the store has none, so repeated runs are no-ops.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	customers := make([]customerdomain.Customer, 0, len(sampleCustomers))
	for _, item := range sampleCustomers {
		customer, created, err := s.ensureCustomer(ctx, item)
		if err != nil {
			return summary, err
		}
		if created {
			summary.Customers++
		}
		customers = append(customers, customer)
	}

	products := make([]productdomain.Product, 0, len(sampleProducts))
	for _, item := range sampleProducts {
		product, created, err := s.ensureProduct(ctx, item)
		if err != nil {
			return summary, err
		}
		if created {
			summary.Products++
		}
		products = append(products, product)
	}

	existing, err := s.orders.List(ctx, orderdomain.ListOrderRequest{PageSize: 1})
	if err != nil {
		return summary, fmt.Errorf("count orders: %w", err)
	}
	if existing.TotalCount == 0 {
		for i, customer := range customers {
			productIDs := make([]string, 0, productsPerOrder)
			for j := 0; j < productsPerOrder; j++ {
				productIDs = append(productIDs, products[(i+j)%len(products)].ID.String())
			}
			res := s.orders.Create(ctx, orderdomain.CreateOrderInput{
				CustomerID: customer.ID.String(),
				ProductIDs: productIDs,
			})
			if !res.Success {
				return summary, fmt.Errorf("seed order for %s: %s", customer.Email, strings.Join(res.Errors, "; "))
			}
			summary.Orders++
		}
	}

	s.log.Info("seed completed",
		zap.Int("customers_created", summary.Customers),
		zap.Int("products_created", summary.Products),
		zap.Int("orders_created", summary.Orders),
	)
	return summary, nil
}

func (s *Seeder) ensureCustomer(ctx context.Context, item customerSeed) (customerdomain.Customer, bool, error) {
	page, err := s.customers.List(ctx, customerdomain.ListCustomerRequest{Email: item.email})
	if err != nil {
		return customerdomain.Customer{}, false, fmt.Errorf("find customer %s: %w", item.email, err)
	}
	for _, c := range page.Items {
		if strings.EqualFold(c.Email, item.email) {
			return c, false, nil
		}
	}

	res := s.customers.Create(ctx, customerdomain.CreateCustomerInput{
		Name:  item.name,
		Email: item.email,
		Phone: item.phone,
	})
	if !res.Success || res.Customer == nil {
		return customerdomain.Customer{}, false, fmt.Errorf("seed customer %s: %s", item.email, strings.Join(res.Errors, "; "))
	}
	return *res.Customer, true, nil
}

func (s *Seeder) ensureProduct(ctx context.Context, item productSeed) (productdomain.Product, bool, error) {
	page, err := s.products.List(ctx, productdomain.ListProductRequest{Name: item.name})
	if err != nil {
		return productdomain.Product{}, false, fmt.Errorf("find product %s: %w", item.name, err)
	}
	for _, p := range page.Items {
		if p.Name == item.name {
			return p, false, nil
		}
	}

	price, err := decimal.NewFromString(item.price)
	if err != nil {
		return productdomain.Product{}, false, err
	}
	res := s.products.Create(ctx, productdomain.CreateProductInput{
		Name:  item.name,
		Price: price,
		Stock: item.stock,
	})
	if !res.Success || res.Product == nil {
		return productdomain.Product{}, false, fmt.Errorf("seed product %s: %s", item.name, strings.Join(res.Errors, "; "))
	}
	return *res.Product, true, nil
}

func strPtr(v string) *string {
	return &v
}
