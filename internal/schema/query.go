package schema

import (
	"errors"

	"github.com/graphql-go/graphql"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
)

const helloMessage = "Hello, GraphQL!"

func (r *resolver) query(t *types) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.String,
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					return helloMessage, nil
				},
			},
			"customer": &graphql.Field{
				Type: t.customer,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.customer,
			},
			"product": &graphql.Field{
				Type: t.product,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.product,
			},
			"order": &graphql.Field{
				Type: t.order,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.order,
			},
			"allCustomers": &graphql.Field{
				Type: graphql.NewNonNull(t.customerConnection),
				Args: connectionArgs(graphql.FieldConfigArgument{
					"name":         &graphql.ArgumentConfig{Type: graphql.String},
					"email":        &graphql.ArgumentConfig{Type: graphql.String},
					"createdAtGte": &graphql.ArgumentConfig{Type: graphql.String},
					"createdAtLte": &graphql.ArgumentConfig{Type: graphql.String},
					"phonePattern": &graphql.ArgumentConfig{Type: graphql.String},
				}),
				Resolve: r.allCustomers,
			},
			"allProducts": &graphql.Field{
				Type: graphql.NewNonNull(t.productConnection),
				Args: connectionArgs(graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.String},
					"priceGte": &graphql.ArgumentConfig{Type: decimalScalar},
					"priceLte": &graphql.ArgumentConfig{Type: decimalScalar},
					"stockGte": &graphql.ArgumentConfig{Type: graphql.Int},
					"stockLte": &graphql.ArgumentConfig{Type: graphql.Int},
					"lowStock": &graphql.ArgumentConfig{Type: graphql.Boolean},
				}),
				Resolve: r.allProducts,
			},
			"allOrders": &graphql.Field{
				Type: graphql.NewNonNull(t.orderConnection),
				Args: connectionArgs(graphql.FieldConfigArgument{
					"totalAmountGte": &graphql.ArgumentConfig{Type: decimalScalar},
					"totalAmountLte": &graphql.ArgumentConfig{Type: decimalScalar},
					"orderDateGte":   &graphql.ArgumentConfig{Type: graphql.String},
					"orderDateLte":   &graphql.ArgumentConfig{Type: graphql.String},
					"customerName":   &graphql.ArgumentConfig{Type: graphql.String},
					"productName":    &graphql.ArgumentConfig{Type: graphql.String},
					"productId":      &graphql.ArgumentConfig{Type: graphql.ID},
				}),
				Resolve: r.allOrders,
			},
		},
	})
}

func (r *resolver) customer(p graphql.ResolveParams) (interface{}, error) {
	item, err := r.customers.GetByID(p.Context, customerdomain.GetCustomerRequest{ID: argString(p.Args, "id")})
	if errors.Is(err, customerdomain.ErrNotFound) || errors.Is(err, customerdomain.ErrInvalidID) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *resolver) product(p graphql.ResolveParams) (interface{}, error) {
	item, err := r.products.GetByID(p.Context, argString(p.Args, "id"))
	if errors.Is(err, productdomain.ErrNotFound) || errors.Is(err, productdomain.ErrInvalidID) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *resolver) order(p graphql.ResolveParams) (interface{}, error) {
	item, err := r.orders.GetByID(p.Context, argString(p.Args, "id"))
	if errors.Is(err, orderdomain.ErrNotFound) || errors.Is(err, orderdomain.ErrInvalidID) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *resolver) allCustomers(p graphql.ResolveParams) (interface{}, error) {
	from, err := argDate(p.Args, "createdAtGte", false)
	if err != nil {
		return nil, err
	}
	to, err := argDate(p.Args, "createdAtLte", true)
	if err != nil {
		return nil, err
	}

	page, err := r.customers.List(p.Context, customerdomain.ListCustomerRequest{
		PageToken:    argString(p.Args, "after"),
		PageSize:     argInt(p.Args, "first"),
		OrderBy:      argString(p.Args, "orderBy"),
		Name:         argString(p.Args, "name"),
		Email:        argString(p.Args, "email"),
		PhonePattern: argString(p.Args, "phonePattern"),
		CreatedFrom:  from,
		CreatedTo:    to,
	})
	if err != nil {
		return nil, err
	}
	return connectionOf(page), nil
}

func (r *resolver) allProducts(p graphql.ResolveParams) (interface{}, error) {
	page, err := r.products.List(p.Context, productdomain.ListProductRequest{
		PageToken: argString(p.Args, "after"),
		PageSize:  argInt(p.Args, "first"),
		OrderBy:   argString(p.Args, "orderBy"),
		Name:      argString(p.Args, "name"),
		PriceMin:  argDecimalPtr(p.Args, "priceGte"),
		PriceMax:  argDecimalPtr(p.Args, "priceLte"),
		StockMin:  argIntPtr(p.Args, "stockGte"),
		StockMax:  argIntPtr(p.Args, "stockLte"),
		LowStock:  argBool(p.Args, "lowStock"),
	})
	if err != nil {
		return nil, err
	}
	return connectionOf(page), nil
}

func (r *resolver) allOrders(p graphql.ResolveParams) (interface{}, error) {
	from, err := argDate(p.Args, "orderDateGte", false)
	if err != nil {
		return nil, err
	}
	to, err := argDate(p.Args, "orderDateLte", true)
	if err != nil {
		return nil, err
	}

	page, err := r.orders.List(p.Context, orderdomain.ListOrderRequest{
		PageToken:    argString(p.Args, "after"),
		PageSize:     argInt(p.Args, "first"),
		OrderBy:      argString(p.Args, "orderBy"),
		TotalMin:     argDecimalPtr(p.Args, "totalAmountGte"),
		TotalMax:     argDecimalPtr(p.Args, "totalAmountLte"),
		DateFrom:     from,
		DateTo:       to,
		CustomerName: argString(p.Args, "customerName"),
		ProductName:  argString(p.Args, "productName"),
		ProductID:    argString(p.Args, "productId"),
	})
	if err != nil {
		return nil, err
	}
	return connectionOf(page), nil
}
