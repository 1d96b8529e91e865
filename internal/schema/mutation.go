package schema

import (
	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
)

func (r *resolver) mutation(t *types) *graphql.Object {
	errorsList := graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String)))

	payload := func(name, key string, node *graphql.Object) *graphql.Object {
		return graphql.NewObject(graphql.ObjectConfig{
			Name: name,
			Fields: graphql.Fields{
				key:       &graphql.Field{Type: node},
				"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
				"errors":  &graphql.Field{Type: errorsList},
			},
		})
	}

	bulkPayload := graphql.NewObject(graphql.ObjectConfig{
		Name: "BulkCreateCustomersPayload",
		Fields: graphql.Fields{
			"createdCustomers": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.customer)))},
			"errors":           &graphql.Field{Type: errorsList},
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer": &graphql.Field{
				Type: graphql.NewNonNull(payload("CreateCustomerPayload", "customer", t.customer)),
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"phone": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.createCustomer,
			},
			"bulkCreateCustomers": &graphql.Field{
				Type: graphql.NewNonNull(bulkPayload),
				Args: graphql.FieldConfigArgument{
					"customers": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.customerInput))),
					},
				},
				Resolve: r.bulkCreateCustomers,
			},
			"createProduct": &graphql.Field{
				Type: graphql.NewNonNull(payload("CreateProductPayload", "product", t.product)),
				Args: graphql.FieldConfigArgument{
					"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"price": &graphql.ArgumentConfig{Type: graphql.NewNonNull(decimalScalar)},
					"stock": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: r.createProduct,
			},
			"createOrder": &graphql.Field{
				Type: graphql.NewNonNull(payload("CreateOrderPayload", "order", t.order)),
				Args: graphql.FieldConfigArgument{
					"customerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"productIds": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
					},
					"orderDate": &graphql.ArgumentConfig{Type: graphql.DateTime},
				},
				Resolve: r.createOrder,
			},
		},
	})
}

func (r *resolver) createCustomer(p graphql.ResolveParams) (interface{}, error) {
	res := r.customers.Create(p.Context, customerdomain.CreateCustomerInput{
		Name:  argString(p.Args, "name"),
		Email: argString(p.Args, "email"),
		Phone: argStringPtr(p.Args, "phone"),
	})

	var customer interface{}
	if res.Customer != nil {
		customer = *res.Customer
	}
	return map[string]interface{}{
		"customer": customer,
		"success":  res.Success,
		"errors":   errorList(res.Errors),
	}, nil
}

func (r *resolver) bulkCreateCustomers(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["customers"].([]interface{})
	inputs := make([]customerdomain.CreateCustomerInput, 0, len(raw))
	for _, item := range raw {
		fields, _ := item.(map[string]interface{})
		inputs = append(inputs, customerdomain.CreateCustomerInput{
			Name:  argString(fields, "name"),
			Email: argString(fields, "email"),
			Phone: argStringPtr(fields, "phone"),
		})
	}

	res := r.customers.BulkCreate(p.Context, inputs)
	return map[string]interface{}{
		"createdCustomers": customersOrEmpty(res.CreatedCustomers),
		"errors":           errorList(res.Errors),
	}, nil
}

func (r *resolver) createProduct(p graphql.ResolveParams) (interface{}, error) {
	price, _ := p.Args["price"].(decimal.Decimal)
	res := r.products.Create(p.Context, productdomain.CreateProductInput{
		Name:  argString(p.Args, "name"),
		Price: price,
		Stock: argInt(p.Args, "stock"),
	})

	var product interface{}
	if res.Product != nil {
		product = *res.Product
	}
	return map[string]interface{}{
		"product": product,
		"success": res.Success,
		"errors":  errorList(res.Errors),
	}, nil
}

func (r *resolver) createOrder(p graphql.ResolveParams) (interface{}, error) {
	res := r.orders.Create(p.Context, orderdomain.CreateOrderInput{
		CustomerID: argString(p.Args, "customerId"),
		ProductIDs: argStrings(p.Args, "productIds"),
		OrderDate:  argTimePtr(p.Args, "orderDate"),
	})

	var order interface{}
	if res.Order != nil {
		order = *res.Order
	}
	return map[string]interface{}{
		"order":   order,
		"success": res.Success,
		"errors":  errorList(res.Errors),
	}, nil
}

func errorList(errs []string) []string {
	if errs == nil {
		return []string{}
	}
	return errs
}

func customersOrEmpty(items []customerdomain.Customer) []customerdomain.Customer {
	if items == nil {
		return []customerdomain.Customer{}
	}
	return items
}
