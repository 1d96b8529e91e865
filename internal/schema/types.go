package schema

import (
	"github.com/graphql-go/graphql"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

type types struct {
	pageInfo *graphql.Object

	customer *graphql.Object
	product  *graphql.Object
	order    *graphql.Object

	customerConnection *graphql.Object
	productConnection  *graphql.Object
	orderConnection    *graphql.Object

	customerInput *graphql.InputObject
}

func newTypes() *types {
	t := &types{}

	t.pageInfo = graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"endCursor":   &graphql.Field{Type: graphql.String},
		},
	})

	t.customer = graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id": field(graphql.NewNonNull(graphql.ID), func(c customerdomain.Customer) interface{} {
				return c.ID.String()
			}),
			"name": field(graphql.NewNonNull(graphql.String), func(c customerdomain.Customer) interface{} {
				return c.Name
			}),
			"email": field(graphql.NewNonNull(graphql.String), func(c customerdomain.Customer) interface{} {
				return c.Email
			}),
			"phone": field(graphql.String, func(c customerdomain.Customer) interface{} {
				if c.Phone == nil {
					return nil
				}
				return *c.Phone
			}),
			"createdAt": field(graphql.NewNonNull(graphql.DateTime), func(c customerdomain.Customer) interface{} {
				return c.CreatedAt
			}),
		},
	})

	t.product = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id": field(graphql.NewNonNull(graphql.ID), func(p productdomain.Product) interface{} {
				return p.ID.String()
			}),
			"name": field(graphql.NewNonNull(graphql.String), func(p productdomain.Product) interface{} {
				return p.Name
			}),
			"price": field(graphql.NewNonNull(decimalScalar), func(p productdomain.Product) interface{} {
				return p.Price
			}),
			"stock": field(graphql.NewNonNull(graphql.Int), func(p productdomain.Product) interface{} {
				return p.Stock
			}),
		},
	})

	t.order = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": field(graphql.NewNonNull(graphql.ID), func(o orderdomain.Order) interface{} {
				return o.ID.String()
			}),
			"customer": field(t.customer, func(o orderdomain.Order) interface{} {
				if o.Customer == nil {
					return nil
				}
				return *o.Customer
			}),
			"products": field(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.product))), func(o orderdomain.Order) interface{} {
				if o.Products == nil {
					return []productdomain.Product{}
				}
				return o.Products
			}),
			"orderDate": field(graphql.NewNonNull(graphql.DateTime), func(o orderdomain.Order) interface{} {
				return o.OrderDate
			}),
			"totalAmount": field(graphql.NewNonNull(decimalScalar), func(o orderdomain.Order) interface{} {
				return o.TotalAmount
			}),
		},
	})

	t.customerConnection = t.connection("Customer", t.customer)
	t.productConnection = t.connection("Product", t.product)
	t.orderConnection = t.connection("Order", t.order)

	t.customerInput = graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CustomerInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	return t
}

func (t *types) connection(name string, node *graphql.Object) *graphql.Object {
	edge := graphql.NewObject(graphql.ObjectConfig{
		Name: name + "Edge",
		Fields: graphql.Fields{
			"node":   &graphql.Field{Type: node},
			"cursor": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name + "Connection",
		Fields: graphql.Fields{
			"edges":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(edge)))},
			"pageInfo":   &graphql.Field{Type: graphql.NewNonNull(t.pageInfo)},
			"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})
}

// field resolves a value of T (or *T) held by the parent.
func field[T any](typ graphql.Output, get func(T) interface{}) *graphql.Field {
	return &graphql.Field{
		Type: typ,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			switch v := p.Source.(type) {
			case T:
				return get(v), nil
			case *T:
				if v == nil {
					return nil, nil
				}
				return get(*v), nil
			default:
				return nil, nil
			}
		},
	}
}

func connectionOf[T any](page pagination.Page[T]) map[string]interface{} {
	edges := make([]interface{}, 0, len(page.Items))
	for i := range page.Items {
		edges = append(edges, map[string]interface{}{
			"node":   page.Items[i],
			"cursor": page.CursorFor(i),
		})
	}

	info := page.PageInfo()
	var endCursor interface{}
	if info.EndCursor != "" {
		endCursor = info.EndCursor
	}

	return map[string]interface{}{
		"edges": edges,
		"pageInfo": map[string]interface{}{
			"hasNextPage": info.HasMore,
			"endCursor":   endCursor,
		},
		"totalCount": int(page.TotalCount),
	}
}
