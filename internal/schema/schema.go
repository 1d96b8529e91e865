// Package schema exposes the CRM services as a GraphQL schema.
package schema

import (
	"context"

	"github.com/graphql-go/graphql"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	orderdomain "github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("schema",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Customers customerdomain.Service
	Products  productdomain.Service
	Orders    orderdomain.Service
}

type resolver struct {
	customers customerdomain.Service
	products  productdomain.Service
	orders    orderdomain.Service
}

// Schema wraps the executable GraphQL schema.
type Schema struct {
	schema graphql.Schema
	log    *zap.Logger
}

// Request is a single GraphQL operation as sent over HTTP.
type Request struct {
	Query         string                 `json:"query" form:"query"`
	OperationName string                 `json:"operationName" form:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func New(p Params) (*Schema, error) {
	r := &resolver{
		customers: p.Customers,
		products:  p.Products,
		orders:    p.Orders,
	}
	t := newTypes()

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.query(t),
		Mutation: r.mutation(t),
	})
	if err != nil {
		return nil, err
	}

	return &Schema{schema: schema, log: p.Log.Named("schema")}, nil
}

// Execute runs req against the schema. Field errors are reported in the
// result, never as a Go error.
func (s *Schema) Execute(ctx context.Context, req Request) *graphql.Result {
	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	if result.HasErrors() {
		s.log.Debug("graphql errors",
			zap.String("operation", req.OperationName),
			zap.Int("count", len(result.Errors)),
		)
	}
	return result
}
