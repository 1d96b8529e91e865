package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

const (
	MsgInvalidCustomer = "Invalid customer ID."
	MsgInvalidProduct  = "Invalid product ID: %s"
	MsgNoProducts      = "At least one product must be selected."
)

// CreateOrderInput carries ids as received from the client; ids that do not
// parse are reported the same way as ids that do not exist.
type CreateOrderInput struct {
	CustomerID string
	ProductIDs []string
	OrderDate  *time.Time
}

type CreateOrderResult struct {
	Order   *Order
	Success bool
	Errors  []string
}

type ListOrderRequest struct {
	PageToken    string
	PageSize     int
	OrderBy      string
	TotalMin     *decimal.Decimal
	TotalMax     *decimal.Decimal
	DateFrom     *time.Time
	DateTo       *time.Time
	CustomerName string
	ProductName  string
	ProductID    string
}

type ListOrderFilter struct {
	TotalMin     *decimal.Decimal
	TotalMax     *decimal.Decimal
	DateFrom     *time.Time
	DateTo       *time.Time
	CustomerName string
	ProductName  string
	ProductID    *snowflake.ID
}

type Service interface {
	Create(ctx context.Context, req CreateOrderInput) CreateOrderResult
	List(ctx context.Context, req ListOrderRequest) (pagination.Page[Order], error)
	GetByID(ctx context.Context, id string) (Order, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidOrderBy = errors.New("invalid_order_by")
	ErrNotFound       = errors.New("not_found")
)
