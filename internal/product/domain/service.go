package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/crm/pkg/db/pagination"
)

type CreateProductInput struct {
	Name  string `validate:"max=255"`
	Price decimal.Decimal
	Stock int
}

type CreateProductResult struct {
	Product *Product
	Success bool
	Errors  []string
}

type ListProductRequest struct {
	PageToken string
	PageSize  int
	OrderBy   string
	Name      string
	PriceMin  *decimal.Decimal
	PriceMax  *decimal.Decimal
	StockMin  *int
	StockMax  *int
	LowStock  bool
}

// ListProductFilter narrows a listing. StockBelow keeps products whose stock
// is strictly lower than the value.
type ListProductFilter struct {
	Name       string
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	StockMin   *int
	StockMax   *int
	StockBelow *int
}

type Service interface {
	Create(ctx context.Context, req CreateProductInput) CreateProductResult
	List(ctx context.Context, req ListProductRequest) (pagination.Page[Product], error)
	GetByID(ctx context.Context, id string) (Product, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidOrderBy = errors.New("invalid_order_by")
	ErrNotFound       = errors.New("not_found")
)
