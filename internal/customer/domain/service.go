package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/crm/pkg/db/pagination"
)

const MsgEmailExists = "Email already exists."

type CreateCustomerInput struct {
	Name  string  `validate:"max=255"`
	Email string  `validate:"max=254"`
	Phone *string `validate:"omitempty,max=20"`
}

type CreateCustomerResult struct {
	Customer *Customer
	Success  bool
	Errors   []string
}

// BulkCreateCustomersResult reports the customers persisted by a batch and
// the per-entry errors, each prefixed with "Entry {index}: ".
type BulkCreateCustomersResult struct {
	CreatedCustomers []Customer
	Errors           []string
}

type ListCustomerRequest struct {
	PageToken    string
	PageSize     int
	OrderBy      string
	Name         string
	Email        string
	PhonePattern string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

type ListCustomerFilter struct {
	Name         string
	Email        string
	PhonePattern string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

type GetCustomerRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateCustomerInput) CreateCustomerResult
	BulkCreate(context.Context, []CreateCustomerInput) BulkCreateCustomersResult
	List(context.Context, ListCustomerRequest) (pagination.Page[Customer], error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
}

var (
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidOrderBy = errors.New("invalid_order_by")
	ErrNotFound       = errors.New("not_found")
)
