package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	InsertBatch(ctx context.Context, db *gorm.DB, customers []Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	ExistsByEmail(ctx context.Context, db *gorm.DB, email string) (bool, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter, orderBy string, offset, limit int) ([]Customer, error)
	Count(ctx context.Context, db *gorm.DB, filter ListCustomerFilter) (int64, error)
}
