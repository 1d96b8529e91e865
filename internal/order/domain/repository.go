package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	AttachProducts(ctx context.Context, db *gorm.DB, orderID snowflake.ID, productIDs []snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	List(ctx context.Context, db *gorm.DB, filter ListOrderFilter, orderBy string, offset, limit int) ([]Order, error)
	Count(ctx context.Context, db *gorm.DB, filter ListOrderFilter) (int64, error)
}
