package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/pkg/db"
	"gorm.io/gorm"
)

var productSort = db.Sort{
	Columns: map[string]string{
		"name":  "name",
		"price": "price",
		"stock": "stock",
	},
	Default:  "name ASC",
	Tiebreak: "id",
}

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, product *domain.Product) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO products (id, name, price, stock)
		 VALUES (?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Price,
		product.Stock,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var p domain.Product
	err := conn.WithContext(ctx).Raw(
		`SELECT id, name, price, stock
		 FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListProductFilter, orderBy string, offset, limit int) ([]domain.Product, error) {
	order, err := productSort.Clause(orderBy)
	if err != nil {
		return nil, domain.ErrInvalidOrderBy
	}

	var products []domain.Product
	err = applyFilter(conn.WithContext(ctx).Model(&domain.Product{}), filter).
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, filter domain.ListProductFilter) (int64, error) {
	var count int64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Product{}), filter).Count(&count).Error
	return count, err
}

func applyFilter(stmt *gorm.DB, filter domain.ListProductFilter) *gorm.DB {
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", db.ContainsPattern(filter.Name))
	}
	if filter.PriceMin != nil {
		stmt = stmt.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		stmt = stmt.Where("price <= ?", *filter.PriceMax)
	}
	if filter.StockMin != nil {
		stmt = stmt.Where("stock >= ?", *filter.StockMin)
	}
	if filter.StockMax != nil {
		stmt = stmt.Where("stock <= ?", *filter.StockMax)
	}
	if filter.StockBelow != nil {
		stmt = stmt.Where("stock < ?", *filter.StockBelow)
	}
	return stmt
}
