package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/order/domain"
	"github.com/smallbiznis/crm/pkg/db"
	"gorm.io/gorm"
)

var orderSort = db.Sort{
	Columns: map[string]string{
		"total_amount": "orders.total_amount",
		"totalAmount":  "orders.total_amount",
		"order_date":   "orders.order_date",
		"orderDate":    "orders.order_date",
	},
	Default:  "orders.order_date DESC",
	Tiebreak: "orders.id",
}

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, order *domain.Order) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO orders (id, customer_id, order_date, total_amount)
		 VALUES (?, ?, ?, ?)`,
		order.ID,
		order.CustomerID,
		order.OrderDate,
		order.TotalAmount,
	).Error
}

func (r *repo) AttachProducts(ctx context.Context, conn *gorm.DB, orderID snowflake.ID, productIDs []snowflake.ID) error {
	if len(productIDs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(productIDs))
	args := make([]any, 0, len(productIDs)*2)
	for _, productID := range productIDs {
		placeholders = append(placeholders, "(?, ?)")
		args = append(args, orderID, productID)
	}

	return conn.WithContext(ctx).Exec(
		`INSERT INTO order_products (order_id, product_id) VALUES `+strings.Join(placeholders, ", "),
		args...,
	).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var orders []domain.Order
	err := withRelations(conn.WithContext(ctx)).
		Where("orders.id = ?", id).
		Limit(1).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListOrderFilter, orderBy string, offset, limit int) ([]domain.Order, error) {
	order, err := orderSort.Clause(orderBy)
	if err != nil {
		return nil, domain.ErrInvalidOrderBy
	}

	var orders []domain.Order
	err = applyFilter(withRelations(conn.WithContext(ctx)).Model(&domain.Order{}), filter).
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, filter domain.ListOrderFilter) (int64, error) {
	var count int64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Order{}), filter).Count(&count).Error
	return count, err
}

func withRelations(stmt *gorm.DB) *gorm.DB {
	return stmt.Preload("Customer").Preload("Products")
}

func applyFilter(stmt *gorm.DB, filter domain.ListOrderFilter) *gorm.DB {
	if filter.TotalMin != nil {
		stmt = stmt.Where("orders.total_amount >= ?", *filter.TotalMin)
	}
	if filter.TotalMax != nil {
		stmt = stmt.Where("orders.total_amount <= ?", *filter.TotalMax)
	}
	if filter.DateFrom != nil {
		stmt = stmt.Where("orders.order_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		stmt = stmt.Where("orders.order_date <= ?", *filter.DateTo)
	}
	if filter.CustomerName != "" {
		stmt = stmt.Where(
			"orders.customer_id IN (SELECT c.id FROM customers c WHERE LOWER(c.name) LIKE ?)",
			db.ContainsPattern(filter.CustomerName),
		)
	}
	if filter.ProductName != "" {
		stmt = stmt.Where(
			`orders.id IN (SELECT op.order_id FROM order_products op
			 JOIN products p ON p.id = op.product_id WHERE LOWER(p.name) LIKE ?)`,
			db.ContainsPattern(filter.ProductName),
		)
	}
	if filter.ProductID != nil {
		stmt = stmt.Where("orders.id IN (SELECT op.order_id FROM order_products op WHERE op.product_id = ?)", *filter.ProductID)
	}
	return stmt
}
