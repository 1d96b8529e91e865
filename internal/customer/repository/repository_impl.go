package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/customer/domain"
	"github.com/smallbiznis/crm/pkg/db"
	"gorm.io/gorm"
)

const insertBatchSize = 100

var customerSort = db.Sort{
	Columns: map[string]string{
		"name":       "name",
		"email":      "email",
		"phone":      "phone",
		"created_at": "created_at",
		"createdAt":  "created_at",
	},
	Default:  "created_at DESC",
	Tiebreak: "id",
}

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, customer *domain.Customer) error {
	return conn.WithContext(ctx).Exec(
		`INSERT INTO customers (id, name, email, phone, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.CreatedAt,
	).Error
}

func (r *repo) InsertBatch(ctx context.Context, conn *gorm.DB, customers []domain.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	return conn.WithContext(ctx).CreateInBatches(&customers, insertBatchSize).Error
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := conn.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, created_at
		 FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) ExistsByEmail(ctx context.Context, conn *gorm.DB, email string) (bool, error) {
	var count int64
	err := conn.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM customers WHERE email = ?`,
		email,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListCustomerFilter, orderBy string, offset, limit int) ([]domain.Customer, error) {
	order, err := customerSort.Clause(orderBy)
	if err != nil {
		return nil, domain.ErrInvalidOrderBy
	}

	var customers []domain.Customer
	err = applyFilter(conn.WithContext(ctx).Model(&domain.Customer{}), filter).
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB, filter domain.ListCustomerFilter) (int64, error) {
	var count int64
	err := applyFilter(conn.WithContext(ctx).Model(&domain.Customer{}), filter).Count(&count).Error
	return count, err
}

func applyFilter(stmt *gorm.DB, filter domain.ListCustomerFilter) *gorm.DB {
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", db.ContainsPattern(filter.Name))
	}
	if filter.Email != "" {
		stmt = stmt.Where("LOWER(email) LIKE ?", db.ContainsPattern(filter.Email))
	}
	if filter.PhonePattern != "" {
		stmt = stmt.Where("phone LIKE ?", db.PrefixPattern(filter.PhonePattern))
	}
	if filter.CreatedFrom != nil {
		stmt = stmt.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		stmt = stmt.Where("created_at <= ?", *filter.CreatedTo)
	}
	return stmt
}
