package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/clock"
	customerrepo "github.com/smallbiznis/crm/internal/customer/repository"
	"github.com/smallbiznis/crm/internal/order/domain"
	"github.com/smallbiznis/crm/internal/order/repository"
	"github.com/smallbiznis/crm/internal/order/service"
	productrepo "github.com/smallbiznis/crm/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/DATA-DOG/go-sqlmock.v1"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockService(t *testing.T) (domain.Service, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	conn, err := gorm.Open(postgres.New(postgres.Config{Conn: sqldb}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	svc := service.New(service.Params{
		DB:           conn,
		Log:          zap.NewNop(),
		GenID:        node,
		Clock:        clock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		Repo:         repository.Provide(),
		CustomerRepo: customerrepo.Provide(),
		ProductRepo:  productrepo.Provide(),
	})
	return svc, mock
}

func expectResolution(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT (.+) FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "created_at"}).
			AddRow(int64(11), "Alice Johnson", "alice@example.com", nil, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	mock.ExpectQuery("SELECT (.+) FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock"}).
			AddRow(int64(21), "Laptop", "1200.00", int64(5)))
}

func TestCreateOrderRollsBackOnLinkFailure(t *testing.T) {
	svc, mock := newMockService(t)

	expectResolution(mock)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_products").WillReturnError(errors.New("link insert failed"))
	mock.ExpectRollback()

	res := svc.Create(context.Background(), domain.CreateOrderInput{CustomerID: "11", ProductIDs: []string{"21"}})

	assert.False(t, res.Success)
	assert.Equal(t, []string{"link insert failed"}, res.Errors)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateOrderCommitsOrderAndLinks(t *testing.T) {
	svc, mock := newMockService(t)

	expectResolution(mock)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_products").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res := svc.Create(context.Background(), domain.CreateOrderInput{CustomerID: "11", ProductIDs: []string{"21"}})

	require.True(t, res.Success, res.Errors)
	assert.Equal(t, "1200.00", res.Order.TotalAmount.StringFixed(2))
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestCreateOrderSkipsWritesWhenCustomerMissing(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM customers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "created_at"}))
	mock.ExpectQuery("SELECT (.+) FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock"}).
			AddRow(int64(21), "Laptop", "1200.00", int64(5)))

	res := svc.Create(context.Background(), domain.CreateOrderInput{CustomerID: "11", ProductIDs: []string{"21"}})

	assert.False(t, res.Success)
	assert.Equal(t, []string{"Invalid customer ID."}, res.Errors)
	assert.Nil(t, mock.ExpectationsWereMet())
}
