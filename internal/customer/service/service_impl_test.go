package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/customer/domain"
	"github.com/smallbiznis/crm/internal/customer/repository"
	"github.com/smallbiznis/crm/internal/customer/service"
	"github.com/smallbiznis/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   domain.Service
}

func newFixture(t *testing.T, repo domain.Repository) fixture {
	t.Helper()

	conn := testutil.NewDB(t)
	if repo == nil {
		repo = repository.Provide()
	}
	fake := clock.NewFakeClock(baseTime)
	svc := service.New(service.Params{
		DB:    conn,
		Log:   zaptest.NewLogger(t),
		GenID: testutil.NewNode(t),
		Clock: fake,
		Repo:  repo,
	})
	return fixture{db: conn, clock: fake, svc: svc}
}

func (f fixture) count(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&domain.Customer{}).Count(&count).Error)
	return count
}

func strPtr(v string) *string { return &v }

func TestCreateCustomerPersistsInput(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res := f.svc.Create(ctx, domain.CreateCustomerInput{
		Name:  "Alice Johnson",
		Email: "alice@example.com",
		Phone: strPtr("+1234567890"),
	})

	require.True(t, res.Success, res.Errors)
	assert.Empty(t, res.Errors)
	require.NotNil(t, res.Customer)
	assert.NotZero(t, res.Customer.ID)
	assert.True(t, res.Customer.CreatedAt.Equal(baseTime))

	stored, err := f.svc.GetByID(ctx, domain.GetCustomerRequest{ID: res.Customer.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", stored.Name)
	assert.Equal(t, "alice@example.com", stored.Email)
	require.NotNil(t, stored.Phone)
	assert.Equal(t, "+1234567890", *stored.Phone)
	assert.True(t, stored.CreatedAt.Equal(baseTime))
}

func TestCreateCustomerWithoutPhone(t *testing.T) {
	f := newFixture(t, nil)

	res := f.svc.Create(context.Background(), domain.CreateCustomerInput{Name: "Carol White", Email: "carol@example.com"})
	require.True(t, res.Success, res.Errors)
	assert.Nil(t, res.Customer.Phone)
}

func TestCreateCustomerAccumulatesErrors(t *testing.T) {
	f := newFixture(t, nil)

	res := f.svc.Create(context.Background(), domain.CreateCustomerInput{
		Name:  "Bad Input",
		Email: "not-an-email",
		Phone: strPtr("12345"),
	})

	assert.False(t, res.Success)
	assert.Nil(t, res.Customer)
	assert.Equal(t, []string{
		"Invalid email format.",
		"Invalid phone format. Expected +1234567890 or 123-456-7890.",
	}, res.Errors)
	assert.Equal(t, int64(0), f.count(t))
}

func TestCreateCustomerRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first := f.svc.Create(ctx, domain.CreateCustomerInput{Name: "Alice", Email: "alice@example.com"})
	require.True(t, first.Success)

	second := f.svc.Create(ctx, domain.CreateCustomerInput{Name: "Alice Again", Email: "alice@example.com"})
	assert.False(t, second.Success)
	assert.Equal(t, []string{"Email already exists."}, second.Errors)
	assert.Equal(t, int64(1), f.count(t))
}

func TestCreateCustomerRejectsBlankAndLongName(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res := f.svc.Create(ctx, domain.CreateCustomerInput{Name: "  ", Email: "blank@example.com"})
	assert.Equal(t, []string{"Name is required."}, res.Errors)

	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}
	res = f.svc.Create(ctx, domain.CreateCustomerInput{Name: string(long), Email: "long@example.com"})
	assert.Equal(t, []string{"Name must be at most 255 characters."}, res.Errors)
	assert.Equal(t, int64(0), f.count(t))
}

// staleExistsRepo reports every email as free, so the unique index is the
// only thing left to catch a duplicate.
type staleExistsRepo struct {
	domain.Repository
}

func (staleExistsRepo) ExistsByEmail(context.Context, *gorm.DB, string) (bool, error) {
	return false, nil
}

func TestCreateCustomerDuplicateCaughtAtInsert(t *testing.T) {
	f := newFixture(t, staleExistsRepo{Repository: repository.Provide()})
	ctx := context.Background()

	require.True(t, f.svc.Create(ctx, domain.CreateCustomerInput{Name: "Alice", Email: "alice@example.com"}).Success)

	res := f.svc.Create(ctx, domain.CreateCustomerInput{Name: "Racer", Email: "alice@example.com"})
	assert.False(t, res.Success)
	assert.Equal(t, []string{"Email already exists."}, res.Errors)
	assert.Equal(t, int64(1), f.count(t))
}

func TestBulkCreatePartialSuccess(t *testing.T) {
	f := newFixture(t, nil)

	res := f.svc.BulkCreate(context.Background(), []domain.CreateCustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Broken", Email: "broken"},
		{Name: "Bob", Email: "bob@example.com", Phone: strPtr("123-456-7890")},
	})

	assert.Equal(t, []string{"Entry 1: Invalid email format."}, res.Errors)
	require.Len(t, res.CreatedCustomers, 2)
	assert.Equal(t, "alice@example.com", res.CreatedCustomers[0].Email)
	assert.Equal(t, "bob@example.com", res.CreatedCustomers[1].Email)
	assert.Equal(t, int64(2), f.count(t))
}

func TestBulkCreatePrefixesEveryEntryError(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.True(t, f.svc.Create(ctx, domain.CreateCustomerInput{Name: "Alice", Email: "alice@example.com"}).Success)

	res := f.svc.BulkCreate(ctx, []domain.CreateCustomerInput{
		{Name: "Dup", Email: "alice@example.com"},
		{Name: "Bad", Email: "bad", Phone: strPtr("555")},
	})

	assert.Empty(t, res.CreatedCustomers)
	assert.Equal(t, []string{
		"Entry 0: Email already exists.",
		"Entry 1: Invalid email format.",
		"Entry 1: Invalid phone format. Expected +1234567890 or 123-456-7890.",
	}, res.Errors)
	assert.Equal(t, int64(1), f.count(t))
}

func TestBulkCreateRejectsRepeatedEmailInBatch(t *testing.T) {
	f := newFixture(t, nil)

	res := f.svc.BulkCreate(context.Background(), []domain.CreateCustomerInput{
		{Name: "First", Email: "same@example.com"},
		{Name: "Second", Email: "same@example.com"},
	})

	require.Len(t, res.CreatedCustomers, 1)
	assert.Equal(t, "First", res.CreatedCustomers[0].Name)
	assert.Equal(t, []string{"Entry 1: Email already exists."}, res.Errors)
	assert.Equal(t, int64(1), f.count(t))
}

func TestBulkCreateEmptyInput(t *testing.T) {
	f := newFixture(t, nil)

	res := f.svc.BulkCreate(context.Background(), nil)
	assert.NotNil(t, res.CreatedCustomers)
	assert.Empty(t, res.CreatedCustomers)
	assert.Empty(t, res.Errors)
}

// halfwayRepo writes the first customer and then fails, so the whole batch
// must be rolled back.
type halfwayRepo struct {
	domain.Repository
}

func (r halfwayRepo) InsertBatch(ctx context.Context, tx *gorm.DB, customers []domain.Customer) error {
	if err := r.Repository.Insert(ctx, tx, &customers[0]); err != nil {
		return err
	}
	return errors.New("batch insert failed")
}

func TestBulkCreateRollsBackWholeBatch(t *testing.T) {
	f := newFixture(t, halfwayRepo{Repository: repository.Provide()})

	res := f.svc.BulkCreate(context.Background(), []domain.CreateCustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Bob", Email: "bob@example.com"},
	})

	assert.Empty(t, res.CreatedCustomers)
	assert.Equal(t, []string{"batch insert failed"}, res.Errors)
	assert.Equal(t, int64(0), f.count(t))
}

func TestListCustomersFiltersAndPaginates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	inputs := []domain.CreateCustomerInput{
		{Name: "Alice Johnson", Email: "alice@example.com", Phone: strPtr("+1234567890")},
		{Name: "Bob Smith", Email: "bob@example.com", Phone: strPtr("123-456-7890")},
		{Name: "Carol White", Email: "carol@example.org"},
	}
	for _, in := range inputs {
		require.True(t, f.svc.Create(ctx, in).Success)
		f.clock.Advance(24 * time.Hour)
	}

	page, err := f.svc.List(ctx, domain.ListCustomerRequest{Name: "ali"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Alice Johnson", page.Items[0].Name)

	page, err = f.svc.List(ctx, domain.ListCustomerRequest{Email: "EXAMPLE.COM", OrderBy: "name"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.TotalCount)

	page, err = f.svc.List(ctx, domain.ListCustomerRequest{PhonePattern: "+1"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Alice Johnson", page.Items[0].Name)

	from := baseTime.Add(12 * time.Hour)
	page, err = f.svc.List(ctx, domain.ListCustomerRequest{CreatedFrom: &from, OrderBy: "created_at"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Bob Smith", page.Items[0].Name)

	first, err := f.svc.List(ctx, domain.ListCustomerRequest{PageSize: 2, OrderBy: "-name"})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)
	assert.Equal(t, "Carol White", first.Items[0].Name)

	second, err := f.svc.List(ctx, domain.ListCustomerRequest{PageSize: 2, OrderBy: "-name", PageToken: first.PageInfo().EndCursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.False(t, second.HasMore)
	assert.Equal(t, "Alice Johnson", second.Items[0].Name)
	assert.Equal(t, int64(3), second.TotalCount)
}

func TestListCustomersRejectsUnknownOrder(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.List(context.Background(), domain.ListCustomerRequest{OrderBy: "secret"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrderBy)
}

func TestGetCustomerErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.GetByID(ctx, domain.GetCustomerRequest{ID: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = f.svc.GetByID(ctx, domain.GetCustomerRequest{ID: "12345"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
