package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	"github.com/smallbiznis/crm/internal/customer/domain"
	obsmetrics "github.com/smallbiznis/crm/internal/observability/metrics"
	"github.com/smallbiznis/crm/internal/validation"
	"github.com/smallbiznis/crm/pkg/db"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	QueryCfg *config.QueryConfigHolder `optional:"true"`
	Metrics  *obsmetrics.Metrics       `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	queryCfg *config.QueryConfigHolder
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("customer.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		queryCfg: p.QueryCfg,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerInput) domain.CreateCustomerResult {
	start := time.Now()
	result := s.create(ctx, req)

	created := 0
	if result.Success {
		created = 1
	}
	s.metrics.RecordMutation(ctx, "createCustomer", obsmetrics.Outcome(created, len(result.Errors)), len(result.Errors), time.Since(start))
	s.metrics.RecordCreated(ctx, "customer", created)
	return result
}

func (s *Service) create(ctx context.Context, req domain.CreateCustomerInput) domain.CreateCustomerResult {
	errs := s.check(ctx, req)
	if len(errs) > 0 {
		return failure(errs)
	}

	customer := s.newCustomer(req)
	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return failure([]string{domain.MsgEmailExists})
		}
		s.log.Error("insert customer failed", zap.Error(err))
		return failure([]string{err.Error()})
	}

	return domain.CreateCustomerResult{Customer: &customer, Success: true, Errors: []string{}}
}

func (s *Service) BulkCreate(ctx context.Context, inputs []domain.CreateCustomerInput) domain.BulkCreateCustomersResult {
	start := time.Now()
	result := s.bulkCreate(ctx, inputs)

	s.metrics.RecordMutation(ctx, "bulkCreateCustomers",
		obsmetrics.Outcome(len(result.CreatedCustomers), len(result.Errors)),
		len(result.Errors), time.Since(start))
	s.metrics.RecordCreated(ctx, "customer", len(result.CreatedCustomers))
	return result
}

func (s *Service) bulkCreate(ctx context.Context, inputs []domain.CreateCustomerInput) domain.BulkCreateCustomersResult {
	result := domain.BulkCreateCustomersResult{
		CreatedCustomers: []domain.Customer{},
		Errors:           []string{},
	}

	pending := make([]domain.Customer, 0, len(inputs))
	claimed := make(map[string]struct{}, len(inputs))
	for i, input := range inputs {
		errs := s.check(ctx, input)
		if _, taken := claimed[input.Email]; taken && !slices.Contains(errs, domain.MsgEmailExists) {
			errs = append(errs, domain.MsgEmailExists)
		}
		if len(errs) > 0 {
			for _, msg := range errs {
				result.Errors = append(result.Errors, fmt.Sprintf("Entry %d: %s", i, msg))
			}
			continue
		}
		claimed[input.Email] = struct{}{}
		pending = append(pending, s.newCustomer(input))
	}

	if len(pending) == 0 {
		return result
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.InsertBatch(ctx, tx, pending)
	})
	if err != nil {
		msg := err.Error()
		if db.IsDuplicateKeyErr(err) {
			msg = domain.MsgEmailExists
		}
		s.log.Warn("bulk insert customers rolled back", zap.Int("pending", len(pending)), zap.Error(err))
		result.Errors = append(result.Errors, msg)
		return result
	}

	result.CreatedCustomers = pending
	return result
}

// check runs every rule against input and returns all failed messages.
func (s *Service) check(ctx context.Context, input domain.CreateCustomerInput) []string {
	errs := validation.Messages(
		validation.Name(input.Name),
		validation.Email(input.Email),
		validation.Phone(input.Phone),
	)
	errs = append(errs, validation.StructMessages(input)...)

	exists, err := s.repo.ExistsByEmail(ctx, s.db, input.Email)
	if err != nil {
		s.log.Error("check email uniqueness failed", zap.Error(err))
		return append(errs, err.Error())
	}
	if exists {
		errs = append(errs, domain.MsgEmailExists)
	}
	return errs
}

func (s *Service) newCustomer(input domain.CreateCustomerInput) domain.Customer {
	return domain.Customer{
		ID:        s.genID.Generate(),
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		CreatedAt: s.clock.Now().UTC(),
	}
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (pagination.Page[domain.Customer], error) {
	offset, err := pagination.StartOffset(req.PageToken)
	if err != nil {
		return pagination.Page[domain.Customer]{}, err
	}
	limit := s.queryCfg.Get().PageSize(req.PageSize)

	filter := domain.ListCustomerFilter{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PhonePattern: strings.TrimSpace(req.PhonePattern),
		CreatedFrom:  req.CreatedFrom,
		CreatedTo:    req.CreatedTo,
	}

	items, err := s.repo.List(ctx, s.db, filter, req.OrderBy, offset, limit+1)
	if err != nil {
		return pagination.Page[domain.Customer]{}, err
	}
	total, err := s.repo.Count(ctx, s.db, filter)
	if err != nil {
		return pagination.Page[domain.Customer]{}, err
	}

	return pagination.NewPage(items, offset, limit, total), nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func failure(errs []string) domain.CreateCustomerResult {
	return domain.CreateCustomerResult{Success: false, Errors: errs}
}
