package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/crm/internal/clock"
	"github.com/smallbiznis/crm/internal/config"
	customerdomain "github.com/smallbiznis/crm/internal/customer/domain"
	obsmetrics "github.com/smallbiznis/crm/internal/observability/metrics"
	"github.com/smallbiznis/crm/internal/order/domain"
	productdomain "github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
	QueryCfg     *config.QueryConfigHolder `optional:"true"`
	Metrics      *obsmetrics.Metrics       `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
	queryCfg     *config.QueryConfigHolder
	metrics      *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("order.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
		queryCfg:     p.QueryCfg,
		metrics:      p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOrderInput) domain.CreateOrderResult {
	start := time.Now()
	result := s.create(ctx, req)

	created := 0
	if result.Success {
		created = 1
	}
	s.metrics.RecordMutation(ctx, "createOrder", obsmetrics.Outcome(created, len(result.Errors)), len(result.Errors), time.Since(start))
	s.metrics.RecordCreated(ctx, "order", created)
	return result
}

// create resolves the customer and every product before writing anything.
// All resolution failures are reported together; the order row and its
// product links are then written in a single transaction.
func (s *Service) create(ctx context.Context, req domain.CreateOrderInput) domain.CreateOrderResult {
	errs := []string{}

	customer, err := s.resolveCustomer(ctx, req.CustomerID)
	if err != nil {
		s.log.Error("resolve customer failed", zap.Error(err))
		errs = append(errs, err.Error())
	} else if customer == nil {
		errs = append(errs, domain.MsgInvalidCustomer)
	}

	products := make([]productdomain.Product, 0, len(req.ProductIDs))
	for _, raw := range uniqueIDs(req.ProductIDs) {
		product, err := s.resolveProduct(ctx, raw)
		if err != nil {
			s.log.Error("resolve product failed", zap.String("product_id", raw), zap.Error(err))
			errs = append(errs, err.Error())
			continue
		}
		if product == nil {
			errs = append(errs, fmt.Sprintf(domain.MsgInvalidProduct, raw))
			continue
		}
		products = append(products, *product)
	}

	if len(req.ProductIDs) == 0 {
		errs = append(errs, domain.MsgNoProducts)
	}

	if len(errs) > 0 {
		return domain.CreateOrderResult{Success: false, Errors: errs}
	}

	orderDate := s.clock.Now().UTC()
	if req.OrderDate != nil {
		orderDate = req.OrderDate.UTC()
	}

	order := domain.Order{
		ID:          s.genID.Generate(),
		CustomerID:  customer.ID,
		OrderDate:   orderDate,
		TotalAmount: totalOf(products),
	}
	productIDs := make([]snowflake.ID, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &order); err != nil {
			return err
		}
		return s.repo.AttachProducts(ctx, tx, order.ID, productIDs)
	})
	if err != nil {
		s.log.Error("create order rolled back", zap.String("order_id", order.ID.String()), zap.Error(err))
		return domain.CreateOrderResult{Success: false, Errors: []string{err.Error()}}
	}

	order.Customer = customer
	order.Products = products
	return domain.CreateOrderResult{Order: &order, Success: true, Errors: []string{}}
}

// resolveCustomer returns nil without error when raw is not a known id.
func (s *Service) resolveCustomer(ctx context.Context, raw string) (*customerdomain.Customer, error) {
	id, ok := parseID(raw)
	if !ok {
		return nil, nil
	}
	return s.customerRepo.FindByID(ctx, s.db, id)
}

func (s *Service) resolveProduct(ctx context.Context, raw string) (*productdomain.Product, error) {
	id, ok := parseID(raw)
	if !ok {
		return nil, nil
	}
	return s.productRepo.FindByID(ctx, s.db, id)
}

func (s *Service) List(ctx context.Context, req domain.ListOrderRequest) (pagination.Page[domain.Order], error) {
	offset, err := pagination.StartOffset(req.PageToken)
	if err != nil {
		return pagination.Page[domain.Order]{}, err
	}
	limit := s.queryCfg.Get().PageSize(req.PageSize)

	filter := domain.ListOrderFilter{
		TotalMin:     req.TotalMin,
		TotalMax:     req.TotalMax,
		DateFrom:     req.DateFrom,
		DateTo:       req.DateTo,
		CustomerName: strings.TrimSpace(req.CustomerName),
		ProductName:  strings.TrimSpace(req.ProductName),
	}
	if raw := strings.TrimSpace(req.ProductID); raw != "" {
		id, ok := parseID(raw)
		if !ok {
			return pagination.Page[domain.Order]{}, domain.ErrInvalidID
		}
		filter.ProductID = &id
	}

	items, err := s.repo.List(ctx, s.db, filter, req.OrderBy, offset, limit+1)
	if err != nil {
		return pagination.Page[domain.Order]{}, err
	}
	total, err := s.repo.Count(ctx, s.db, filter)
	if err != nil {
		return pagination.Page[domain.Order]{}, err
	}

	return pagination.NewPage(items, offset, limit, total), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Order, error) {
	orderID, ok := parseID(id)
	if !ok {
		return domain.Order{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if item == nil {
		return domain.Order{}, domain.ErrNotFound
	}
	return *item, nil
}

func totalOf(products []productdomain.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}

// uniqueIDs drops repeated ids, keeping first occurrences in order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		key := strings.TrimSpace(id)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, id)
	}
	return out
}

func parseID(value string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
