package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/crm/internal/config"
	obsmetrics "github.com/smallbiznis/crm/internal/observability/metrics"
	"github.com/smallbiznis/crm/internal/product/domain"
	"github.com/smallbiznis/crm/internal/validation"
	"github.com/smallbiznis/crm/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pricePlaces matches the scale of the price column.
const pricePlaces = 2

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	QueryCfg *config.QueryConfigHolder `optional:"true"`
	Metrics  *obsmetrics.Metrics       `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	genID    *snowflake.Node
	queryCfg *config.QueryConfigHolder
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("product.service"),
		repo:     p.Repo,
		genID:    p.GenID,
		queryCfg: p.QueryCfg,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductInput) domain.CreateProductResult {
	start := time.Now()
	result := s.create(ctx, req)

	created := 0
	if result.Success {
		created = 1
	}
	s.metrics.RecordMutation(ctx, "createProduct", obsmetrics.Outcome(created, len(result.Errors)), len(result.Errors), time.Since(start))
	s.metrics.RecordCreated(ctx, "product", created)
	return result
}

func (s *Service) create(ctx context.Context, req domain.CreateProductInput) domain.CreateProductResult {
	price := req.Price.Round(pricePlaces)

	errs := validation.Messages(
		validation.Name(req.Name),
		validation.Price(price),
		validation.Stock(req.Stock),
	)
	errs = append(errs, validation.StructMessages(req)...)
	if len(errs) > 0 {
		return domain.CreateProductResult{Success: false, Errors: errs}
	}

	product := domain.Product{
		ID:    s.genID.Generate(),
		Name:  req.Name,
		Price: price,
		Stock: req.Stock,
	}
	if err := s.repo.Insert(ctx, s.db, &product); err != nil {
		s.log.Error("insert product failed", zap.Error(err))
		return domain.CreateProductResult{Success: false, Errors: []string{err.Error()}}
	}

	return domain.CreateProductResult{Product: &product, Success: true, Errors: []string{}}
}

func (s *Service) List(ctx context.Context, req domain.ListProductRequest) (pagination.Page[domain.Product], error) {
	offset, err := pagination.StartOffset(req.PageToken)
	if err != nil {
		return pagination.Page[domain.Product]{}, err
	}
	queryCfg := s.queryCfg.Get()
	limit := queryCfg.PageSize(req.PageSize)

	filter := domain.ListProductFilter{
		Name:     strings.TrimSpace(req.Name),
		PriceMin: req.PriceMin,
		PriceMax: req.PriceMax,
		StockMin: req.StockMin,
		StockMax: req.StockMax,
	}
	if req.LowStock {
		threshold := queryCfg.LowStockThreshold
		filter.StockBelow = &threshold
	}

	items, err := s.repo.List(ctx, s.db, filter, req.OrderBy, offset, limit+1)
	if err != nil {
		return pagination.Page[domain.Product]{}, err
	}
	total, err := s.repo.Count(ctx, s.db, filter)
	if err != nil {
		return pagination.Page[domain.Product]{}, err
	}

	return pagination.NewPage(items, offset, limit, total), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || productID <= 0 {
		return domain.Product{}, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if item == nil {
		return domain.Product{}, domain.ErrNotFound
	}
	return *item, nil
}
