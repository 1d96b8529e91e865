package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// QueryConfig tunes list queries served by the API.
type QueryConfig struct {
	LowStockThreshold int `mapstructure:"lowStockThreshold"`
	DefaultPageSize   int `mapstructure:"defaultPageSize"`
	MaxPageSize       int `mapstructure:"maxPageSize"`
}

func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		LowStockThreshold: 10,
		DefaultPageSize:   20,
		MaxPageSize:       100,
	}
}

// QueryConfigHolder keeps the latest valid QueryConfig and replaces it when
// the backing file changes.
type QueryConfigHolder struct {
	current atomic.Value // holds QueryConfig
}

// NewStaticQueryConfigHolder returns a holder pinned to cfg.
func NewStaticQueryConfigHolder(cfg QueryConfig) *QueryConfigHolder {
	holder := &QueryConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewQueryConfigHolder(log *zap.Logger) (*QueryConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("query")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/crm")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultQueryConfig()
	v.SetDefault("query.lowStockThreshold", defaults.LowStockThreshold)
	v.SetDefault("query.defaultPageSize", defaults.DefaultPageSize)
	v.SetDefault("query.maxPageSize", defaults.MaxPageSize)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		watch = false
	}

	var cfg QueryConfig
	if err := v.UnmarshalKey("query", &cfg); err != nil {
		return nil, err
	}
	if err := validateQueryConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticQueryConfigHolder(cfg)
	if !watch {
		return holder, nil
	}

	log = log.Named("config.query")
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated QueryConfig
		if err := v.UnmarshalKey("query", &updated); err != nil {
			log.Warn("reload failed", zap.Error(err))
			return
		}
		if err := validateQueryConfig(updated); err != nil {
			log.Warn("invalid config ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// Get is safe on a nil holder and then returns the defaults.
func (h *QueryConfigHolder) Get() QueryConfig {
	if h == nil {
		return DefaultQueryConfig()
	}
	cfg, ok := h.current.Load().(QueryConfig)
	if !ok {
		return DefaultQueryConfig()
	}
	return cfg
}

// PageSize clamps a requested page size into [1, MaxPageSize].
func (c QueryConfig) PageSize(requested int) int {
	if requested <= 0 {
		return c.DefaultPageSize
	}
	if requested > c.MaxPageSize {
		return c.MaxPageSize
	}
	return requested
}

func validateQueryConfig(cfg QueryConfig) error {
	if cfg.LowStockThreshold < 0 {
		return errors.New("query.lowStockThreshold cannot be negative")
	}
	if cfg.DefaultPageSize < 1 {
		return errors.New("query.defaultPageSize must be at least 1")
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		return errors.New("query.maxPageSize cannot be below query.defaultPageSize")
	}
	return nil
}
