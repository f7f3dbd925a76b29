package shop

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"chapkhane/internal/pricing"

	"go.uber.org/zap"
)

type Deps struct {
	Orders    OrderRepository
	Offerings OfferingRepository
	Messages  MessageRepository
	Catalogs  CatalogSource
	Limiter   RateLimiter
	Logger    *zap.Logger
	Now       func() time.Time
}

// Service is the storefront: it quotes, takes orders and keeps the marketing
// content and contact messages. The pricing engine is swapped atomically on
// catalog reload, so in-flight quotes finish on the engine they started with.
type Service struct {
	engine    atomic.Pointer[pricing.Engine]
	orders    OrderRepository
	offerings OfferingRepository
	messages  MessageRepository
	catalogs  CatalogSource
	limiter   RateLimiter
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.RWMutex
	notifiers []OrderNotifier
}

func NewService(engine *pricing.Engine, deps Deps) *Service {
	s := &Service{
		orders:    deps.Orders,
		offerings: deps.Offerings,
		messages:  deps.Messages,
		catalogs:  deps.Catalogs,
		limiter:   deps.Limiter,
		logger:    deps.Logger,
		now:       deps.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.engine.Store(engine)
	return s
}

// Subscribe registers a notifier for order events.
func (s *Service) Subscribe(n OrderNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

func (s *Service) Engine() *pricing.Engine {
	return s.engine.Load()
}

func (s *Service) Catalog() pricing.Catalog {
	return s.Engine().Catalog()
}

// ReloadCatalog rebuilds the engine from the catalog source, bypassing any
// cache in front of it. A catalog that fails validation leaves the current
// engine in place.
func (s *Service) ReloadCatalog(ctx context.Context) error {
	const operation = "shop.Service.ReloadCatalog"

	if s.catalogs == nil {
		return fmt.Errorf("%s: %w", operation, ErrNoCatalog)
	}
	if c, ok := s.catalogs.(CatalogCache); ok {
		if err := c.Invalidate(ctx); err != nil {
			return fmt.Errorf("%s: invalidate: %w", operation, err)
		}
	}
	catalog, err := s.catalogs.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("%s: load: %w", operation, err)
	}
	engine, err := pricing.NewEngine(catalog)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	s.engine.Store(engine)

	s.logger.Info("Catalog reloaded",
		zap.Int("paper_sizes", len(catalog.PaperSizes)),
		zap.Int("add_ons", len(catalog.AddOns)))
	return nil
}

// Quote prices spec. clientKey identifies the caller for rate limiting; an
// empty key skips the limiter.
func (s *Service) Quote(ctx context.Context, clientKey string, spec pricing.OrderSpec) (pricing.Quote, error) {
	if err := s.allow(ctx, "quote", clientKey); err != nil {
		return pricing.Quote{}, err
	}
	return s.Engine().Compute(spec)
}

func (s *Service) allow(ctx context.Context, action, clientKey string) error {
	if s.limiter == nil || clientKey == "" {
		return nil
	}
	ok, err := s.limiter.Allow(ctx, action+":"+clientKey)
	if err != nil {
		// fail open
		s.logger.Warn("Rate limiter unavailable",
			zap.String("action", action),
			zap.Error(err))
		return nil
	}
	if !ok {
		return ErrRateLimited
	}
	return nil
}

func (s *Service) notifyPlaced(ctx context.Context, order Order) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifiers {
		n.OrderPlaced(ctx, order)
	}
}

func (s *Service) notifyStatus(ctx context.Context, order Order, previous OrderStatus) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notifiers {
		n.OrderStatusChanged(ctx, order, previous)
	}
}
