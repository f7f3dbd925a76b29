package shop

import (
	"context"
	"time"

	"chapkhane/internal/pricing"

	"github.com/google/uuid"
)

// Repositories return ErrNotFound (possibly wrapped) for unknown ids.

type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, filter OrderFilter) ([]Order, error)
	// FindByIDPrefix returns up to limit orders whose id starts with prefix,
	// newest first. prefix is lowercase hex.
	FindByIDPrefix(ctx context.Context, prefix string, limit int) ([]Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus, at time.Time) error
}

type OfferingRepository interface {
	Save(ctx context.Context, offering *Offering) error
	FindByID(ctx context.Context, id uuid.UUID) (*Offering, error)
	List(ctx context.Context, activeOnly bool) ([]Offering, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MessageRepository interface {
	Save(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	List(ctx context.Context, unreadOnly bool) ([]Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// CatalogSource supplies the price tables the engine is rebuilt from.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (pricing.Catalog, error)
}

// CatalogCache is implemented by catalog sources that cache their reads.
// Invalidate is called before every reload.
type CatalogCache interface {
	Invalidate(ctx context.Context) error
}

// RateLimiter reports whether another request under key is allowed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// OrderNotifier is told about order lifecycle events. Calls are synchronous.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order Order)
	OrderStatusChanged(ctx context.Context, order Order, previous OrderStatus)
}
