// Package memory holds map-backed repositories used when no database is
// configured and in tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"chapkhane/internal/shop"
	"chapkhane/internal/storage/redis"

	"github.com/google/uuid"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]shop.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[uuid.UUID]shop.Order)}
}

func (r *OrderRepository) Save(_ context.Context, order *shop.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *OrderRepository) FindByID(_ context.Context, id uuid.UUID) (*shop.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, shop.ErrNotFound)
	}
	o = cloneOrder(o)
	return &o, nil
}

// List returns orders newest first.
func (r *OrderRepository) List(_ context.Context, filter shop.OrderFilter) ([]shop.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]shop.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *OrderRepository) FindByIDPrefix(_ context.Context, prefix string, limit int) ([]shop.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []shop.Order
	for id, o := range r.orders {
		if strings.HasPrefix(id.String(), prefix) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OrderRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order %s: %w", id, shop.ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id uuid.UUID, status shop.OrderStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, shop.ErrNotFound)
	}
	o.Status = status
	o.UpdatedAt = at
	r.orders[id] = o
	return nil
}

func cloneOrder(o shop.Order) shop.Order {
	if o.Spec.AddOns != nil {
		o.Spec.AddOns = append([]string(nil), o.Spec.AddOns...)
	}
	return o
}

type OfferingRepository struct {
	mu        sync.RWMutex
	offerings map[uuid.UUID]shop.Offering
}

func NewOfferingRepository() *OfferingRepository {
	return &OfferingRepository{offerings: make(map[uuid.UUID]shop.Offering)}
}

func (r *OfferingRepository) Save(_ context.Context, o *shop.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offerings[o.ID] = *o
	return nil
}

func (r *OfferingRepository) FindByID(_ context.Context, id uuid.UUID) (*shop.Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.offerings[id]
	if !ok {
		return nil, fmt.Errorf("offering %s: %w", id, shop.ErrNotFound)
	}
	return &o, nil
}

// List orders by SortOrder, then slug.
func (r *OfferingRepository) List(_ context.Context, activeOnly bool) ([]shop.Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]shop.Offering, 0, len(r.offerings))
	for _, o := range r.offerings {
		if activeOnly && !o.Active {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

func (r *OfferingRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offerings[id]; !ok {
		return fmt.Errorf("offering %s: %w", id, shop.ErrNotFound)
	}
	delete(r.offerings, id)
	return nil
}

type MessageRepository struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]shop.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{messages: make(map[uuid.UUID]shop.Message)}
}

func (r *MessageRepository) Save(_ context.Context, m *shop.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[m.ID] = *m
	return nil
}

func (r *MessageRepository) FindByID(_ context.Context, id uuid.UUID) (*shop.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, shop.ErrNotFound)
	}
	return &m, nil
}

func (r *MessageRepository) List(_ context.Context, unreadOnly bool) ([]shop.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]shop.Message, 0, len(r.messages))
	for _, m := range r.messages {
		if unreadOnly && m.Read {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MessageRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return fmt.Errorf("message %s: %w", id, shop.ErrNotFound)
	}
	delete(r.messages, id)
	return nil
}

func (r *MessageRepository) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return fmt.Errorf("message %s: %w", id, shop.ErrNotFound)
	}
	m.Read = true
	r.messages[id] = m
	return nil
}

// Limiter is a fixed-window limiter kept in process memory.
type Limiter struct {
	mu      sync.Mutex
	limit   int64
	window  time.Duration
	now     func() time.Time
	buckets map[string]bucket
}

type bucket struct {
	count int64
	reset time.Time
}

func NewLimiter(limit int64, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]bucket),
	}
}

func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	b := l.buckets[key]
	if !now.Before(b.reset) {
		b = bucket{reset: now.Add(l.window)}
	}
	b.count++
	l.buckets[key] = b
	return b.count <= l.limit, nil
}

// DialogStore keeps Telegram dialog state in process memory.
type DialogStore struct {
	mu     sync.Mutex
	states map[int64][]byte
}

func NewDialogStore() *DialogStore {
	return &DialogStore{states: make(map[int64][]byte)}
}

func (s *DialogStore) GetUserDialogState(_ context.Context, chatID int64) (*redis.UserState, error) {
	s.mu.Lock()
	data, ok := s.states[chatID]
	s.mu.Unlock()
	if !ok {
		return &redis.UserState{}, nil
	}
	var state redis.UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return &state, nil
}

func (s *DialogStore) SetUserDialogState(_ context.Context, chatID int64, state *redis.UserState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[chatID] = data
	return nil
}

func (s *DialogStore) DropUserDialogState(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, chatID)
	return nil
}
