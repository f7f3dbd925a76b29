package shop

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"chapkhane/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderRequest struct {
	Spec     pricing.OrderSpec `json:"spec"`
	Customer Customer          `json:"customer"`
	Notes    string            `json:"notes,omitempty"`
	Source   Source            `json:"-"`
	// ClientKey identifies the caller for rate limiting.
	ClientKey string `json:"-"`
}

const maxNotesLength = 2000

// PlaceOrder prices the request server-side and stores it as a new order.
func (s *Service) PlaceOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	const operation = "shop.Service.PlaceOrder"

	if err := s.allow(ctx, "order", req.ClientKey); err != nil {
		return nil, err
	}

	customer, err := normalizeCustomer(req.Customer)
	if err != nil {
		return nil, err
	}
	notes := strings.TrimSpace(req.Notes)
	if len([]rune(notes)) > maxNotesLength {
		return nil, invalidInput("notes", "is too long")
	}

	quote, err := s.Engine().Compute(req.Spec)
	if err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = SourceWeb
	}
	now := s.now()
	order := &Order{
		ID:        uuid.New(),
		Spec:      req.Spec,
		Quote:     quote,
		Customer:  customer,
		Notes:     notes,
		Status:    StatusNew,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("%s: save: %w", operation, err)
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("source", string(order.Source)),
		zap.Int("quantity", quote.Quantity),
		zap.String("final_total", quote.FinalTotal.String()))

	s.notifyPlaced(ctx, *order)
	return order, nil
}

func normalizeCustomer(c Customer) (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return c, invalidInput("customer.name", "is required")
	}
	if !IsValidPhoneNumber(c.Phone) {
		return c, invalidInput("customer.phone", "is not a valid phone number")
	}
	c.Phone = NormalizePhoneNumber(c.Phone)
	if c.Email != "" && !isValidEmail(c.Email) {
		return c, invalidInput("customer.email", "is not a valid address")
	}
	return c, nil
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("shop.Service.GetOrder: %w", err)
	}
	return order, nil
}

var shortIDPattern = regexp.MustCompile(`^[0-9a-f]{4,32}$`)

// FindOrderByShortID resolves the eight-character order number shown to
// customers and admins. A prefix shared by several orders is ErrAmbiguousID.
func (s *Service) FindOrderByShortID(ctx context.Context, short string) (*Order, error) {
	const operation = "shop.Service.FindOrderByShortID"

	if id, err := uuid.Parse(short); err == nil {
		return s.GetOrder(ctx, id)
	}
	short = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(short), "#"))
	if !shortIDPattern.MatchString(short) {
		return nil, fmt.Errorf("%s: order %s: %w", operation, short, ErrNotFound)
	}

	orders, err := s.orders.FindByIDPrefix(ctx, short, 2)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	switch len(orders) {
	case 0:
		return nil, fmt.Errorf("%s: order %s: %w", operation, short, ErrNotFound)
	case 1:
		return &orders[0], nil
	default:
		return nil, fmt.Errorf("%s: order %s: %w", operation, short, ErrAmbiguousID)
	}
}

func (s *Service) ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalidInput("status", "is unknown")
	}
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("shop.Service.ListOrders: %w", err)
	}
	return orders, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("shop.Service.DeleteOrder: %w", err)
	}
	s.logger.Info("Order deleted", zap.String("order_id", id.String()))
	return nil
}

// UpdateOrderStatus moves an order to status. Completed and cancelled orders
// are final; setting the current status again is a no-op.
func (s *Service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*Order, error) {
	const operation = "shop.Service.UpdateOrderStatus"

	if !status.Valid() {
		return nil, invalidInput("status", "is unknown")
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	if order.Status == status {
		return order, nil
	}
	if order.Status.Terminal() {
		return nil, fmt.Errorf("%s: %s -> %s: %w", operation, order.Status, status, ErrInvalidStatus)
	}

	now := s.now()
	if err := s.orders.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	previous := order.Status
	order.Status = status
	order.UpdatedAt = now

	s.logger.Info("Order status changed",
		zap.String("order_id", id.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)))

	s.notifyStatus(ctx, *order, previous)
	return order, nil
}

// Stats summarises orders and the contact inbox. Revenue excludes cancelled
// orders.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	const operation = "shop.Service.Stats"

	orders, err := s.orders.List(ctx, OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}

	stats := &Stats{
		ByStatus:     make(map[OrderStatus]int, len(OrderStatuses)),
		Revenue:      decimal.Zero,
		TodayRevenue: decimal.Zero,
	}
	now := s.now()
	y, m, d := now.Date()
	for _, o := range orders {
		stats.TotalOrders++
		stats.ByStatus[o.Status]++
		if o.Status == StatusCancelled {
			continue
		}
		stats.Revenue = stats.Revenue.Add(o.Quote.FinalTotal)
		oy, om, od := o.CreatedAt.In(now.Location()).Date()
		if oy == y && om == m && od == d {
			stats.TodayOrders++
			stats.TodayRevenue = stats.TodayRevenue.Add(o.Quote.FinalTotal)
		}
	}

	if s.messages != nil {
		unread, err := s.messages.List(ctx, true)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%s: messages: %w", operation, err)
		}
		stats.UnreadMessages = len(unread)
	}
	return stats, nil
}
