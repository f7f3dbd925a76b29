package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// orderRow mirrors the orders table. Spec and quote are JSONB snapshots; the
// scalar copies exist for indexing and reports.
type orderRow struct {
	ID             uuid.UUID       `db:"id"`
	Status         string          `db:"status"`
	Source         string          `db:"source"`
	CustomerName   string          `db:"customer_name"`
	CustomerPhone  string          `db:"customer_phone"`
	CustomerEmail  string          `db:"customer_email"`
	TelegramChatID int64           `db:"telegram_chat_id"`
	Notes          string          `db:"notes"`
	Quantity       int             `db:"quantity"`
	FinalTotal     decimal.Decimal `db:"final_total"`
	Spec           []byte          `db:"spec"`
	Quote          []byte          `db:"quote"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

func newOrderRow(o *shop.Order) (orderRow, error) {
	spec, err := json.Marshal(o.Spec)
	if err != nil {
		return orderRow{}, fmt.Errorf("marshal spec: %w", err)
	}
	quote, err := json.Marshal(o.Quote)
	if err != nil {
		return orderRow{}, fmt.Errorf("marshal quote: %w", err)
	}
	return orderRow{
		ID:             o.ID,
		Status:         string(o.Status),
		Source:         string(o.Source),
		CustomerName:   o.Customer.Name,
		CustomerPhone:  o.Customer.Phone,
		CustomerEmail:  o.Customer.Email,
		TelegramChatID: o.Customer.TelegramChatID,
		Notes:          o.Notes,
		Quantity:       o.Quote.Quantity,
		FinalTotal:     o.Quote.FinalTotal,
		Spec:           spec,
		Quote:          quote,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}, nil
}

func (r orderRow) order() (shop.Order, error) {
	var spec pricing.OrderSpec
	if err := json.Unmarshal(r.Spec, &spec); err != nil {
		return shop.Order{}, fmt.Errorf("order %s: unmarshal spec: %w", r.ID, err)
	}
	var quote pricing.Quote
	if err := json.Unmarshal(r.Quote, &quote); err != nil {
		return shop.Order{}, fmt.Errorf("order %s: unmarshal quote: %w", r.ID, err)
	}
	return shop.Order{
		ID:    r.ID,
		Spec:  spec,
		Quote: quote,
		Customer: shop.Customer{
			Name:           r.CustomerName,
			Phone:          r.CustomerPhone,
			Email:          r.CustomerEmail,
			TelegramChatID: r.TelegramChatID,
		},
		Notes:     r.Notes,
		Status:    shop.OrderStatus(r.Status),
		Source:    shop.Source(r.Source),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

const orderColumns = `id, status, source, customer_name, customer_phone, customer_email,
	telegram_chat_id, notes, quantity, final_total, spec, quote, created_at, updated_at`

func (r *OrderRepository) Save(ctx context.Context, order *shop.Order) error {
	row, err := newOrderRow(order)
	if err != nil {
		return fmt.Errorf("storage.OrderRepository.Save: %w", err)
	}

	const query = `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (:id, :status, :source, :customer_name, :customer_phone, :customer_email,
			:telegram_chat_id, :notes, :quantity, :final_total, :spec, :quote, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*shop.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var row orderRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, notFound("order", id, err)
	}
	order, err := row.order()
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, filter shop.OrderFilter) ([]shop.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	orders := make([]shop.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.order()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// FindByIDPrefix matches on the text form of the id. prefix is validated hex,
// so it carries no LIKE wildcards.
func (r *OrderRepository) FindByIDPrefix(ctx context.Context, prefix string, limit int) ([]shop.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders
		WHERE id::text LIKE $1 || '%' ORDER BY created_at DESC LIMIT $2`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, query, prefix, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch orders by prefix: %w", err)
	}
	orders := make([]shop.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.order()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return requireAffected(res, "order", id)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status shop.OrderStatus, at time.Time) error {
	const query = `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, string(status), at, id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return requireAffected(res, "order", id)
}
