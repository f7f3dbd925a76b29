package shop

import (
	"time"

	"chapkhane/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{StatusNew, StatusProcessing, StatusCompleted, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Source is the channel an order came in through.
type Source string

const (
	SourceWeb      Source = "web"
	SourceTelegram Source = "telegram"
)

type Customer struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	TelegramChatID int64  `json:"telegram_chat_id,omitempty"`
}

// Order is a priced print job. Quote is the server-side snapshot taken when
// the order was placed.
type Order struct {
	ID        uuid.UUID         `json:"id"`
	Spec      pricing.OrderSpec `json:"spec"`
	Quote     pricing.Quote     `json:"quote"`
	Customer  Customer          `json:"customer"`
	Notes     string            `json:"notes,omitempty"`
	Status    OrderStatus       `json:"status"`
	Source    Source            `json:"source"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ShortID is the order number shown to people.
func (o Order) ShortID() string {
	return o.ID.String()[:8]
}

// Offering is a service advertised on the marketing pages.
type Offering struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Slug          string          `json:"slug" db:"slug"`
	TitleFa       string          `json:"title_fa" db:"title_fa"`
	TitleEn       string          `json:"title_en" db:"title_en"`
	DescriptionFa string          `json:"description_fa,omitempty" db:"description_fa"`
	DescriptionEn string          `json:"description_en,omitempty" db:"description_en"`
	StartingPrice decimal.Decimal `json:"starting_price" db:"starting_price"`
	Active        bool            `json:"active" db:"active"`
	SortOrder     int             `json:"sort_order" db:"sort_order"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Message is a contact-form submission.
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email,omitempty" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Subject   string    `json:"subject,omitempty" db:"subject"`
	Body      string    `json:"body" db:"body"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type OrderFilter struct {
	Status OrderStatus
	Limit  int
}

type Stats struct {
	TotalOrders    int                 `json:"total_orders"`
	ByStatus       map[OrderStatus]int `json:"by_status"`
	Revenue        decimal.Decimal     `json:"revenue"`
	TodayOrders    int                 `json:"today_orders"`
	TodayRevenue   decimal.Decimal     `json:"today_revenue"`
	UnreadMessages int                 `json:"unread_messages"`
}
