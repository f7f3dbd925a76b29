package bot

import (
	"context"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"
	"chapkhane/internal/storage/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Sender is the part of *tgbotapi.BotAPI the bot talks through.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var _ Sender = (*tgbotapi.BotAPI)(nil)

type StateManager interface {
	GetUserDialogState(ctx context.Context, chatID int64) (*redis.UserState, error)
	SetStep(ctx context.Context, chatID int64, step string) error
	UpdateDraft(ctx context.Context, chatID int64, step string, fn func(*redis.Draft) error) error
	SetUserData(ctx context.Context, chatID int64, name, phone string) error
	ResetDialogState(ctx context.Context, chatID int64, step string) error
	ClearState(ctx context.Context, chatID int64) error
}

// Shop is the storefront the bot sells through.
type Shop interface {
	Catalog() pricing.Catalog
	Quote(ctx context.Context, clientKey string, spec pricing.OrderSpec) (pricing.Quote, error)
	PlaceOrder(ctx context.Context, req shop.OrderRequest) (*shop.Order, error)
	ListOrders(ctx context.Context, filter shop.OrderFilter) ([]shop.Order, error)
	FindOrderByShortID(ctx context.Context, short string) (*shop.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status shop.OrderStatus) (*shop.Order, error)
	Stats(ctx context.Context) (*shop.Stats, error)
}

var _ Shop = (*shop.Service)(nil)
