package bot

import (
	"context"
	"fmt"

	"chapkhane/internal/shop"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var _ shop.OrderNotifier = (*Bot)(nil)

// OrderPlaced sends the order summary and its workbook to every admin.
func (b *Bot) OrderPlaced(ctx context.Context, order shop.Order) {
	if len(b.admins) == 0 {
		b.logger.Warn("Admin notifications disabled - no admin IDs configured")
		return
	}

	text := FormatOrderNotification(b.shop.Catalog(), order)
	for _, adminID := range b.admins {
		msg := tgbotapi.NewMessage(adminID, text)
		msg.ReplyMarkup = adminOrderKeyboard(order)
		if _, err := b.api.Send(msg); err != nil {
			b.logger.Error("Failed to send admin notification",
				zap.Int64("admin_id", adminID),
				zap.String("order_id", order.ID.String()),
				zap.Error(err))
			continue
		}
		b.sendOrderDocument(adminID, order)
	}
}

// OrderStatusChanged tells a Telegram customer about the new status.
func (b *Bot) OrderStatusChanged(ctx context.Context, order shop.Order, previous shop.OrderStatus) {
	chatID := order.Customer.TelegramChatID
	if chatID == 0 {
		return
	}
	text := fmt.Sprintf("ℹ️ وضعیت سفارش #%s تغییر کرد: %s", order.ShortID(), statusLabel(order.Status))
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("Failed to notify customer about status change",
			zap.Int64("chat_id", chatID),
			zap.String("from", string(previous)),
			zap.Error(err))
	}
}
