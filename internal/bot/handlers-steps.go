package bot

import (
	"context"
	"errors"
	"fmt"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"
	"chapkhane/internal/storage/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleCustomSize(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	width, height, err := parseDimensions(msg.Text)
	if err != nil {
		b.sendError(chatID, textBadDimensions)
		return
	}

	err = b.state.UpdateDraft(ctx, chatID, StepMaterial, func(d *redis.Draft) error {
		d.Spec.PaperSize = pricing.CustomSize
		d.Spec.CustomWidth = &width
		d.Spec.CustomHeight = &height
		return nil
	})
	if err != nil {
		b.logger.Error("Failed to save custom size",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, textInternalError)
		return
	}
	b.askDimension(chatID, pricing.DimensionMaterial, nil)
}

func (b *Bot) handleQuantityText(ctx context.Context, msg *tgbotapi.Message) {
	n, err := parseQuantity(msg.Text)
	if err != nil {
		b.sendError(msg.Chat.ID, textBadQuantity)
		return
	}
	b.setQuantity(ctx, msg.Chat.ID, n)
}

func (b *Bot) handleContactText(ctx context.Context, msg *tgbotapi.Message) {
	if !shop.IsValidPhoneNumber(msg.Text) {
		b.sendError(msg.Chat.ID, textBadPhone)
		return
	}
	b.placeOrder(ctx, msg.Chat.ID, fullName(msg.From), msg.Text)
}

func (b *Bot) handleContactShared(ctx context.Context, msg *tgbotapi.Message) {
	c := msg.Contact
	name := fullName(&tgbotapi.User{FirstName: c.FirstName, LastName: c.LastName})
	if name == "" {
		name = fullName(msg.From)
	}
	b.placeOrder(ctx, msg.Chat.ID, name, c.PhoneNumber)
}

func (b *Bot) placeOrder(ctx context.Context, chatID int64, name, phone string) {
	state, err := b.state.GetUserDialogState(ctx, chatID)
	if err != nil || state.Draft == nil {
		b.sendError(chatID, textInternalError)
		return
	}
	if name == "" {
		name = "مشتری تلگرام"
	}

	order, err := b.shop.PlaceOrder(ctx, shop.OrderRequest{
		Spec: state.Draft.Spec,
		Customer: shop.Customer{
			Name:           name,
			Phone:          phone,
			TelegramChatID: chatID,
		},
		Notes:     state.Draft.Notes,
		Source:    shop.SourceTelegram,
		ClientKey: clientKey(chatID),
	})
	if err != nil {
		var inputErr *shop.InputError
		switch {
		case errors.As(err, &inputErr) && inputErr.Field == "customer.phone":
			b.sendError(chatID, textBadPhone)
		case errors.Is(err, shop.ErrRateLimited):
			b.sendError(chatID, textRateLimited)
		case pricing.IsInvalid(err), pricing.IsIncomplete(err):
			b.handleQuoteError(ctx, chatID, err)
		default:
			b.logger.Error("Failed to place order",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			b.sendError(chatID, textInternalError)
		}
		return
	}

	if err := b.state.SetUserData(ctx, chatID, order.Customer.Name, order.Customer.Phone); err != nil {
		b.logger.Warn("Failed to remember contact", zap.Error(err))
	}
	if err := b.state.ResetDialogState(ctx, chatID, StepIdle); err != nil {
		b.logger.Warn("Failed to reset dialog state", zap.Error(err))
	}

	b.sendText(chatID, fmt.Sprintf(
		"✅ سفارش شما با شماره #%s ثبت شد.\n💰 مبلغ نهایی: %s\n\nبه‌زودی برای هماهنگی با شما تماس می‌گیریم.",
		order.ShortID(), formatPrice(order.Quote.FinalTotal, order.Quote.Currency),
	), tgbotapi.NewRemoveKeyboard(true))
}
