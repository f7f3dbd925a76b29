package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chapkhane/internal/shop"
	"chapkhane/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd string, args []string) {
	switch cmd {
	case "export":
		if len(args) == 0 {
			b.handleExportAllOrders(ctx, chatID)
			return
		}
		b.handleExportSingleOrder(ctx, chatID, args[0])
	case "stats":
		b.handleOrderStats(ctx, chatID)
	case "status":
		if len(args) < 2 {
			b.sendError(chatID, textStatusUsage)
			return
		}
		b.handleStatusUpdate(ctx, chatID, args[0], shop.OrderStatus(strings.ToLower(args[1])))
	}
}

func (b *Bot) handleStatusUpdate(ctx context.Context, chatID int64, shortID string, status shop.OrderStatus) {
	if !status.Valid() {
		b.sendError(chatID, textBadStatus)
		return
	}
	order, err := b.shop.FindOrderByShortID(ctx, shortID)
	if err != nil {
		b.reportOrderError(chatID, err)
		return
	}
	b.setStatus(ctx, chatID, order.ID, status)
}

func (b *Bot) handleStatusButton(ctx context.Context, cq *tgbotapi.CallbackQuery, args []string) {
	chatID := cq.Message.Chat.ID
	if !b.isAdmin(chatID) || len(args) != 2 {
		b.answer(cq, textStaleButton)
		return
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		b.answer(cq, textStaleButton)
		return
	}
	b.answer(cq, "")
	b.setStatus(ctx, chatID, id, shop.OrderStatus(args[1]))
}

func (b *Bot) setStatus(ctx context.Context, chatID int64, id uuid.UUID, status shop.OrderStatus) {
	order, err := b.shop.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		b.reportOrderError(chatID, err)
		return
	}
	b.sendText(chatID, fmt.Sprintf("✅ وضعیت سفارش #%s: %s", order.ShortID(), statusLabel(order.Status)), nil)
}

func (b *Bot) reportOrderError(chatID int64, err error) {
	switch {
	case errors.Is(err, shop.ErrNotFound):
		b.sendError(chatID, textOrderNotFound)
	case errors.Is(err, shop.ErrAmbiguousID):
		b.sendError(chatID, textOrderAmbiguous)
	case errors.Is(err, shop.ErrInvalidStatus):
		b.sendError(chatID, textOrderClosed)
	case errors.Is(err, shop.ErrInvalidInput):
		b.sendError(chatID, textBadStatus)
	default:
		b.logger.Error("Order operation failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, textInternalError)
	}
}

func (b *Bot) handleOrderStats(ctx context.Context, chatID int64) {
	stats, err := b.shop.Stats(ctx)
	if err != nil {
		b.logger.Error("Failed to get order statistics", zap.Error(err))
		b.sendError(chatID, textInternalError)
		return
	}

	currency := b.shop.Catalog().Currency
	count := func(n int) string { return formatAmount(decimal.NewFromInt(int64(n))) }
	lines := []string{
		"📊 آمار سفارش‌ها",
		"",
		"📌 کل سفارش‌ها: " + count(stats.TotalOrders),
		"💰 جمع فروش: " + formatPrice(stats.Revenue, currency),
		"📅 امروز: " + count(stats.TodayOrders) + " (" + formatPrice(stats.TodayRevenue, currency) + ")",
		"✉️ پیام‌های خوانده نشده: " + count(stats.UnreadMessages),
		"",
	}
	for _, s := range shop.OrderStatuses {
		lines = append(lines, statusLabel(s)+": "+count(stats.ByStatus[s]))
	}
	b.sendText(chatID, strings.Join(lines, "\n"), nil)
}

func (b *Bot) handleExportAllOrders(ctx context.Context, chatID int64) {
	orders, err := b.shop.ListOrders(ctx, shop.OrderFilter{})
	if err != nil {
		b.logger.Error("Failed to list orders", zap.Error(err))
		b.sendError(chatID, textInternalError)
		return
	}
	data, err := storage.OrdersWorkbook(orders)
	if err != nil {
		b.logger.Error("Failed to export all orders", zap.Error(err))
		b.sendError(chatID, textInternalError)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  storage.OrdersReportName(time.Now()),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📊 خروجی %d سفارش", len(orders))
	b.sendMessage(doc)
}

func (b *Bot) handleExportSingleOrder(ctx context.Context, chatID int64, shortID string) {
	order, err := b.shop.FindOrderByShortID(ctx, shortID)
	if err != nil {
		b.reportOrderError(chatID, err)
		return
	}
	b.sendOrderDocument(chatID, *order)
}

func (b *Bot) sendOrderDocument(chatID int64, order shop.Order) {
	data, err := storage.OrderWorkbook(order)
	if err != nil {
		b.logger.Error("Failed to export order",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  storage.OrderReportName(order),
		Bytes: data,
	})
	doc.Caption = "📊 جزئیات سفارش #" + order.ShortID()
	b.sendMessage(doc)
}
