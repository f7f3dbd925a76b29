package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch cmd := msg.Command(); cmd {
	case "start":
		b.handleStart(ctx, chatID)
	case "help":
		b.handleHelp(chatID)
	case "cancel":
		b.handleCancel(ctx, chatID)
	case "export", "stats", "status":
		if !b.isAdmin(chatID) {
			b.sendError(chatID, textUnknownCommand)
			return
		}
		b.handleAdminCommand(ctx, chatID, cmd, strings.Fields(msg.CommandArguments()))
	default:
		b.sendError(chatID, textUnknownCommand)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	b.sendText(chatID, textWelcome, tgbotapi.NewRemoveKeyboard(true))
	b.startOrder(ctx, chatID)
}

// startOrder drops any draft and asks for the paper size.
func (b *Bot) startOrder(ctx context.Context, chatID int64) {
	if err := b.state.ResetDialogState(ctx, chatID, StepPaperSize); err != nil {
		b.logger.Error("Failed to reset dialog state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, textInternalError)
		return
	}
	b.sendText(chatID, textChoosePaper, paperKeyboard(b.shop.Catalog()))
}

func (b *Bot) handleHelp(chatID int64) {
	text := textHelp
	if b.isAdmin(chatID) {
		text += textAdminHelp
	}
	b.sendText(chatID, text, nil)
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	if err := b.state.ResetDialogState(ctx, chatID, StepIdle); err != nil {
		b.logger.Error("Failed to reset dialog state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.sendText(chatID, textCancelled, tgbotapi.NewRemoveKeyboard(true))
}

func (b *Bot) handleDefault(ctx context.Context, chatID int64, step string) {
	if step == StepIdle {
		b.sendText(chatID, textIdle, nil)
		return
	}
	b.sendError(chatID, textUseButtons)
}
