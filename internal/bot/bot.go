package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Deps struct {
	State    StateManager
	Shop     Shop
	Logger   *zap.Logger
	AdminIDs []int64
}

type Bot struct {
	api       Sender
	botAPI    *tgbotapi.BotAPI
	logger    *zap.Logger
	state     StateManager
	shop      Shop
	admins    []int64
	mu        sync.Mutex
	handlers  map[string]func(context.Context, *tgbotapi.Message)
	callbacks map[string]func(context.Context, *tgbotapi.CallbackQuery, []string)
}

func New(token string, debug bool, deps Deps) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = debug

	b := NewWithSender(botAPI, deps)
	b.botAPI = botAPI

	b.logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))
	return b, nil
}

// NewWithSender builds a bot that sends through api. It cannot poll for
// updates; feed them to HandleUpdate instead.
func NewWithSender(api Sender, deps Deps) *Bot {
	b := &Bot{
		api:    api,
		logger: deps.Logger,
		state:  deps.State,
		shop:   deps.Shop,
		admins: deps.AdminIDs,
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.handlers = map[string]func(context.Context, *tgbotapi.Message){
		StepCustomSize: b.handleCustomSize,
		StepQuantity:   b.handleQuantityText,
		StepContact:    b.handleContactText,
	}
	b.callbacks = map[string]func(context.Context, *tgbotapi.CallbackQuery, []string){
		cbPaper:    b.handlePaperSelection,
		cbOption:   b.handleOptionSelection,
		cbAddOn:    b.handleAddOnToggle,
		cbQuantity: b.handleQuantityButton,
		cbConfirm:  b.handleConfirm,
		cbRestart:  b.handleRestart,
		cbCancel:   b.handleCancelButton,
		cbStatus:   b.handleStatusButton,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	if b.botAPI == nil {
		return fmt.Errorf("bot.Start: no Telegram connection")
	}
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.botAPI.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.botAPI.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes one update. Updates are handled one at a time.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case update.Message != nil:
		b.processMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	state, err := b.state.GetUserDialogState(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, textInternalError)
		return
	}

	if msg.Contact != nil && state.Step == StepContact {
		b.handleContactShared(ctx, msg)
		return
	}

	if handler, exists := b.handlers[state.Step]; exists {
		handler(ctx, msg)
		return
	}
	b.handleDefault(ctx, chatID, state.Step)
}

func (b *Bot) processCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		return
	}

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", cq.Message.Chat.ID),
		zap.String("data", cq.Data))

	parts := strings.Split(cq.Data, ":")
	handler, exists := b.callbacks[parts[0]]
	if !exists {
		b.answer(cq, textStaleButton)
		return
	}
	handler(ctx, cq, parts[1:])
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendText(chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	b.sendMessage(msg)
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}

// answer acknowledges a callback so the client stops its spinner.
func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		b.logger.Warn("Failed to answer callback",
			zap.String("callback_id", cq.ID),
			zap.Error(err))
	}
}

func (b *Bot) isAdmin(chatID int64) bool {
	for _, id := range b.admins {
		if id == chatID {
			return true
		}
	}
	return false
}

func clientKey(chatID int64) string {
	return fmt.Sprintf("tg:%d", chatID)
}
