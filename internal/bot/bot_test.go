package bot

import (
	"context"
	"strings"
	"sync"
	"testing"

	"chapkhane/internal/bot/state_manager"
	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"
	"chapkhane/internal/storage/memory"
	"chapkhane/internal/storage/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

const (
	customerChat int64 = 1001
	adminChat    int64 = 42
)

type fakeSender struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	answers []string
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.answers = append(f.answers, cb.Text)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// textsTo returns the texts of plain messages sent to chatID.
func (f *fakeSender) textsTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ChatID == chatID {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

func (f *fakeSender) lastText(chatID int64) string {
	texts := f.textsTo(chatID)
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeSender) documentsTo(chatID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok && d.ChatID == chatID {
			n++
		}
	}
	return n
}

func (f *fakeSender) lastAnswer() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.answers) == 0 {
		return ""
	}
	return f.answers[len(f.answers)-1]
}

type harness struct {
	bot    *Bot
	sender *fakeSender
	shop   *shop.Service
	state  *state_manager.UserDialogStateManager
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	svc := shop.NewService(pricing.MustNewEngine(pricing.DefaultCatalog()), shop.Deps{
		Orders:    memory.NewOrderRepository(),
		Offerings: memory.NewOfferingRepository(),
		Messages:  memory.NewMessageRepository(),
	})
	sender := &fakeSender{}
	state := state_manager.New(memory.NewDialogStore())
	b := NewWithSender(sender, Deps{State: state, Shop: svc, AdminIDs: []int64{adminChat}})
	svc.Subscribe(b)
	return &harness{bot: b, sender: sender, shop: svc, state: state}
}

func (h *harness) command(chatID int64, text string) {
	name := strings.Fields(text)[0]
	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID, FirstName: "Reza"},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}})
}

func (h *harness) text(chatID int64, text string) {
	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: chatID, FirstName: "Reza", LastName: "Ahmadi"},
		Text: text,
	}})
}

func (h *harness) press(chatID int64, data string) {
	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: chatID},
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 10, Chat: &tgbotapi.Chat{ID: chatID}},
	}})
}

func (h *harness) step(t *testing.T, chatID int64) *redis.UserState {
	t.Helper()
	state, err := h.state.GetUserDialogState(context.Background(), chatID)
	if err != nil {
		t.Fatalf("GetUserDialogState failed: %v", err)
	}
	return state
}

func (h *harness) expectStep(t *testing.T, chatID int64, want string) {
	t.Helper()
	if got := h.step(t, chatID).Step; got != want {
		t.Fatalf("step: got %q, want %q", got, want)
	}
}

func TestOrderDialog(t *testing.T) {
	h := newHarness(t)

	h.command(customerChat, "/start")
	h.expectStep(t, customerChat, StepPaperSize)
	if got := h.sender.lastText(customerChat); got != textChoosePaper {
		t.Fatalf("last message: got %q", got)
	}

	h.press(customerChat, "paper:a4")
	h.expectStep(t, customerChat, StepMaterial)
	h.press(customerChat, "opt:material:glossy")
	h.expectStep(t, customerChat, StepWeight)
	h.press(customerChat, "opt:weight:120g")
	h.press(customerChat, "opt:color_mode:cmyk")
	h.press(customerChat, "opt:sides:single")
	h.expectStep(t, customerChat, StepLamination)
	h.press(customerChat, "opt:lamination:glossy")
	h.expectStep(t, customerChat, StepAddOns)

	h.press(customerChat, "addon:embossing")
	h.press(customerChat, "addon:rounded_corners")
	h.press(customerChat, "addon:embossing")
	if got := h.step(t, customerChat).Draft.Spec.AddOns; len(got) != 1 || got[0] != "rounded_corners" {
		t.Fatalf("add-ons after toggling: %v", got)
	}
	h.press(customerChat, "addon:done")
	h.expectStep(t, customerChat, StepQuantity)

	h.text(customerChat, "۱۰۰")
	h.expectStep(t, customerChat, StepConfirm)
	if got := h.sender.lastText(customerChat); !strings.HasPrefix(got, "🧾") {
		t.Fatalf("expected pre-invoice, got %q", got)
	}

	h.press(customerChat, "confirm")
	h.expectStep(t, customerChat, StepContact)

	h.text(customerChat, "12")
	h.expectStep(t, customerChat, StepContact)

	h.bot.HandleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:    &tgbotapi.Chat{ID: customerChat},
		From:    &tgbotapi.User{ID: customerChat, FirstName: "Reza"},
		Contact: &tgbotapi.Contact{PhoneNumber: "989123456789", FirstName: "Reza", LastName: "Ahmadi"},
	}})

	orders, err := h.shop.ListOrders(context.Background(), shop.OrderFilter{})
	if err != nil {
		t.Fatalf("ListOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	o := orders[0]
	if !o.Quote.FinalTotal.Equal(decimal.NewFromInt(190000)) {
		t.Errorf("final total: got %s, want 190000", o.Quote.FinalTotal)
	}
	if o.Source != shop.SourceTelegram || o.Customer.TelegramChatID != customerChat {
		t.Errorf("unexpected source or chat: %+v", o)
	}
	if o.Customer.Name != "Reza Ahmadi" || o.Customer.Phone != "+989123456789" {
		t.Errorf("unexpected customer: %+v", o.Customer)
	}

	state := h.step(t, customerChat)
	if state.Step != StepIdle || state.Userdata == nil || state.Userdata.PhoneNumber != "+989123456789" {
		t.Errorf("state after order: %+v", state)
	}
	if !strings.Contains(h.sender.lastText(customerChat), o.ShortID()) {
		t.Errorf("confirmation lacks order number: %q", h.sender.lastText(customerChat))
	}
	if texts := h.sender.textsTo(adminChat); len(texts) != 1 || !strings.Contains(texts[0], o.ShortID()) {
		t.Errorf("admin not notified: %v", texts)
	}
	if n := h.sender.documentsTo(adminChat); n != 1 {
		t.Errorf("admin got %d documents, want 1", n)
	}
}

func TestConfirmUsesSavedContact(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.state.SetUserData(ctx, customerChat, "Sara", "+989351234567"); err != nil {
		t.Fatalf("SetUserData failed: %v", err)
	}
	err := h.state.UpdateDraft(ctx, customerChat, StepConfirm, func(d *redis.Draft) error {
		d.Spec = pricing.OrderSpec{
			PaperSize: "a4", Material: "glossy", Weight: "120g", ColorMode: "cmyk",
			Sides: pricing.SidesSingle, Lamination: "none", Quantity: 1000,
		}
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateDraft failed: %v", err)
	}

	h.press(customerChat, "confirm")

	orders, _ := h.shop.ListOrders(ctx, shop.OrderFilter{})
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1", len(orders))
	}
	if orders[0].Customer.Name != "Sara" || !orders[0].Quote.FinalTotal.Equal(decimal.NewFromInt(1020000)) {
		t.Errorf("unexpected order: %+v", orders[0])
	}
}

func TestStaleButtonIsIgnored(t *testing.T) {
	h := newHarness(t)

	h.command(customerChat, "/start")
	h.press(customerChat, "opt:material:glossy")

	h.expectStep(t, customerChat, StepPaperSize)
	if got := h.sender.lastAnswer(); got != textStaleButton {
		t.Errorf("callback answer: got %q", got)
	}

	h.press(customerChat, "paper:b9")
	h.expectStep(t, customerChat, StepPaperSize)
}

func TestCustomSizeDialog(t *testing.T) {
	h := newHarness(t)

	h.command(customerChat, "/start")
	h.press(customerChat, "paper:custom")
	h.expectStep(t, customerChat, StepCustomSize)

	h.text(customerChat, "بزرگ")
	h.expectStep(t, customerChat, StepCustomSize)
	if got := h.sender.lastText(customerChat); got != "❌ "+textBadDimensions {
		t.Errorf("got %q", got)
	}

	h.text(customerChat, "۲۱ در ۲۹٫۷")
	h.expectStep(t, customerChat, StepMaterial)
	spec := h.step(t, customerChat).Draft.Spec
	if spec.PaperSize != pricing.CustomSize || !spec.CustomWidth.Equal(decimal.NewFromInt(21)) || !spec.CustomHeight.Equal(decimal.RequireFromString("29.7")) {
		t.Errorf("unexpected custom spec: %+v", spec)
	}
}

func TestCancel(t *testing.T) {
	h := newHarness(t)

	h.command(customerChat, "/start")
	h.press(customerChat, "paper:a5")
	h.command(customerChat, "/cancel")

	h.expectStep(t, customerChat, StepIdle)
	h.text(customerChat, "سلام")
	if got := h.sender.lastText(customerChat); got != textIdle {
		t.Errorf("idle reply: got %q", got)
	}
}

func TestAdminCommands(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	order, err := h.shop.PlaceOrder(ctx, shop.OrderRequest{
		Spec: pricing.OrderSpec{
			PaperSize: "a4", Material: "glossy", Weight: "120g", ColorMode: "cmyk",
			Sides: pricing.SidesSingle, Lamination: "none", Quantity: 100,
		},
		Customer: shop.Customer{Name: "Ali", Phone: "09121112233", TelegramChatID: customerChat},
	})
	if err != nil {
		t.Fatalf("PlaceOrder failed: %v", err)
	}

	h.command(customerChat, "/stats")
	if got := h.sender.lastText(customerChat); got != "❌ "+textUnknownCommand {
		t.Errorf("non-admin /stats: got %q", got)
	}

	h.command(adminChat, "/status "+order.ShortID()+" processing")
	got, _ := h.shop.GetOrder(ctx, order.ID)
	if got.Status != shop.StatusProcessing {
		t.Fatalf("status: got %s", got.Status)
	}
	if !strings.Contains(h.sender.lastText(customerChat), order.ShortID()) {
		t.Errorf("customer not told about status change: %q", h.sender.lastText(customerChat))
	}

	h.press(adminChat, "status:"+order.ID.String()+":completed")
	got, _ = h.shop.GetOrder(ctx, order.ID)
	if got.Status != shop.StatusCompleted {
		t.Fatalf("status after button: got %s", got.Status)
	}

	h.command(adminChat, "/status "+order.ShortID()+" new")
	if got := h.sender.lastText(adminChat); got != "❌ "+textOrderClosed {
		t.Errorf("reopening a completed order: got %q", got)
	}

	h.command(adminChat, "/export")
	if n := h.sender.documentsTo(adminChat); n != 2 {
		t.Errorf("documents to admin: got %d, want 2", n)
	}

	h.command(adminChat, "/stats")
	if got := h.sender.lastText(adminChat); !strings.HasPrefix(got, "📊") {
		t.Errorf("stats reply: got %q", got)
	}
}
