package bot

import (
	"context"
	"errors"
	"strconv"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"
	"chapkhane/internal/storage/redis"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// optionSteps maps each option dimension to its dialog step, in the order
// the customer is asked.
var optionSteps = []struct {
	dimension pricing.Dimension
	step      string
}{
	{pricing.DimensionMaterial, StepMaterial},
	{pricing.DimensionWeight, StepWeight},
	{pricing.DimensionColorMode, StepColorMode},
	{pricing.DimensionSides, StepSides},
	{pricing.DimensionLamination, StepLamination},
	{pricing.DimensionAddOn, StepAddOns},
}

func stepFor(d pricing.Dimension) string {
	for _, s := range optionSteps {
		if s.dimension == d {
			return s.step
		}
	}
	return ""
}

// nextDimension returns the dimension asked after d.
func nextDimension(d pricing.Dimension) pricing.Dimension {
	for i, s := range optionSteps {
		if s.dimension == d && i+1 < len(optionSteps) {
			return optionSteps[i+1].dimension
		}
	}
	return ""
}

// expectStep loads the chat state and rejects callbacks from buttons of an
// earlier step.
func (b *Bot) expectStep(ctx context.Context, cq *tgbotapi.CallbackQuery, step string) (*redis.UserState, bool) {
	chatID := cq.Message.Chat.ID
	state, err := b.state.GetUserDialogState(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get user state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.answer(cq, textInternalError)
		return nil, false
	}
	if state.Step != step || state.Draft == nil {
		b.answer(cq, textStaleButton)
		return nil, false
	}
	return state, true
}

func (b *Bot) askDimension(chatID int64, d pricing.Dimension, draft *redis.Draft) {
	catalog := b.shop.Catalog()
	if d == pricing.DimensionAddOn {
		b.sendText(chatID, dimensionPrompts[d], addOnKeyboard(catalog, draft.Spec.AddOns))
		return
	}
	b.sendText(chatID, dimensionPrompts[d], optionKeyboard(catalog, d))
}

func (b *Bot) handlePaperSelection(ctx context.Context, cq *tgbotapi.CallbackQuery, args []string) {
	chatID := cq.Message.Chat.ID
	if len(args) != 1 {
		b.answer(cq, textStaleButton)
		return
	}
	if _, ok := b.expectStep(ctx, cq, StepPaperSize); !ok {
		return
	}

	id := args[0]
	next := StepMaterial
	if id == pricing.CustomSize {
		next = StepCustomSize
	} else if _, ok := b.shop.Catalog().Paper(id); !ok {
		b.answer(cq, textStaleButton)
		return
	}

	err := b.state.UpdateDraft(ctx, chatID, next, func(d *redis.Draft) error {
		d.Spec.PaperSize = id
		d.Spec.CustomWidth = nil
		d.Spec.CustomHeight = nil
		return nil
	})
	if err != nil {
		b.failCallback(cq, err)
		return
	}
	b.answer(cq, "")

	if next == StepCustomSize {
		b.sendText(chatID, textCustomSizePrompt, nil)
		return
	}
	b.askDimension(chatID, pricing.DimensionMaterial, nil)
}

func (b *Bot) handleOptionSelection(ctx context.Context, cq *tgbotapi.CallbackQuery, args []string) {
	chatID := cq.Message.Chat.ID
	if len(args) != 2 {
		b.answer(cq, textStaleButton)
		return
	}
	dim, id := pricing.Dimension(args[0]), args[1]
	step := stepFor(dim)
	if step == "" || dim == pricing.DimensionAddOn {
		b.answer(cq, textStaleButton)
		return
	}
	if _, ok := b.expectStep(ctx, cq, step); !ok {
		return
	}
	if _, ok := b.shop.Catalog().Option(dim, id); !ok {
		b.answer(cq, textStaleButton)
		return
	}

	next := nextDimension(dim)
	var draft *redis.Draft
	err := b.state.UpdateDraft(ctx, chatID, stepFor(next), func(d *redis.Draft) error {
		setOption(&d.Spec, dim, id)
		draft = d
		return nil
	})
	if err != nil {
		b.failCallback(cq, err)
		return
	}
	b.answer(cq, "")
	b.askDimension(chatID, next, draft)
}

func setOption(spec *pricing.OrderSpec, d pricing.Dimension, id string) {
	switch d {
	case pricing.DimensionMaterial:
		spec.Material = id
	case pricing.DimensionWeight:
		spec.Weight = id
	case pricing.DimensionColorMode:
		spec.ColorMode = id
	case pricing.DimensionSides:
		spec.Sides = pricing.Sides(id)
	case pricing.DimensionLamination:
		spec.Lamination = id
	}
}

func (b *Bot) handleAddOnToggle(ctx context.Context, cq *tgbotapi.CallbackQuery, args []string) {
	chatID := cq.Message.Chat.ID
	if len(args) != 1 {
		b.answer(cq, textStaleButton)
		return
	}
	if _, ok := b.expectStep(ctx, cq, StepAddOns); !ok {
		return
	}

	id := args[0]
	if id == addOnsDone {
		if err := b.state.SetStep(ctx, chatID, StepQuantity); err != nil {
			b.failCallback(cq, err)
			return
		}
		b.answer(cq, "")
		b.sendText(chatID, textQuantityPrompt, quantityKeyboard())
		return
	}
	if _, ok := b.shop.Catalog().Option(pricing.DimensionAddOn, id); !ok {
		b.answer(cq, textStaleButton)
		return
	}

	var selected []string
	err := b.state.UpdateDraft(ctx, chatID, StepAddOns, func(d *redis.Draft) error {
		d.Spec.AddOns = toggle(d.Spec.AddOns, id)
		selected = d.Spec.AddOns
		return nil
	})
	if err != nil {
		b.failCallback(cq, err)
		return
	}
	b.answer(cq, "")
	b.sendMessage(tgbotapi.NewEditMessageReplyMarkup(chatID, cq.Message.MessageID, addOnKeyboard(b.shop.Catalog(), selected)))
}

func toggle(list []string, id string) []string {
	for i, v := range list {
		if v == id {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, id)
}

func (b *Bot) handleQuantityButton(ctx context.Context, cq *tgbotapi.CallbackQuery, args []string) {
	if len(args) != 1 {
		b.answer(cq, textStaleButton)
		return
	}
	if _, ok := b.expectStep(ctx, cq, StepQuantity); !ok {
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		b.answer(cq, textStaleButton)
		return
	}
	b.answer(cq, "")
	b.setQuantity(ctx, cq.Message.Chat.ID, n)
}

// setQuantity prices the draft with quantity n and shows the pre-invoice.
func (b *Bot) setQuantity(ctx context.Context, chatID int64, n int) {
	state, err := b.state.GetUserDialogState(ctx, chatID)
	if err != nil || state.Draft == nil {
		b.sendError(chatID, textInternalError)
		return
	}

	spec := state.Draft.Spec
	spec.Quantity = n
	quote, err := b.shop.Quote(ctx, clientKey(chatID), spec)
	if err != nil {
		b.handleQuoteError(ctx, chatID, err)
		return
	}

	err = b.state.UpdateDraft(ctx, chatID, StepConfirm, func(d *redis.Draft) error {
		d.Spec.Quantity = n
		return nil
	})
	if err != nil {
		b.logger.Error("Failed to save quantity",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, textInternalError)
		return
	}
	b.sendText(chatID, FormatQuote(b.shop.Catalog(), spec, quote), confirmKeyboard())
}

func (b *Bot) handleQuoteError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, shop.ErrRateLimited):
		b.sendError(chatID, textRateLimited)
	case pricing.IsIncomplete(err):
		if err := b.state.SetStep(ctx, chatID, StepCustomSize); err != nil {
			b.logger.Error("Failed to set step", zap.Error(err))
		}
		b.sendError(chatID, textCustomSizePrompt)
	case pricing.IsInvalid(err):
		b.logger.Warn("Draft failed pricing",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, textInvalidOrder)
		b.startOrder(ctx, chatID)
	default:
		b.logger.Error("Failed to price draft",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, textInternalError)
	}
}

func (b *Bot) handleConfirm(ctx context.Context, cq *tgbotapi.CallbackQuery, _ []string) {
	chatID := cq.Message.Chat.ID
	state, ok := b.expectStep(ctx, cq, StepConfirm)
	if !ok {
		return
	}
	b.answer(cq, "")

	if u := state.Userdata; u != nil && u.PhoneNumber != "" {
		b.placeOrder(ctx, chatID, u.Name, u.PhoneNumber)
		return
	}
	if err := b.state.SetStep(ctx, chatID, StepContact); err != nil {
		b.logger.Error("Failed to set contact step",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, textInternalError)
		return
	}
	b.sendText(chatID, textContactPrompt, contactKeyboard())
}

func (b *Bot) handleRestart(ctx context.Context, cq *tgbotapi.CallbackQuery, _ []string) {
	b.answer(cq, "")
	b.startOrder(ctx, cq.Message.Chat.ID)
}

func (b *Bot) handleCancelButton(ctx context.Context, cq *tgbotapi.CallbackQuery, _ []string) {
	b.answer(cq, "")
	b.handleCancel(ctx, cq.Message.Chat.ID)
}

func (b *Bot) failCallback(cq *tgbotapi.CallbackQuery, err error) {
	b.logger.Error("Failed to update dialog state",
		zap.Int64("chat_id", cq.Message.Chat.ID),
		zap.String("data", cq.Data),
		zap.Error(err))
	b.answer(cq, textInternalError)
}
