package bot

import (
	"fmt"
	"strconv"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func callbackData(parts ...string) string {
	data := parts[0]
	for _, p := range parts[1:] {
		data += ":" + p
	}
	return data
}

func cancelRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(btnCancel, cbCancel),
	)
}

// pairs lays buttons out two per row.
func pairs(buttons []tgbotapi.InlineKeyboardButton) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(buttons); i += 2 {
		end := i + 2
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(buttons[i:end]...))
	}
	return rows
}

func paperKeyboard(c pricing.Catalog) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(c.PaperSizes))
	for _, p := range c.PaperSizes {
		label := fmt.Sprintf("%s (%s×%s)", p.LabelFa, formatAmount(p.WidthCM), formatAmount(p.HeightCM))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, callbackData(cbPaper, p.ID)))
	}
	rows := pairs(buttons)
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnCustomSize, callbackData(cbPaper, pricing.CustomSize)),
		),
		cancelRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func optionKeyboard(c pricing.Catalog, d pricing.Dimension) tgbotapi.InlineKeyboardMarkup {
	opts := c.Options(d)
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(opts))
	for _, o := range opts {
		label := o.LabelFa
		if d.Flat() && o.Value.IsPositive() {
			label += " (+" + formatAmount(o.Value) + ")"
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(label, callbackData(cbOption, string(d), o.ID)))
	}
	rows := append(pairs(buttons), cancelRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func addOnKeyboard(c pricing.Catalog, selected []string) tgbotapi.InlineKeyboardMarkup {
	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(c.AddOns)+2)
	for _, o := range c.AddOns {
		label := o.LabelFa + " (+" + formatAmount(o.Value) + ")"
		if chosen[o.ID] {
			label = "✅ " + label
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData(cbAddOn, o.ID)),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnContinue, callbackData(cbAddOn, addOnsDone)),
		),
		cancelRow(),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func quantityKeyboard() tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(quantityPresets))
	for _, q := range quantityPresets {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
			faPrinter.Sprintf("%d", q), callbackData(cbQuantity, strconv.Itoa(q))))
	}
	rows := append(pairs(buttons), cancelRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnConfirm, cbConfirm),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnRestart, cbRestart),
			tgbotapi.NewInlineKeyboardButtonData(btnCancel, cbCancel),
		),
	)
}

func contactKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact(btnContact),
		),
	)
	kb.OneTimeKeyboard = true
	return kb
}

func adminOrderKeyboard(o shop.Order) tgbotapi.InlineKeyboardMarkup {
	id := o.ID.String()
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(statusLabel(shop.StatusProcessing), callbackData(cbStatus, id, string(shop.StatusProcessing))),
			tgbotapi.NewInlineKeyboardButtonData(statusLabel(shop.StatusCompleted), callbackData(cbStatus, id, string(shop.StatusCompleted))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(statusLabel(shop.StatusCancelled), callbackData(cbStatus, id, string(shop.StatusCancelled))),
		),
	)
}
