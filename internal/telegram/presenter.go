package telegram

import (
	"strconv"
	"strings"

	"github.com/scribe-bot/scribe/internal/dialog"
)

// Callback data prefixes for inline keyboard buttons.
const (
	callbackCategoryPrefix = "cat:"
	callbackTemplatePrefix = "tpl:"
)

// Commands understood by the bot.
const (
	commandStart  = "/start"
	commandCancel = "/cancel"
)

// EventFromUpdate translates a Telegram update into a dialogue event
// plus the chat it should be answered in. It reports false for
// updates the bot does not understand.
func EventFromUpdate(update Update) (dialog.Event, int64, bool) {
	if cb := update.CallbackQuery; cb != nil {
		chatID := cb.From.ID
		if cb.Message != nil {
			chatID = cb.Message.Chat.ID
		}
		userID := strconv.FormatInt(cb.From.ID, 10)

		switch {
		case strings.HasPrefix(cb.Data, callbackCategoryPrefix):
			return dialog.Event{
				UserID: userID,
				Kind:   dialog.EventCategoryChosen,
				Text:   strings.TrimPrefix(cb.Data, callbackCategoryPrefix),
			}, chatID, true
		case strings.HasPrefix(cb.Data, callbackTemplatePrefix):
			return dialog.Event{
				UserID: userID,
				Kind:   dialog.EventTemplateChosen,
				Text:   strings.TrimPrefix(cb.Data, callbackTemplatePrefix),
			}, chatID, true
		}
		return dialog.Event{}, 0, false
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return dialog.Event{}, 0, false
	}
	userID := strconv.FormatInt(msg.From.ID, 10)
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "":
		return dialog.Event{}, 0, false
	case strings.HasPrefix(text, commandStart):
		return dialog.Event{UserID: userID, Kind: dialog.EventStart}, msg.Chat.ID, true
	case strings.HasPrefix(text, commandCancel):
		return dialog.Event{UserID: userID, Kind: dialog.EventCancel}, msg.Chat.ID, true
	case strings.HasPrefix(text, "/"):
		// Unknown command; don't treat it as a field value.
		return dialog.Event{}, 0, false
	default:
		return dialog.Event{UserID: userID, Kind: dialog.EventFieldValue, Text: msg.Text}, msg.Chat.ID, true
	}
}

// MessagesFromReplies renders dialogue replies into outgoing Telegram
// messages for one chat.
func MessagesFromReplies(chatID int64, replies []dialog.Reply) []OutgoingMessage {
	messages := make([]OutgoingMessage, 0, len(replies))
	for _, reply := range replies {
		switch r := reply.(type) {
		case dialog.CategoryList:
			rows := make([][]InlineKeyboardButton, 0, len(r.Categories))
			for _, category := range r.Categories {
				rows = append(rows, []InlineKeyboardButton{{
					Text:         category,
					CallbackData: callbackCategoryPrefix + category,
				}})
			}
			messages = append(messages, OutgoingMessage{
				ChatID:      chatID,
				Text:        "Выберите категорию заявления:",
				ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: rows},
			})
		case dialog.TemplateList:
			rows := make([][]InlineKeyboardButton, 0, len(r.Templates))
			for _, ref := range r.Templates {
				rows = append(rows, []InlineKeyboardButton{{
					Text:         ref.DisplayName,
					CallbackData: callbackTemplatePrefix + ref.ID,
				}})
			}
			messages = append(messages, OutgoingMessage{
				ChatID:      chatID,
				Text:        "Выберите шаблон:",
				ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: rows},
			})
		case dialog.Notice:
			messages = append(messages, OutgoingMessage{ChatID: chatID, Text: r.Message})
		case dialog.FieldPrompt:
			messages = append(messages, OutgoingMessage{ChatID: chatID, Text: "Введите " + r.Field + ":"})
		case dialog.RenderedText:
			messages = append(messages, OutgoingMessage{ChatID: chatID, Text: "Ваше заявление:\n\n" + r.Text})
		}
	}
	return messages
}
