package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iabalyuk/dailytracker/dialog"
)

// replyKeyboard converts a dialog keyboard into Telegram reply markup
func replyKeyboard(kb *dialog.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.OneTimeKeyboard = kb.OneTime
	return markup
}

// outgoing builds the Telegram message for a reply
func outgoing(chatID int64, r dialog.Reply) tgbotapi.Chattable {
	if r.Document != nil {
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: r.Document.Filename, Bytes: r.Document.Data})
		doc.Caption = r.Document.Caption
		if r.Keyboard != nil {
			doc.ReplyMarkup = replyKeyboard(r.Keyboard)
		}
		return doc
	}
	msg := tgbotapi.NewMessage(chatID, r.Text)
	if r.Keyboard != nil {
		msg.ReplyMarkup = replyKeyboard(r.Keyboard)
	}
	return msg
}
