package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleUpdate queues a text message behind the sender's earlier messages
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil || message.Chat == nil {
		return
	}
	if message.Text == "" {
		if b.debug {
			log.Printf("[Trace Bot] ignoring non-text message from user %d", message.From.ID)
		}
		return
	}

	userID := message.From.ID
	chatID := message.Chat.ID
	text := message.Text
	b.queue.submit(userID, func() {
		b.handleMessage(ctx, userID, chatID, text)
	})
}

// handleMessage runs the dialog handler and sends its reply
func (b *Bot) handleMessage(ctx context.Context, userID, chatID int64, text string) {
	if b.debug {
		log.Printf("[Trace Bot] user %d: %q", userID, text)
	}
	reply := b.handler.HandleMessage(ctx, userID, text)
	if err := b.send(ctx, outgoing(chatID, reply)); err != nil {
		log.Printf("Bot: failed to reply to user %d: %v", userID, err)
	}
}
