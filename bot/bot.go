package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/iabalyuk/dailytracker/dialog"
)

// MessageHandler turns one user message into one reply
type MessageHandler interface {
	HandleMessage(ctx context.Context, userID int64, text string) dialog.Reply
}

// sender is the part of the Telegram API used for outbound traffic
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot represents the Telegram side of the tracker: it feeds updates to the
// handler and delivers replies and reminders
type Bot struct {
	api     *tgbotapi.BotAPI
	out     sender
	handler MessageHandler
	limiter *rate.Limiter
	queue   *dispatcher
	debug   bool
}

// Config holds the bot settings
type Config struct {
	Token    string
	SendRate float64 // outbound messages per second, shared by replies and reminders
	Debug    bool
}

// New creates a new bot instance
func New(config Config, handler MessageHandler) (*Bot, error) {
	if config.Token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = config.Debug

	b := newBot(api, handler, config.SendRate, config.Debug)
	b.api = api
	return b, nil
}

func newBot(out sender, handler MessageHandler, sendRate float64, debug bool) *Bot {
	if sendRate <= 0 {
		sendRate = 25
	}
	burst := int(sendRate)
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(sendRate), burst)
	log.Printf("Bot: send limiter %v messages/sec, burst %d", limiter.Limit(), limiter.Burst())
	return &Bot{
		out:     out,
		handler: handler,
		limiter: limiter,
		queue:   newDispatcher(),
		debug:   debug,
	}
}

// Start polls for updates until ctx is done, then waits for queued messages
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot has no Telegram connection")
	}
	log.Printf("Bot started: @%s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	// Queued messages finish even after shutdown starts
	work := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.queue.wait()
			log.Println("Bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				b.queue.wait()
				return nil
			}
			b.handleUpdate(work, update)
		}
	}
}

// Send delivers text to userID. It implements worker.Notifier.
func (b *Bot) Send(ctx context.Context, userID int64, text string) error {
	return b.send(ctx, tgbotapi.NewMessage(userID, text))
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if _, err := b.out.Send(c); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
