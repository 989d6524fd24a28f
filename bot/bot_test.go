package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iabalyuk/dailytracker/dialog"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

// echoHandler records the order it saw each user's messages in
type echoHandler struct {
	mu   sync.Mutex
	seen map[int64][]string
}

func (h *echoHandler) HandleMessage(_ context.Context, userID int64, text string) dialog.Reply {
	time.Sleep(time.Millisecond)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen[userID] = append(h.seen[userID], text)
	return dialog.Reply{Text: "echo " + text, Keyboard: dialog.MainMenu}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}}
}

func TestMessagesKeepPerUserOrder(t *testing.T) {
	out := &fakeSender{}
	h := &echoHandler{seen: make(map[int64][]string)}
	b := newBot(out, h, 1000, false)

	for i := 0; i < 10; i++ {
		for u := int64(1); u <= 3; u++ {
			b.handleUpdate(context.Background(), textUpdate(u, fmt.Sprint(i)))
		}
	}
	b.queue.wait()

	for u := int64(1); u <= 3; u++ {
		got := h.seen[u]
		if len(got) != 10 {
			t.Fatalf("user %d: %d messages", u, len(got))
		}
		for i, text := range got {
			if text != fmt.Sprint(i) {
				t.Fatalf("user %d saw %v out of order", u, got)
			}
		}
	}
	if len(out.sent) != 30 {
		t.Fatalf("replies sent = %d", len(out.sent))
	}
	if len(b.queue.pending) != 0 {
		t.Fatalf("idle users left in the queue: %d", len(b.queue.pending))
	}
}

func TestIgnoresNonTextUpdates(t *testing.T) {
	out := &fakeSender{}
	b := newBot(out, &echoHandler{seen: make(map[int64][]string)}, 10, true)
	b.handleUpdate(context.Background(), tgbotapi.Update{})
	b.handleUpdate(context.Background(), textUpdate(1, ""))
	b.queue.wait()
	if len(out.sent) != 0 {
		t.Fatalf("sent %d replies", len(out.sent))
	}
}

func TestReplyKeyboard(t *testing.T) {
	markup := replyKeyboard(&dialog.Keyboard{Rows: [][]string{{"A", "B"}, {"C"}}, OneTime: true})
	if !markup.ResizeKeyboard || !markup.OneTimeKeyboard {
		t.Fatalf("flags = %+v", markup)
	}
	if len(markup.Keyboard) != 2 || len(markup.Keyboard[0]) != 2 || markup.Keyboard[1][0].Text != "C" {
		t.Fatalf("rows = %+v", markup.Keyboard)
	}
}

func TestOutgoing(t *testing.T) {
	msg, ok := outgoing(7, dialog.Reply{Text: "hi", Keyboard: dialog.SettingsMenu}).(tgbotapi.MessageConfig)
	if !ok || msg.Text != "hi" || msg.ChatID != 7 {
		t.Fatalf("unexpected message %+v", msg)
	}
	if _, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup); !ok {
		t.Fatalf("keyboard missing")
	}

	plain := outgoing(7, dialog.Reply{Text: "no keyboard"}).(tgbotapi.MessageConfig)
	if plain.ReplyMarkup != nil {
		t.Fatalf("nil keyboard should send no markup")
	}

	doc, ok := outgoing(7, dialog.Reply{Document: &dialog.Document{
		Filename: "daily_tracker.csv", Data: []byte("date\n"), Caption: "📊 CSV format",
	}}).(tgbotapi.DocumentConfig)
	if !ok {
		t.Fatalf("expected a document")
	}
	file, ok := doc.File.(tgbotapi.FileBytes)
	if !ok || file.Name != "daily_tracker.csv" || doc.Caption != "📊 CSV format" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestSendReportsFailure(t *testing.T) {
	out := &fakeSender{err: errors.New("Forbidden: bot was blocked by the user")}
	b := newBot(out, nil, 10, false)
	if err := b.Send(context.Background(), 3, "⏰"); err == nil {
		t.Fatalf("expected error")
	}

	out.err = nil
	if err := b.Send(context.Background(), 3, "⏰"); err != nil {
		t.Fatalf("send: %v", err)
	}
	msg := out.sent[0].(tgbotapi.MessageConfig)
	if msg.ChatID != 3 || msg.Text != "⏰" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestSendHonoursContext(t *testing.T) {
	b := newBot(&fakeSender{}, nil, 1, false)
	// drain the single token
	if err := b.Send(context.Background(), 1, "a"); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Send(ctx, 1, "b"); err == nil {
		t.Fatalf("expected limiter error for a cancelled context")
	}
}

func TestStartWithoutConnection(t *testing.T) {
	b := newBot(&fakeSender{}, nil, 1, false)
	if err := b.Start(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
