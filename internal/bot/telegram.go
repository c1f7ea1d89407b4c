package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/luigiabbondandolo0-crypto/risksent/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// RiskChecker runs a live risk check for a trader.
type RiskChecker interface {
	CheckAccount(ctx context.Context, userID int64, accountRef string) domain.CheckResult
}

// AlertReader lists a trader's persisted alerts.
type AlertReader interface {
	ListByUser(ctx context.Context, userID int64, includeDismissed bool, limit int) ([]domain.Alert, error)
}

// UserResolver maps a telegram chat to a trader. Returns 0 when no trader
// has linked that chat.
type UserResolver interface {
	FindUserByChatID(ctx context.Context, chatID int64) (int64, error)
}

// Bot wraps the telegram connection. It is both the command surface for
// traders and the Notifier used by alert dispatch.
type Bot struct {
	b *tele.Bot
}

// NewBot connects to telegram. An empty token returns (nil, nil) so callers
// can run without the bot; a nil *Bot is safe to use as a no-op Notifier.
func NewBot(token string) (*Bot, error) {
	if token == "" {
		log.Println("telegram bot token not set, skipping telegram bot startup")
		return nil, nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Bot{b: b}, nil
}

// Send delivers one message to a chat.
func (bt *Bot) Send(_ context.Context, chatID int64, text string) error {
	if bt == nil || bt.b == nil {
		return nil
	}
	_, err := bt.b.Send(tele.ChatID(chatID), text)
	return err
}

// Start registers command handlers and begins long polling.
func (bt *Bot) Start(risk RiskChecker, alerts AlertReader, users UserResolver) {
	if bt == nil || bt.b == nil {
		return
	}

	bt.b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	bt.b.Handle("/risk", func(c tele.Context) error {
		userID, err := users.FindUserByChatID(context.Background(), c.Chat().ID)
		if err != nil {
			return c.Send(fmt.Sprintf("Error resolving your account: %v", err))
		}
		if userID == 0 {
			return c.Send("This chat is not linked to a dashboard account.")
		}
		accountRef := ""
		if args := c.Args(); len(args) > 0 {
			accountRef = args[0]
		}
		result := risk.CheckAccount(context.Background(), userID, accountRef)
		return c.Send(formatCheckResult(result))
	})

	bt.b.Handle("/alerts", func(c tele.Context) error {
		userID, err := users.FindUserByChatID(context.Background(), c.Chat().ID)
		if err != nil {
			return c.Send(fmt.Sprintf("Error resolving your account: %v", err))
		}
		if userID == 0 {
			return c.Send("This chat is not linked to a dashboard account.")
		}
		list, err := alerts.ListByUser(context.Background(), userID, false, 10)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching alerts: %v", err))
		}
		return c.Send(formatAlerts(list))
	})

	log.Println("telegram bot started")
	go bt.b.Start()
}

func formatCheckResult(r domain.CheckResult) string {
	if !r.OK {
		return fmt.Sprintf("Risk check failed: %s", r.Error)
	}
	if r.Message != "" {
		return r.Message
	}
	if len(r.Findings) == 0 {
		return fmt.Sprintf("✅ No risk findings on %s.", r.AccountRef)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ %d risk finding(s) on %s:\n", len(r.Findings), r.AccountRef)
	for _, f := range r.Findings {
		fmt.Fprintf(&sb, "- [%s] %s\n", f.Level, f.Message)
	}
	if r.Suppressed > 0 {
		fmt.Fprintf(&sb, "(%d already alerted recently)\n", r.Suppressed)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatAlerts(alerts []domain.Alert) string {
	if len(alerts) == 0 {
		return "No active alerts."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Your latest %d alert(s):\n", len(alerts))
	for _, a := range alerts {
		marker := "•"
		if !a.Read {
			marker = "🔔"
		}
		fmt.Fprintf(&sb, "%s [%s] %s (%s)\n", marker, a.Severity, a.Message, a.AlertDate.UTC().Format("Jan 2 15:04"))
	}
	return strings.TrimRight(sb.String(), "\n")
}
