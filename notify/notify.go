// Package notify passes reader kudos on to a phone.
package notify

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gregdel/pushover"

	"github.com/nordlys/portfolio/config"
)

const deviceName = "Portfolio"

// Kudos is a single reader saying thanks for a piece of content
type Kudos struct {
	Slug  string
	Title string
	Count int
	URL   string
}

type Notifier interface {
	NotifyKudos(k Kudos) error
}

// New returns a Pushover notifier when it is configured, otherwise one that
// drops everything
func New(cfg config.Config) Notifier {
	if !cfg.PushoverEnabled() {
		slog.Info("Pushover is not configured, kudos notifications are disabled")
		return Noop{}
	}
	return NewPushover(cfg.Pushover.Token, cfg.Pushover.Recipient)
}

type Pushover struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
	now       func() time.Time
}

func NewPushover(token, recipient string) *Pushover {
	return &Pushover{
		app:       pushover.New(token),
		recipient: pushover.NewRecipient(recipient),
		now:       time.Now,
	}
}

func (p *Pushover) NotifyKudos(k Kudos) error {
	if _, err := p.app.SendMessage(KudosMessage(k, p.now()), p.recipient); err != nil {
		return fmt.Errorf("failed to send kudos notification: %w", err)
	}
	return nil
}

func KudosMessage(k Kudos, at time.Time) *pushover.Message {
	title := k.Title
	if title == "" {
		title = k.Slug
	}
	times := "time"
	if k.Count != 1 {
		times = "times"
	}
	return &pushover.Message{
		Message:    fmt.Sprintf("Someone appreciated %s. It has been thanked %d %s so far.", title, k.Count, times),
		Title:      "A reader passes on their thanks!",
		URL:        k.URL,
		URLTitle:   title,
		Timestamp:  at.Unix(),
		DeviceName: deviceName,
	}
}

type Noop struct{}

func (Noop) NotifyKudos(Kudos) error {
	return nil
}
