package notification

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/CodexForgeBR/batchgen/internal/logging"
)

// DefaultCommand is the notifier binary used when Sender.Command is empty.
const DefaultCommand = "openclaw"

// DefaultTimeout bounds one notifier run.
const DefaultTimeout = 10 * time.Second

// Sender delivers session events through the openclaw CLI. A Sender with
// no chat id is disabled and sends nothing.
type Sender struct {
	Webhook string
	Channel string
	ChatID  string

	Command string
	Timeout time.Duration
}

// NewSender returns a Sender for the given destination.
func NewSender(webhook, channel, chatID string) *Sender {
	return &Sender{Webhook: webhook, Channel: channel, ChatID: chatID}
}

// Enabled reports whether s has somewhere to send.
func (s *Sender) Enabled() bool {
	return s != nil && s.ChatID != ""
}

// Send runs the notifier once and returns its failure, if any, with the
// command output attached.
func (s *Sender) Send(ctx context.Context, message string) error {
	if !s.Enabled() {
		return nil
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := s.Command
	if command == "" {
		command = DefaultCommand
	}
	cmd := exec.CommandContext(ctx, command, "message", "send",
		"--webhook", s.Webhook,
		"--channel", s.Channel,
		"--chat-id", s.ChatID,
		"--message", message,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Notify formats event and sends it. It never fails the session: delivery
// errors are only logged in verbose mode.
func (s *Sender) Notify(event string, sum Summary) {
	if !s.Enabled() {
		return
	}
	if err := s.Send(context.Background(), FormatEvent(event, sum)); err != nil {
		logging.Debug(fmt.Sprintf("Notification %s not delivered: %v", event, err))
	}
}
