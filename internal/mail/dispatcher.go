package mail

import (
	"context"
	"log/slog"
	"time"
)

const sendTimeout = 30 * time.Second

// Dispatcher schedules fire-and-forget delivery. Failures are logged and
// never propagated to the caller; nothing is retried.
type Dispatcher struct {
	sender Sender
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Dispatch enqueues one message for background delivery and returns
// immediately. The send runs detached from the request context so a response
// already written to the caller can never be delayed or failed by mail.
func (d *Dispatcher) Dispatch(msg Message) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in mail dispatch", "error", r, "to", msg.To)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			slog.Error("mail delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
			return
		}
		slog.Info("mail delivered", "to", msg.To, "subject", msg.Subject)
	}()
}
