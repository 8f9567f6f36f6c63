package mail_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prohair-dev/trichoscan/internal/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type channelSender struct {
	sent chan mail.Message
	err  error
}

func (s *channelSender) Send(_ context.Context, msg mail.Message) error {
	s.sent <- msg
	return s.err
}

func TestDispatch_DeliversInBackground(t *testing.T) {
	sender := &channelSender{sent: make(chan mail.Message, 1)}
	d := mail.NewDispatcher(sender)

	d.Dispatch(mail.Message{To: "client@example.com", Subject: "result", Body: "stage 4"})

	select {
	case msg := <-sender.sent:
		assert.Equal(t, "client@example.com", msg.To)
		assert.Equal(t, "result", msg.Subject)
	case <-time.After(2 * time.Second):
		t.Fatal("message never reached the sender")
	}
}

func TestDispatch_SwallowsSendFailure(t *testing.T) {
	sender := &channelSender{sent: make(chan mail.Message, 1), err: errors.New("smtp: connection refused")}
	d := mail.NewDispatcher(sender)

	// Must not panic or block the caller.
	d.Dispatch(mail.Message{To: "client@example.com", Subject: "result"})

	select {
	case <-sender.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("send was never attempted")
	}
}

type panickingSender struct{ called chan struct{} }

func (s *panickingSender) Send(context.Context, mail.Message) error {
	close(s.called)
	panic("sender bug")
}

func TestDispatch_RecoversSenderPanic(t *testing.T) {
	sender := &panickingSender{called: make(chan struct{})}
	d := mail.NewDispatcher(sender)

	d.Dispatch(mail.Message{To: "client@example.com"})

	select {
	case <-sender.called:
	case <-time.After(2 * time.Second):
		t.Fatal("send was never attempted")
	}
	// Give the goroutine a moment to unwind through the recover.
	time.Sleep(50 * time.Millisecond)
}

func TestNoopSender_DropsQuietly(t *testing.T) {
	s := mail.NoopSender{}
	require.NoError(t, s.Send(context.Background(), mail.Message{To: "client@example.com"}))
}
