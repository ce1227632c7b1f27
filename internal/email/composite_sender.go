package email

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoSenders = errors.New("no email senders configured")

// CompositeEmailSender fans a message out to several senders, e.g. the real or mock sink
// plus the LOG_EMAILS file.
type CompositeEmailSender struct {
	senders []Sender
}

func NewCompositeEmailSender(senders ...Sender) *CompositeEmailSender {
	cs := &CompositeEmailSender{}
	for _, s := range senders {
		cs.AddSender(s)
	}
	return cs
}

// AddSender appends sender; nil is ignored.
func (cs *CompositeEmailSender) AddSender(sender Sender) {
	if sender != nil {
		cs.senders = append(cs.senders, sender)
	}
}

// Send tries every sender, even after one fails, and joins the failures. The asynq task
// is retried if any sender failed, so a sink that succeeded may see the message twice.
func (cs *CompositeEmailSender) Send(ctx context.Context, msg *Message) error {
	if len(cs.senders) == 0 {
		return ErrNoSenders
	}

	var errs []error
	for i, sender := range cs.senders {
		if err := sender.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("sender %d (%T): %w", i, sender, err))
		}
	}
	return errors.Join(errs...)
}
