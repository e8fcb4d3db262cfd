package notify

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/spicemart/spicesite/internal/domain"
	"go.uber.org/zap"
)

// Notifier forwards new inquiries to the operator mailbox in the background.
// Delivery is at most once: a failed send is logged and dropped.
type Notifier struct {
	sender Sender
	to     string
	pool   *ants.Pool
}

// NewNotifier creates a notifier with at most workers concurrent sends.
// Submissions beyond that are rejected rather than queued.
func NewNotifier(sender Sender, to string, workers int) (*Notifier, error) {
	if workers <= 0 {
		workers = 1
	}
	pool, err := ants.NewPool(workers,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p interface{}) {
			zap.L().Error("notify: send panicked", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, err
	}
	return &Notifier{sender: sender, to: to, pool: pool}, nil
}

// Recipient is the operator mailbox notifications are addressed to.
func (n *Notifier) Recipient() string {
	return n.to
}

// NotifyInquiry schedules the notification email for a stored inquiry and
// returns immediately.
func (n *Notifier) NotifyInquiry(inq domain.Inquiry) {
	msg := ComposeInquiry(n.to, &inq)
	err := n.pool.Submit(func() {
		if err := n.sender.Send(context.Background(), msg); err != nil {
			zap.L().Warn("notify: inquiry email failed",
				zap.Int64("inquiry_id", inq.ID),
				zap.Error(err))
			return
		}
		zap.L().Info("notify: inquiry email sent",
			zap.Int64("inquiry_id", inq.ID),
			zap.String("to", msg.To))
	})
	if err != nil {
		zap.L().Warn("notify: inquiry email dropped",
			zap.Int64("inquiry_id", inq.ID),
			zap.Error(err))
	}
}

// Release stops accepting work and waits up to timeout for in-flight sends.
func (n *Notifier) Release(timeout time.Duration) {
	if err := n.pool.ReleaseTimeout(timeout); err != nil {
		zap.L().Warn("notify: release timed out", zap.Error(err))
	}
}
