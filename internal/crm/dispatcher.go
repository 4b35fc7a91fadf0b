package crm

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"mytreviews/internal/reviews"

	"go.uber.org/zap"
)

// Dispatcher runs tagging detached from the request that asked for it.
// Results are only logged.
type Dispatcher struct {
	tagger  Tagger
	timeout time.Duration
	logger  *zap.SugaredLogger

	wg         sync.WaitGroup
	dispatched atomic.Int64
	failed     atomic.Int64
}

func NewDispatcher(tagger Tagger, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		tagger:  tagger,
		timeout: requestTimeout + 5*time.Second,
		logger:  logger,
	}
}

// TagReviewReceived returns immediately. The task keeps the values of ctx but
// not its cancellation, so a finished request does not abort the tagging.
func (d *Dispatcher) TagReviewReceived(ctx context.Context, email string) {
	if email == "" {
		return
	}

	d.dispatched.Add(1)
	d.wg.Add(1)
	detached := context.WithoutCancel(ctx)

	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.failed.Add(1)
				d.logger.Errorw("non-critical CRM update panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(detached, d.timeout)
		defer cancel()

		res, err := d.tagger.TagReviewReceived(ctx, email)
		if err != nil {
			d.failed.Add(1)
			d.logger.Errorw("non-critical CRM update failed", "email", reviews.RedactEmail(email), "error", err)
			return
		}
		d.logger.Infow("CRM update finished", "tagged", res.Tagged, "contact_id", res.ContactID, "reason", res.Reason)
	}()
}

// Wait blocks until every dispatched task has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats is published on /debug/vars.
func (d *Dispatcher) Stats() map[string]int64 {
	return map[string]int64{
		"dispatched": d.dispatched.Load(),
		"failed":     d.failed.Load(),
	}
}
