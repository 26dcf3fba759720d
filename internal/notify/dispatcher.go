package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/baharkarakas/task-manager/internal/metrics"
)

const (
	KindWelcome  = "welcome"
	KindFarewell = "farewell"
)

// Submitter accepts fire-and-forget jobs; *worker.Pool satisfies it.
type Submitter interface {
	Submit(func()) bool
}

// Dispatcher hands notifications to the worker pool. Callers never see a
// delivery error; failures end up in the log and the notifications metric.
type Dispatcher struct {
	n       Notifier
	pool    Submitter
	timeout time.Duration
	log     *slog.Logger
}

func NewDispatcher(n Notifier, pool Submitter, log *slog.Logger) *Dispatcher {
	return &Dispatcher{n: n, pool: pool, timeout: 30 * time.Second, log: log}
}

func (d *Dispatcher) Welcome(email, name string) {
	d.dispatch(KindWelcome, email, func(ctx context.Context) error { return d.n.Welcome(ctx, email, name) })
}

func (d *Dispatcher) Farewell(email, name string) {
	d.dispatch(KindFarewell, email, func(ctx context.Context) error { return d.n.Farewell(ctx, email, name) })
}

func (d *Dispatcher) dispatch(kind, email string, send func(context.Context) error) {
	ok := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := send(ctx); err != nil {
			metrics.Notifications.WithLabelValues(kind, "failed").Inc()
			d.log.Error("notification failed", "kind", kind, "to", email, "err", err)
			return
		}
		metrics.Notifications.WithLabelValues(kind, "sent").Inc()
	})
	if !ok {
		metrics.Notifications.WithLabelValues(kind, "dropped").Inc()
		d.log.Warn("notification dropped", "kind", kind, "to", email)
	}
}
