// Package broker carries domain events out of the hub to external sinks.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

var ErrClosed = errors.New("broker: publisher is closed")

const (
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
	maxBackoff     = 5 * time.Second
	publishTimeout = 10 * time.Second
)

// Sink receives every domain event; sinks ignore topics they do not handle.
type Sink interface {
	Name() string
	Publish(ctx context.Context, event models.DomainEvent) error
}

// retry runs op with exponential backoff, counting retries against sink.
func retry(ctx context.Context, sink string, log *zap.Logger, op func() error) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(initialBackoff),
				backoff.WithMaxInterval(maxBackoff),
			),
			maxRetries,
		),
		ctx,
	)
	return backoff.RetryNotify(op, b, func(err error, d time.Duration) {
		metrics.PublishRetries.WithLabelValues(sink).Inc()
		log.Warn("retrying publish", zap.String("sink", sink), zap.Duration("next", d), zap.Error(err))
	})
}
