package broker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

// Async queues events and delivers them to every sink from one goroutine, so
// Publish never blocks the caller. A full queue drops the event.
type Async struct {
	sinks []Sink
	queue chan models.DomainEvent
	log   *zap.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsync(log *zap.Logger, buffer int, sinks ...Sink) *Async {
	a := &Async{
		sinks: sinks,
		queue: make(chan models.DomainEvent, buffer),
		log:   log,
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) Publish(event models.DomainEvent) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return
	}
	select {
	case a.queue <- event:
	default:
		metrics.EventsDropped.Inc()
		a.log.Warn("publish queue full, dropping event", zap.String("topic", event.Topic), zap.String("key", event.Key))
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return nil
}

func (a *Async) run() {
	defer close(a.done)
	for event := range a.queue {
		for _, sink := range a.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			err := sink.Publish(ctx, event)
			cancel()
			if err != nil {
				metrics.PublishFailures.WithLabelValues(sink.Name()).Inc()
				a.log.Error("sink publish failed",
					zap.String("sink", sink.Name()),
					zap.String("topic", event.Topic),
					zap.String("key", event.Key),
					zap.Error(err))
				continue
			}
			metrics.EventsPublished.WithLabelValues(sink.Name()).Inc()
		}
	}
}
