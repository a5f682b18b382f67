package inbox

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/zapdesk/zapdesk/infrastructure/evolution"
	"github.com/zapdesk/zapdesk/pkg/msgworker"
)

// EventConsumer bridges the gateway's push stream into the store, fanning
// events out through the worker pool so one chat's events stay ordered while
// distinct chats reconcile in parallel.
type EventConsumer struct {
	stream *evolution.EventStream
	pool   *msgworker.EventWorkerPool
	store  *Store
}

func NewEventConsumer(stream *evolution.EventStream, pool *msgworker.EventWorkerPool, store *Store) *EventConsumer {
	return &EventConsumer{stream: stream, pool: pool, store: store}
}

// Run blocks until ctx is cancelled, dispatching every pushed message event.
func (e *EventConsumer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case rm, ok := <-e.stream.Events:
			if !ok {
				return
			}
			candidate, accepted := chatForEvent(rm)
			if !accepted {
				logrus.Debugf("[INBOX] Ignoring push event for %s", rm.ChatJID)
				continue
			}
			e.pool.Dispatch(msgworker.EventJob{
				ChatKey: candidate.ID,
				Handler: func(jobCtx context.Context) error {
					e.store.ApplyEvent(jobCtx, candidate)
					return nil
				},
			})
		}
	}
}
