package inbox

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	domainChat "github.com/zapdesk/zapdesk/domains/chat"
	"github.com/zapdesk/zapdesk/infrastructure/evolution"
)

// Poller re-fetches and re-reconciles the full chat list on a fixed
// interval. Fetch failures are logged and silently retried next tick; a
// stale in-flight fetch that lands late merges idempotently instead of
// being cancelled.
type Poller struct {
	client   *evolution.Client
	store    *Store
	interval time.Duration
	msgLimit int
}

func NewPoller(client *evolution.Client, store *Store, interval time.Duration, msgLimit int) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if msgLimit <= 0 {
		msgLimit = 50
	}
	return &Poller{client: client, store: store, interval: interval, msgLimit: msgLimit}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	raw, err := p.client.FetchChats(ctx)
	if err != nil {
		// Transport failures are never fatal here; the next tick retries.
		logrus.WithError(err).Debug("[POLLER] Chat fetch failed, retrying next interval")
		return
	}

	candidates := make([]domainChat.Chat, 0, len(raw))
	for _, rc := range raw {
		c, ok := FromRawChat(rc)
		if !ok {
			continue
		}
		// Backfill the transcript for chats with fresh activity, bounded by
		// the per-chat throttle.
		if len(c.Messages) == 0 && c.UnreadCount > 0 && p.store.NeedsBackfill(c.ID) {
			msgs, ferr := p.client.FetchMessages(ctx, rc.RemoteJID, p.msgLimit)
			if ferr != nil {
				logrus.WithError(ferr).Debugf("[POLLER] Message backfill failed for %s", rc.RemoteJID)
			}
			for _, rm := range msgs {
				c.Messages = append(c.Messages, FromRawMessage(rm))
			}
		}
		candidates = append(candidates, c)
	}

	p.store.ApplyFetch(ctx, candidates)
}
