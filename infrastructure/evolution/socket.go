package evolution

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// BackoffConfig controls the event stream's reconnection schedule.
type BackoffConfig struct {
	Base        time.Duration
	Ceiling     time.Duration
	MaxAttempts int
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Base:        2 * time.Second,
		Ceiling:     30 * time.Second,
		MaxAttempts: 10,
	}
}

// delayFor returns the reconnect delay for the given attempt (0-based):
// base doubling per attempt, capped at the ceiling.
func (b BackoffConfig) delayFor(attempt int) time.Duration {
	delay := b.Base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= b.Ceiling {
			return b.Ceiling
		}
	}
	if delay > b.Ceiling {
		return b.Ceiling
	}
	return delay
}

// EventStream holds the persistent duplex connection to the gateway and
// pushes every received message event into Events. When the connection
// drops, it reconnects with exponential backoff up to MaxAttempts, then
// gives up until Start is called again. A deliberate Close resets the
// attempt counter.
type EventStream struct {
	url     string
	apiKey  string
	backoff BackoffConfig

	Events chan RawMessage

	mu       sync.Mutex
	conn     *websocket.Conn
	attempts int
	closed   bool
	cancel   context.CancelFunc
}

func NewEventStream(url, apiKey string, backoff BackoffConfig) *EventStream {
	return &EventStream{
		url:     url,
		apiKey:  apiKey,
		backoff: backoff,
		Events:  make(chan RawMessage, 64),
	}
}

// Start launches the read loop. Safe to call again after the stream gave up
// or was closed; it acts as the manual reconnect trigger.
func (s *EventStream) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.closed = false
	s.attempts = 0
	s.mu.Unlock()

	go s.run(runCtx)
}

// Close shuts the connection down intentionally and resets the reconnect
// counter so a later Start begins fresh.
func (s *EventStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.attempts = 0
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.conn != nil {
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = s.conn.Close()
		s.conn = nil
	}
}

func (s *EventStream) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		s.mu.Lock()
		attempt := s.attempts
		s.mu.Unlock()

		if attempt >= s.backoff.MaxAttempts {
			logrus.Warnf("[SOCKET] Gave up after %d reconnect attempts; waiting for manual trigger", attempt)
			return
		}
		if attempt > 0 {
			delay := s.backoff.delayFor(attempt - 1)
			logrus.Infof("[SOCKET] Reconnecting in %s (attempt %d/%d)", delay, attempt, s.backoff.MaxAttempts)
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}

		if err := s.connectAndRead(ctx); err != nil {
			s.mu.Lock()
			if s.closed {
				s.mu.Unlock()
				return
			}
			s.attempts++
			s.mu.Unlock()
			logrus.WithError(err).Warn("[SOCKET] Event stream dropped")
			continue
		}
		return
	}
}

func (s *EventStream) connectAndRead(ctx context.Context) error {
	header := map[string][]string{"apikey": {s.apiKey}}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, header)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.attempts = 0 // established connections reset the schedule
	s.mu.Unlock()

	logrus.Infof("[SOCKET] Connected to %s", s.url)

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		msg, perr := ParseMessageEvent(raw)
		if perr != nil {
			// Malformed items are skipped; the stream keeps going.
			logrus.Debug("[SOCKET] Skipping unparseable event payload")
			continue
		}

		select {
		case s.Events <- msg:
		default:
			logrus.Warn("[SOCKET] Event buffer full, dropping message event")
		}
	}
}
