package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

const (
	defaultWriteTimeout = 10 * time.Second
	closeGracePeriod    = time.Second
)

type closeReason int

const (
	reasonDisconnect closeReason = iota
	reasonShutdown
	reasonFailure
)

// Session delivers one subscriber's event feed over a websocket connection.
// It moves from connecting to streaming once Run starts the feed and ends
// in closed exactly once.
type Session struct {
	id           string
	conn         Conn
	source       Subscriber
	logger       zerolog.Logger
	writeTimeout time.Duration

	state     atomic.Int32
	closeOnce sync.Once
	done      chan struct{}
}

func NewSession(conn Conn, source Subscriber, writeTimeout time.Duration, logger zerolog.Logger) *Session {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	id := uuid.NewString()
	return &Session{
		id:           id,
		conn:         conn,
		source:       source,
		writeTimeout: writeTimeout,
		logger:       logger.With().Str("component", "stream_session").Str("session", id).Logger(),
		done:         make(chan struct{}),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return State(s.state.Load()) }

// Done is closed once the session has closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run streams events until the subscriber disconnects, a send fails, ctx is
// cancelled or Close is called. The upstream feed is cancelled on return.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !s.state.CompareAndSwap(int32(StateConnecting), int32(StateStreaming)) {
		return
	}
	s.logger.Info().Msg("Event stream opened")

	events := s.source.Subscribe(ctx)
	disconnected := make(chan error, 1)
	go s.readLoop(disconnected)

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			s.finish(reasonShutdown, ctx.Err())
			return
		case err := <-disconnected:
			if isCleanDisconnect(err) {
				s.finish(reasonDisconnect, err)
			} else {
				s.finish(reasonFailure, err)
			}
			return
		case ev, ok := <-events:
			if !ok {
				// Upstream ended; the stream goes quiet until the subscriber leaves.
				s.logger.Info().Msg("Event feed ended")
				events = nil
				continue
			}
			if err := s.send(ev); err != nil {
				s.finish(reasonFailure, err)
				return
			}
		}
	}
}

// Close ends the session from the server side. It is safe to call more than
// once and concurrently with Run.
func (s *Session) Close() {
	s.finish(reasonShutdown, nil)
}

func (s *Session) send(ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// readLoop drains inbound frames so control frames are processed and
// reports the first read error, which marks the subscriber as gone.
func (s *Session) readLoop(disconnected chan<- error) {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			disconnected <- err
			return
		}
	}
}

func (s *Session) finish(reason closeReason, cause error) {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosed))
		close(s.done)

		deadline := time.Now().Add(closeGracePeriod)
		switch reason {
		case reasonDisconnect:
			s.logger.Info().Msg("Subscriber disconnected")
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		case reasonShutdown:
			s.logger.Info().Msg("Closing event stream")
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), deadline)
		case reasonFailure:
			s.logger.Warn().Err(cause).Msg("Event stream failed")
		}

		if err := s.conn.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("Ignoring error while closing connection")
		}
	})
}

func isCleanDisconnect(err error) bool {
	var closeErr *websocket.CloseError
	if !errors.As(err, &closeErr) {
		return false
	}
	switch closeErr.Code {
	case websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived:
		return true
	}
	return false
}
