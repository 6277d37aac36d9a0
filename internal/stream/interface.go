package stream

import (
	"context"
	"time"

	"github.com/auto-dns/mira-gateway/internal/domain"
)

// Conn is the subset of *websocket.Conn a session uses. Close and
// WriteControl may be called concurrently with the other methods.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Subscriber opens an ordered event feed that ends when ctx is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan domain.Event
}
