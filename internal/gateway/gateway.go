// Package gateway defines the transport boundary between the session core
// and the room service's WebSocket endpoint.
package gateway

import (
	"context"
	"fmt"
)

// CloseCode is a WebSocket close status code.
type CloseCode int

const (
	// CloseNormal signals a clean, intentional shutdown. The supervisor does
	// not reconnect after it.
	CloseNormal CloseCode = 1000

	// CloseGoingAway is sent by servers that are restarting.
	CloseGoingAway CloseCode = 1001

	// CloseAbnormal is the synthetic code for a connection that dropped
	// without a close frame.
	CloseAbnormal CloseCode = 1006
)

// CloseError reports that the peer closed the connection.
type CloseError struct {
	Code   CloseCode
	Reason string
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("gateway: connection closed (%d): %s", e.Code, e.Reason)
}

// Clean reports whether the closure was intentional. Anything else schedules
// a reconnect.
func (e *CloseError) Clean() bool {
	return e.Code == CloseNormal
}

// Conn is a single established connection. ReadText blocks until a frame
// arrives and returns a *CloseError once the peer has closed. WriteText is
// safe for concurrent use.
type Conn interface {
	ReadText() ([]byte, error)
	WriteText(data []byte) error
	Close(code CloseCode) error
}

// Dialer opens connections to the gateway.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}
