package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	gatewaypkg "github.com/foxseedlab/rvrbot/internal/gateway"
)

type wsDialer struct{}

// NewDialer returns a Dialer speaking the gateway's text-frame WebSocket
// protocol.
func NewDialer() gatewaypkg.Dialer {
	return &wsDialer{}
}

func (d *wsDialer) Dial(ctx context.Context, url string) (gatewaypkg.Conn, error) {
	conn, _, _, err := ws.Dial(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	return &wsConn{conn: conn}, nil
}

type wsConn struct {
	conn    net.Conn
	writeMu sync.Mutex
}

func (c *wsConn) ReadText() ([]byte, error) {
	data, err := wsutil.ReadServerText(c.conn)
	if err != nil {
		var closed wsutil.ClosedError
		if errors.As(err, &closed) {
			return nil, &gatewaypkg.CloseError{
				Code:   gatewaypkg.CloseCode(closed.Code),
				Reason: closed.Reason,
			}
		}
		return nil, err
	}
	return data, nil
}

func (c *wsConn) WriteText(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return wsutil.WriteClientText(c.conn, data)
}

func (c *wsConn) Close(code gatewaypkg.CloseCode) error {
	c.writeMu.Lock()
	frame := ws.NewCloseFrame(ws.NewCloseFrameBody(ws.StatusCode(code), ""))
	_ = ws.WriteFrame(c.conn, ws.MaskFrame(frame))
	c.writeMu.Unlock()
	return c.conn.Close()
}
