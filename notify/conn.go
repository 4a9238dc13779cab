package notify

import (
	"context"

	"github.com/gorilla/websocket"
)

// Conn is the live side of the channel. The default implementation wraps a
// gorilla WebSocket connection; tests substitute their own.
type Conn interface {
	ReadEvent() (Event, error)
	WriteJSON(v any) error
	Close() error
}

type Dialer func(ctx context.Context, url string) (Conn, error)

type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) ReadEvent() (Event, error) {
	var e Event
	if err := w.conn.ReadJSON(&e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (w *wsConn) WriteJSON(v any) error { return w.conn.WriteJSON(v) }

func (w *wsConn) Close() error { return w.conn.Close() }

// DialWebSocket is the production dialer.
func DialWebSocket(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn}, nil
}
