package wsutils

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
)

type ThreadSafeWriter struct {
	*websocket.Conn
	sync.Mutex

	closed atomic.Bool
}

func (t *ThreadSafeWriter) WriteJSON(val interface{}) error {
	t.Lock()
	defer t.Unlock()

	if t.closed.Load() {
		return websocket.ErrCloseSent
	}
	return t.Conn.WriteJSON(val)
}

func (t *ThreadSafeWriter) ReadJSON(val any) error {
	return t.Conn.ReadJSON(val)
}

// Close is safe to call from both the read loop teardown and a forced
// single-sign-on eviction racing with it.
func (t *ThreadSafeWriter) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.Conn.Close()
}

func NewThreadSafeWriter(conn *websocket.Conn) *ThreadSafeWriter {
	return &ThreadSafeWriter{
		Conn: conn,
	}
}
