package wsclient

import (
	"context"

	"github.com/coder/websocket"
)

// Transport is the minimal surface of one physical connection. Tests swap in
// an in-memory implementation; production uses the websocket dialer below.
type Transport interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}

// Dialer establishes a Transport to the given endpoint.
type Dialer func(ctx context.Context, url string) (Transport, error)

// Dial connects over WebSocket with JSON text frames.
func Dial(ctx context.Context, url string) (Transport, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return wsTransport{c: c}, nil
}

type wsTransport struct {
	c *websocket.Conn
}

func (t wsTransport) Read(ctx context.Context) ([]byte, error) {
	_, data, err := t.c.Read(ctx)
	return data, err
}

func (t wsTransport) Write(ctx context.Context, data []byte) error {
	return t.c.Write(ctx, websocket.MessageText, data)
}

func (t wsTransport) Close() error {
	return t.c.Close(websocket.StatusNormalClosure, "bye")
}
