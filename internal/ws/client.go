package ws

import (
	"context"

	"github.com/gofiber/websocket/v2"
	"golang.org/x/text/language"
)

// Session is the per connection state seen by a MessageHandler. It is only
// touched from the connection's dispatch loop.
type Session struct {
	ID        string
	Locale    language.Tag
	IPAddress string
	UserAgent string
}

// MessageHandler turns one inbound frame into the frames to send back
type MessageHandler func(ctx context.Context, s *Session, msgType int, data []byte) []Message

type frame struct {
	msgType int
	data    []byte
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	session *Session
	send    chan Message
}

func newClient(hub *Hub, conn *websocket.Conn, session *Session) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		session: session,
		send:    make(chan Message, 16),
	}
}

// Serve runs the connection until the peer goes away, a write fails or ctx
// is cancelled. The context passed to handle is cancelled as soon as any of
// those happens. Serve returns only after the read and write pumps have
// stopped, so the connection is not used once the fiber handler returns.
func (c *Client) Serve(ctx context.Context, handle MessageHandler) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.hub.register(c)
	defer c.hub.unregister(c)

	frames := make(chan frame)
	readDone := make(chan struct{})
	writeDone := make(chan struct{})

	go func() {
		defer close(readDone)
		c.ReadPump(ctx, cancel, frames)
	}()
	go func() {
		defer close(writeDone)
		c.WritePump(cancel)
	}()

	c.dispatch(ctx, handle, frames)

	cancel()
	// unblocks a pending ReadMessage
	_ = c.conn.Close()
	<-readDone
	<-writeDone
}

// dispatch handles frames in arrival order so replies keep the same order.
// It owns the send channel and closes it on return.
func (c *Client) dispatch(ctx context.Context, handle MessageHandler, frames <-chan frame) {
	defer close(c.send)

	for {
		select {
		case <-ctx.Done():
			return
		case f := <-frames:
			for _, m := range handle(ctx, c.session, f.msgType, f.data) {
				select {
				case c.send <- m:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// ReadPump reads frames until the connection fails, then cancels the
// connection context.
func (c *Client) ReadPump(ctx context.Context, cancel context.CancelFunc, frames chan<- frame) {
	defer cancel()

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		select {
		case frames <- frame{msgType: msgType, data: data}:
		case <-ctx.Done():
			return
		}
	}
}

// WritePump sends queued messages until the send channel is closed. A failed
// write cancels the connection context.
func (c *Client) WritePump(cancel context.CancelFunc) {
	for message := range c.send {
		if err := c.conn.WriteMessage(message.Type, message.Data); err != nil {
			cancel()
			return
		}
	}
}
