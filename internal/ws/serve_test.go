package ws

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	fws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type testServer struct {
	hub     *Hub
	url     string
	stopHub context.CancelFunc
}

func startServer(t *testing.T, handle MessageHandler) *testServer {
	t.Helper()

	hub := NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ws", UpgradeMiddleware(language.English), Handler(hub, handle, 1<<22))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()

	t.Cleanup(func() {
		stopHub()
		_ = app.ShutdownWithTimeout(time.Second)
	})

	return &testServer{hub: hub, url: "ws://" + ln.Addr().String() + "/ws", stopHub: stopHub}
}

func dial(t *testing.T, url string) *fws.Conn {
	t.Helper()
	conn, _, err := fws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHandler_RepliesAndReleasesConnections(t *testing.T) {
	payload := bytes.Repeat([]byte{7}, 256<<10)
	srv := startServer(t, func(_ context.Context, _ *Session, msgType int, data []byte) []Message {
		if msgType != websocket.BinaryMessage {
			return nil
		}
		return []Message{
			TextEvent(EventImageRendered, map[string]int{"bytes": len(data)}),
			Binary(payload),
		}
	})

	const clients = 40
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, _, err := fws.DefaultDialer.Dial(srv.url, nil)
			if !assert.NoError(t, err) {
				return
			}
			defer conn.Close()
			_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

			if !assert.NoError(t, conn.WriteMessage(fws.BinaryMessage, []byte("frame"))) {
				return
			}

			msgType, _, err := conn.ReadMessage()
			if assert.NoError(t, err) {
				assert.Equal(t, fws.TextMessage, msgType)
			}
			msgType, data, err := conn.ReadMessage()
			if assert.NoError(t, err) {
				assert.Equal(t, fws.BinaryMessage, msgType)
				assert.Len(t, data, len(payload))
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return srv.hub.Connected() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHandler_SessionLocaleFromQuery(t *testing.T) {
	srv := startServer(t, func(_ context.Context, s *Session, _ int, _ []byte) []Message {
		return []Message{TextEvent(EventLocaleSet, s.Locale.String())}
	})

	conn := dial(t, srv.url+"?locale=sv")
	require.NoError(t, conn.WriteMessage(fws.TextMessage, []byte("{}")))

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"data":"sv"`)
}

func TestHandler_DisconnectCancelsInFlightWork(t *testing.T) {
	started := make(chan struct{}, 1)
	cancelled := make(chan struct{}, 1)

	srv := startServer(t, func(ctx context.Context, _ *Session, _ int, _ []byte) []Message {
		started <- struct{}{}
		<-ctx.Done()
		cancelled <- struct{}{}
		return nil
	})

	conn := dial(t, srv.url)
	require.NoError(t, conn.WriteMessage(fws.BinaryMessage, []byte("frame")))

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("frame was never handled")
	}

	require.NoError(t, conn.Close())

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("handler context was not cancelled after the client left")
	}

	require.Eventually(t, func() bool { return srv.hub.Connected() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestHandler_HubShutdownClosesConnections(t *testing.T) {
	srv := startServer(t, func(_ context.Context, _ *Session, _ int, _ []byte) []Message {
		return nil
	})

	conn := dial(t, srv.url)
	require.Eventually(t, func() bool { return srv.hub.Connected() == 1 }, 5*time.Second, 10*time.Millisecond)

	srv.stopHub()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "connection should be closed, not idle")
	}

	require.Eventually(t, func() bool { return srv.hub.Connected() == 0 }, 5*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, srv.hub.Context().Err(), context.Canceled)
}
