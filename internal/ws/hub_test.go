package ws

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.Equal(t, 0, hub.Connected())
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()

	first := newClient(hub, nil, &Session{ID: "a"})
	second := newClient(hub, nil, &Session{ID: "b"})

	hub.register(first)
	hub.register(second)
	assert.Equal(t, 2, hub.Connected())

	hub.unregister(first)
	assert.Equal(t, 1, hub.Connected())

	hub.unregister(first)
	assert.Equal(t, 1, hub.Connected())
}

func TestHub_RunReturnsOnCancel(t *testing.T) {
	hub := NewHub()
	hub.register(newClient(hub, nil, &Session{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.ErrorIs(t, hub.Context().Err(), context.Canceled)
}

func TestTextEvent(t *testing.T) {
	m := TextEvent(EventImageRendered, map[string]any{"emotions": []string{"happiness"}})
	assert.Equal(t, websocket.TextMessage, m.Type)

	var event struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(m.Data, &event))
	assert.Equal(t, "image.rendered", event.Type)
	assert.Equal(t, []any{"happiness"}, event.Data["emotions"])
}

func TestBinary(t *testing.T) {
	m := Binary([]byte{1, 2, 3})
	assert.Equal(t, websocket.BinaryMessage, m.Type)
	assert.Equal(t, []byte{1, 2, 3}, m.Data)
}

func TestUpgradeMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/ws", UpgradeMiddleware(language.English), func(c *fiber.Ctx) error {
		locale, _ := c.Locals(localLocale).(language.Tag)
		return c.SendString(locale.String())
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)

	req := httptest.NewRequest("GET", "/ws?locale=sv", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "sv", string(body))
}
