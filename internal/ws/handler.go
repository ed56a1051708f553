package ws

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/saturnino-fabrica-de-software/memeface/internal/meme"
)

const (
	localLocale    = "ws_locale"
	localIP        = "ws_ip"
	localUserAgent = "ws_user_agent"
)

// Handler serves an upgraded connection. Frames larger than readLimit close
// the connection. The handler returns only once nothing else uses c, since
// the websocket package recycles it afterwards.
func Handler(hub *Hub, handle MessageHandler, readLimit int64) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if readLimit > 0 {
			c.SetReadLimit(readLimit)
		}

		session := &Session{ID: uuid.NewString()}
		if locale, ok := c.Locals(localLocale).(language.Tag); ok {
			session.Locale = locale
		}
		session.IPAddress, _ = c.Locals(localIP).(string)
		session.UserAgent, _ = c.Locals(localUserAgent).(string)

		newClient(hub, c, session).Serve(hub.Context(), handle)
	})
}

// UpgradeMiddleware rejects plain HTTP requests and resolves the initial
// session locale the same way POST /emotions does.
func UpgradeMiddleware(defaultLocale language.Tag) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		c.Locals(localLocale, meme.ParseLocale(c.Get(fiber.HeaderAcceptLanguage), c.Query("locale"), defaultLocale))
		c.Locals(localIP, c.IP())
		c.Locals(localUserAgent, c.Get(fiber.HeaderUserAgent))
		return c.Next()
	}
}
