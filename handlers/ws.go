// handlers/ws.go - Websocket notification endpoint
package handlers

import (
	"fitforge/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade gates the upgrade and authenticates via ?token= (browsers
// can't set an Authorization header on a websocket request).
func WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := middleware.ParseToken(c.Query("token"))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid or missing token"})
	}
	if id, ok := claims["user_id"].(float64); ok {
		c.Locals("userId", uint(id))
		return c.Next()
	}
	return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
}

// NotificationSocket hands the connection to the hub.
func NotificationSocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("userId").(uint)
		if userID == 0 {
			conn.Close()
			return
		}
		notifyHub.Serve(userID, conn)
	})
}
