package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// AdminFeedHandler upgrades GET /api/ws/admin to a websocket that streams
// request lifecycle events to the admin dashboard.
func (s *Server) AdminFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		// AuthRequired ran before the upgrade.
		adminIDVal := conn.Locals("adminID")
		if adminIDVal == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(conn)
		if err != nil {
			log.Printf("admin feed: failed to register connection: %v", err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
