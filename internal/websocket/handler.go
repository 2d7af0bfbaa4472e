package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches one dashboard connection to the hub.
func ServeWs(hub *Hub, c *websocket.Conn, companyID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, CompanyID: companyID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // runs in the handler goroutine
}
