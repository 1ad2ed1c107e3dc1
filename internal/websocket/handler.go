package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs wires an upgraded connection into the hub and starts its pumps.
func ServeWs(hub *Hub, c *websocket.Conn, userID string, processor ChatProcessor) {
	client := &Client{
		Hub:       hub,
		Conn:      c,
		UserID:    userID,
		Send:      make(chan []byte, 256),
		Processor: processor,
	}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
