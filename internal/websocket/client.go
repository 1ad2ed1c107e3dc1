package websocket

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Inbound limit is generous: a pasted vacancy description can be long.
	maxMessageSize = 16384
)

// ChatProcessor runs one user turn and returns the reply split into
// transport-sized chunks. Implemented by the assistant service.
type ChatProcessor interface {
	Process(ctx context.Context, userID, sessionID, chat string) ([]string, error)
}

// inboundMessage is what the client sends over the socket.
type inboundMessage struct {
	SessionId string `json:"session_id"`
	Chat      string `json:"chat"`
}

// outboundMessage is what the server pushes back. Type is "typing" while a
// turn is being processed, "chat" for reply chunks, "error" on failure.
type outboundMessage struct {
	Type      string `json:"type"`
	SessionId string `json:"session_id,omitempty"`
	Chat      string `json:"chat,omitempty"`
	Chunk     int    `json:"chunk,omitempty"`
	Chunks    int    `json:"chunks,omitempty"`
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// UserID associated with this connection
	UserID string

	// Buffered channel of outbound messages.
	Send chan []byte

	// Turn execution for inbound chat messages.
	Processor ChatProcessor
}

// readPump pumps messages from the websocket connection into the workflow.
func (c *Client) readPump() {
	defer func() {
		log.Printf("readPump exiting for user %s", c.UserID)
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	log.Printf("readPump started for user %s", c.UserID)
	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("readPump error for user %s: %v", c.UserID, err)
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.push(outboundMessage{Type: "error", Chat: "Invalid message format"})
			continue
		}

		c.handleChat(msg)
	}
}

// handleChat runs one turn. Each read loop iteration processes one message,
// so turns on a single connection are naturally serialized.
func (c *Client) handleChat(msg inboundMessage) {
	c.push(outboundMessage{Type: "typing", SessionId: msg.SessionId})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	chunks, err := c.Processor.Process(ctx, c.UserID, msg.SessionId, msg.Chat)
	if err != nil {
		log.Printf("chat processing failed for user %s: %v", c.UserID, err)
		c.push(outboundMessage{Type: "error", SessionId: msg.SessionId, Chat: err.Error()})
		return
	}

	for i, chunk := range chunks {
		c.push(outboundMessage{
			Type:      "chat",
			SessionId: msg.SessionId,
			Chat:      chunk,
			Chunk:     i + 1,
			Chunks:    len(chunks),
		})
	}
}

func (c *Client) push(msg outboundMessage) {
	data, _ := json.Marshal(msg)
	select {
	case c.Send <- data:
	default:
		log.Printf("send buffer full for user %s, dropping message", c.UserID)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		log.Printf("writePump exiting for user %s", c.UserID)
		ticker.Stop()
		c.Conn.Close()
	}()

	log.Printf("writePump started for user %s", c.UserID)
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("writePump Ping error for user %s: %v", c.UserID, err)
				return
			}
		}
	}
}
