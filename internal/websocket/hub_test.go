package websocket

import (
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func waitForUnregister(t *testing.T, h *Hub, userID string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		h.mu.RLock()
		_, ok := h.clients[userID]
		h.mu.RUnlock()
		if !ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("client was not unregistered")
}

// A slow consumer with a full Send buffer must be dropped without killing
// the hub: the Run loop owns the single close of the channel.
func TestHubSendFullBufferDropsClientOnce(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	slow := &Client{Hub: h, UserID: "u1", Send: make(chan []byte, 1)}
	h.register <- slow
	slow.Send <- []byte("occupied")

	h.Send("u1", map[string]string{"type": "chat"})
	waitForUnregister(t, h, "u1")

	// The buffered message is still readable, then the channel is closed
	// exactly once.
	if msg := <-slow.Send; string(msg) != "occupied" {
		t.Fatalf("buffered message = %q", msg)
	}
	if _, open := <-slow.Send; open {
		t.Fatal("channel still open after unregister")
	}

	// The hub goroutine survived and keeps delivering to healthy clients.
	healthy := &Client{Hub: h, UserID: "u2", Send: make(chan []byte, 4)}
	h.register <- healthy
	h.Send("u2", map[string]string{"type": "chat"})

	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("hub stopped delivering after dropping a slow client")
	}
}

func TestHubSendToUnknownUserIsNoop(t *testing.T) {
	h := NewHub(nil, nopLogger{})
	go h.Run()

	h.Send("nobody", map[string]string{"type": "chat"})

	c := &Client{Hub: h, UserID: "u1", Send: make(chan []byte, 4)}
	h.register <- c
	h.Send("u1", map[string]string{"type": "chat"})

	select {
	case <-c.Send:
	case <-time.After(time.Second):
		t.Fatal("delivery failed after a send to an unknown user")
	}
}
