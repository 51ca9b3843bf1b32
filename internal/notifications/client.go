package notifications

import (
	"log"
	"time"

	"ripple/internal/middleware"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must fire before pongWait lapses
	maxMessageSize = 4096
	sendBuffer     = 256
)

// dropNotice tells the frontend it missed events and should re-fetch.
var dropNotice = []byte(`{"type":"events_dropped","payload":{"reason":"buffer_full"}}`)

// Client pairs one websocket connection with its outbound queue.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID uint
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
	}
}

// ReadPump services pongs and detects the close. The event stream is
// server-push only, so any inbound frame content is discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.resetReadDeadline()
	c.Conn.SetPongHandler(func(string) error {
		c.resetReadDeadline()
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error (user %d): %v", c.UserID, err)
			}
			return
		}
	}
}

func (c *Client) resetReadDeadline() {
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
}

// WritePump drains the send queue onto the wire and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case message, open := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !open {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if c.Conn.WriteMessage(websocket.TextMessage, message) != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if c.Conn.WriteMessage(websocket.PingMessage, nil) != nil {
				return
			}
		}
	}
}

// TrySend enqueues without blocking: a slow client loses events rather than
// stalling the broadcast loop. The recover covers the race where the hub
// closes Send while a broadcast is in flight.
func (c *Client) TrySend(message []byte) {
	defer func() {
		if recover() != nil {
			middleware.WebSocketDrops.WithLabelValues("closed").Inc()
		}
	}()

	select {
	case c.Send <- message:
		return
	default:
	}

	middleware.WebSocketDrops.WithLabelValues("full").Inc()
	select {
	case c.Send <- dropNotice:
	default:
	}
}
