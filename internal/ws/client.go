package ws

import (
	"time"

	"rps_arena/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	sendBuffer = 64
)

// Client is one live websocket connection bound to an authenticated account.
type Client struct {
	ConnID    string
	AccountID int64
	Name      string

	conn *websocket.Conn
	hub  *Hub

	// Send is drained by writePump. Fan-out to this client is
	// fire-and-forget: a full buffer drops the frame instead of blocking
	// the sender.
	Send chan []byte
}

func NewClient(connID string, accountID int64, name string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ConnID:    connID,
		AccountID: accountID,
		Name:      name,
		conn:      conn,
		hub:       hub,
		Send:      make(chan []byte, sendBuffer),
	}
}

// Run registers the client with the hub and pumps the connection until it
// drops. It blocks until the read side closes.
func (c *Client) Run() {
	c.hub.Connect(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.OnDisconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "conn", c.ConnID, "error", err)
			}
			return
		}
		c.hub.HandleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "conn", c.ConnID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue hands a frame to the write pump without blocking.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}
