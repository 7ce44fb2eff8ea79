// Package server manages individual WebSocket connections, handling read/write
// pumps, rate limiting, and the relay lifecycle for each connection.
package server

import (
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	readWait  = 60 * time.Second
	writeWait = 10 * time.Second
	// Pings must go out more often than readWait expires on the peer side.
	pingInterval = 54 * time.Second

	sendBufferSize = 256
)

// Client represents one live WebSocket connection joined to a room. It holds
// the connection transport, the buffered outbound channel drained by the write
// pump, and a reference to the registry it joined through. Membership uses
// pointer identity; the uuid exists for logs only.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
	registry *Registry
	room     string
	id       string
	addr     string

	maxMessageSize int64
	limiter        *messageLimiter
	rateLimit      RateLimitConfig
}

// NewClient creates a Client for the given connection and room. The client is
// not a member of any room until the caller passes it to Registry.Join.
func NewClient(conn *websocket.Conn, registry *Registry, room, addr string) *Client {
	cfg := currentConfig()
	if conn != nil {
		conn.SetReadLimit(cfg.MaxMessageSize)
	}

	return &Client{
		conn:           conn,
		send:           make(chan []byte, sendBufferSize),
		done:           make(chan struct{}),
		registry:       registry,
		room:           room,
		id:             uuid.NewString(),
		addr:           addr,
		maxMessageSize: cfg.MaxMessageSize,
		limiter:        newMessageLimiter(cfg.RateLimit),
		rateLimit:      cfg.RateLimit,
	}
}

func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
		log.Printf("Error setting initial read deadline for %s: %v", c.id, err)
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
			log.Printf("Error setting read deadline in pong handler for %s: %v", c.id, err)
		}
		return nil
	})
}

// logReadEnd classifies the error that ended the relay loop. Every
// disconnect, graceful or not, terminates the loop the same way; the
// classification only shapes the log line.
func (c *Client) logReadEnd(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		log.Printf("Message from %s exceeded maximum size of %d bytes", c.id, c.maxMessageSize)

	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure):
		log.Printf("Client %s left room %q: %v", c.id, c.room, err)

	case errors.Is(err, io.EOF) || isExpectedCloseError(err):
		log.Printf("Client %s connection closed: %v", c.id, err)

	default:
		log.Printf("WebSocket read error from %s: %v", c.id, err)
	}
}

func (c *Client) checkRateLimit() bool {
	if c.limiter != nil && !c.limiter.allow() {
		messagesRateLimited.Inc()
		log.Printf("Rate limit exceeded for %s (%d messages per %s); discarding message",
			c.id, c.rateLimit.Burst, c.rateLimit.RefillInterval)
		return false
	}
	return true
}

// relay performs one broadcast pass: it snapshots the sender's room and
// attempts delivery of message to every member except the sender. A failed
// send to one peer is counted and skipped, never surfaced to the sender, and
// never aborts delivery to the remaining peers. A pass over a room with no
// other members drops the message. Returns the number of peers the message
// was handed to.
func (c *Client) relay(message []byte) int {
	delivered := 0
	for _, peer := range c.registry.Snapshot(c.room) {
		if peer == c {
			continue
		}
		if peer.trySend(message) {
			delivered++
		} else {
			relayFailures.Inc()
		}
	}
	messagesRelayed.Inc()
	return delivered
}

// trySend enqueues message for this peer's write pump without blocking. A peer
// whose buffer is full misses this message; its own pumps are responsible for
// detecting a dead transport and leaving the room.
func (c *Client) trySend(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// readPump runs the relay loop for this connection: receive a payload,
// broadcast it to the rest of the room, and on any termination leave the room
// exactly once. Payloads are opaque; nothing here parses them.
func (c *Client) readPump() {
	defer func() {
		c.registry.Leave(c.room, c)
		connectionsActive.Dec()
		close(c.done)
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("Error closing connection in readPump: %v", err)
		}
	}()

	c.setupReadConnection()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadEnd(err)
			return
		}

		if !c.checkRateLimit() {
			continue
		}

		c.relay(message)
	}
}

// writePump drains the outbound channel to the transport and keeps the
// connection alive with periodic pings. It exits when a write fails or when
// the read side signals the connection is done. One WriteMessage per payload
// preserves message boundaries for the opaque relay.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("Error closing connection in writePump: %v", err)
		}
	}()

	for {
		select {
		case message := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Error setting write deadline for %s: %v", c.id, err)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("Error writing message to %s: %v", c.id, err)
				}
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Error setting write deadline for ping to %s: %v", c.id, err)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("Error writing ping message to %s: %v", c.id, err)
				}
				return
			}

		case <-c.done:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err == nil {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			}
			return
		}
	}
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
