package ws

import (
	"errors"
	"time"

	"chatspace/internal/chat"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxFrameSize = 16 << 10

	// Events queued per connection before it is considered a slow consumer
	// and detached.
	sendBuffer = 32
)

var (
	errSlowConsumer = errors.New("subscriber send buffer full")
	errClientClosed = errors.New("subscriber connection closed")
)

// Client is one websocket connection bound to an authenticated user. It
// satisfies chat.Subscriber; the hub hands events to Deliver and the write
// pump drains them onto the wire.
type Client struct {
	conn     *websocket.Conn
	send     chan chat.Event
	done     chan struct{}
	userID   uint
	username string
}

func newClient(conn *websocket.Conn, userID uint, username string) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan chat.Event, sendBuffer),
		done:     make(chan struct{}),
		userID:   userID,
		username: username,
	}
}

// Deliver queues an event without blocking. A full buffer means the reader on
// the other end stopped keeping up, and the hub drops the client. The send
// channel is never closed; shutdown is signalled through done so a broadcast
// racing a disconnect cannot panic.
func (c *Client) Deliver(event chat.Event) error {
	select {
	case <-c.done:
		return errClientClosed
	default:
	}
	select {
	case c.send <- event:
		return nil
	default:
		return errSlowConsumer
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
