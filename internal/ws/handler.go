package ws

import (
	"net/http"
	"time"

	"chatspace/internal/apperr"
	"chatspace/internal/applog"
	"chatspace/internal/auth"
	"chatspace/internal/chat"
	"chatspace/internal/service"

	"github.com/gorilla/websocket"
)

// Publisher forwards a broadcast to peer instances. Nil when the relay is
// disabled.
type Publisher interface {
	Publish(room string, event chat.Event) error
}

// Handler upgrades /ws requests and runs the per-connection event loop. The
// connection authenticates with the short-lived token the conversation page
// embeds, so the authenticated identity travels with every join and send
// instead of living in ambient session state.
type Handler struct {
	upgrader websocket.Upgrader
	tokens   *auth.TokenIssuer
	hub      *chat.Hub
	messages service.MessageService
	relay    Publisher
	logger   applog.Logger
}

func NewHandler(tokens *auth.TokenIssuer, hub *chat.Hub, messages service.MessageService, relay Publisher, logger applog.Logger) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		tokens:   tokens,
		hub:      hub,
		messages: messages,
		relay:    relay,
		logger:   logger,
	}
}

func (h *Handler) Logf(format string, v ...any) {
	h.logger.Logf(format, v...)
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	userID, username, err := h.tokens.Validate(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logf("upgrade failed for user %d: %v", userID, err)
		return
	}

	client := newClient(conn, userID, username)
	go client.writePump()
	h.readLoop(client)
}

func (h *Handler) readLoop(c *Client) {
	defer func() {
		h.hub.Leave(c)
		close(c.done)
	}()

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event chat.Event
		if err := c.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logf("connection of user %d dropped: %v", c.userID, err)
			}
			return
		}

		switch event.Event {
		case chat.EventJoin:
			if err := h.hub.Join(c, event.Room, c.userID); err != nil {
				c.Deliver(chat.Event{Event: "error", Message: apperr.UserMessage(err)})
			}
		case chat.EventSendMessage:
			h.handleSend(c, event)
		default:
			h.Logf("user %d sent unknown event %q", c.userID, event.Event)
		}
	}
}

// handleSend persists first, then broadcasts. A persistence failure aborts
// the operation and nothing reaches the room.
func (h *Handler) handleSend(c *Client, event chat.Event) {
	if event.Room != chat.RoomLabel(c.userID, event.OtherUserID) {
		c.Deliver(chat.Event{Event: "error", Message: "room does not match the addressed user"})
		return
	}

	message, err := h.messages.Send(c.userID, event.OtherUserID, event.Message)
	if err != nil {
		h.Logf("send by user %d failed: %v", c.userID, err)
		c.Deliver(chat.Event{Event: "error", Message: apperr.UserMessage(err)})
		return
	}

	out := chat.Received(event.Room, c.userID, c.username, message.Content, message.CreatedAt)
	h.hub.Broadcast(event.Room, out)
	if h.relay != nil {
		if err := h.relay.Publish(event.Room, out); err != nil {
			h.Logf("relay publish failed for %s: %v", event.Room, err)
		}
	}
}
