package chat

import "time"

const (
	EventJoin           = "join"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
)

// TimestampLayout is the wire format for message timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Event is one frame on the realtime channel, both directions.
type Event struct {
	Event string `json:"event"`

	// Client -> server fields.
	Room        string `json:"room,omitempty"`
	Message     string `json:"message,omitempty"`
	OtherUserID uint   `json:"other_user_id,omitempty"`

	// Server -> client fields.
	SenderID  uint   `json:"sender_id,omitempty"`
	Sender    string `json:"sender,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Received builds the receive_message event for a persisted message.
func Received(room string, senderID uint, sender, body string, at time.Time) Event {
	return Event{
		Event:     EventReceiveMessage,
		Room:      room,
		SenderID:  senderID,
		Sender:    sender,
		Message:   body,
		Timestamp: at.Format(TimestampLayout),
	}
}
