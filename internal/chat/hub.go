package chat

import (
	"sync"

	"chatspace/internal/apperr"
	"chatspace/internal/applog"
)

// ErrNotParticipant is returned when a connection asks to join a room whose
// label does not encode its own authenticated user id.
var ErrNotParticipant = apperr.Validation("you are not a participant of this conversation")

// Subscriber is one live connection attached to a room. Deliver must not
// block; the websocket client satisfies this with a buffered outbound channel.
type Subscriber interface {
	Deliver(Event) error
}

// Hub maps room labels to the set of currently subscribed connections.
// Rooms are fully independent; an emptied room is pruned.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]map[Subscriber]struct{}
	joined map[Subscriber]string
	logger applog.Logger
}

func NewHub(logger applog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[Subscriber]struct{}),
		joined: make(map[Subscriber]string),
		logger: logger,
	}
}

// Join subscribes sub to room after checking that userID is actually one of
// the two participants the label encodes. A subscriber is in at most one room;
// joining again moves it.
func (h *Hub) Join(sub Subscriber, room string, userID uint) error {
	if !IsParticipant(room, userID) {
		h.logger.Logf("user %d refused entry to room %s", userID, room)
		return ErrNotParticipant
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.joined[sub]; ok {
		h.dropLocked(sub, prev)
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[Subscriber]struct{})
	}
	h.rooms[room][sub] = struct{}{}
	h.joined[sub] = room
	h.logger.Logf("user %d joined room %s (%d subscribed)", userID, room, len(h.rooms[room]))
	return nil
}

// Leave detaches sub from whatever room it is in. Called on disconnect.
func (h *Hub) Leave(sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.joined[sub]; ok {
		h.dropLocked(sub, room)
	}
}

// Broadcast delivers event to every subscriber of room, the sender's own
// connection included. A subscriber whose Deliver fails is detached.
func (h *Hub) Broadcast(room string, event Event) {
	h.mu.Lock()
	subs := make([]Subscriber, 0, len(h.rooms[room]))
	for sub := range h.rooms[room] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	var dead []Subscriber
	for _, sub := range subs {
		if err := sub.Deliver(event); err != nil {
			dead = append(dead, sub)
		}
	}
	if len(dead) > 0 {
		h.mu.Lock()
		for _, sub := range dead {
			if r, ok := h.joined[sub]; ok {
				h.dropLocked(sub, r)
			}
		}
		h.mu.Unlock()
		h.logger.Logf("detached %d dead subscribers from room %s", len(dead), room)
	}
}

// RoomSize reports the current subscriber count of room.
func (h *Hub) RoomSize(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[room])
}

func (h *Hub) dropLocked(sub Subscriber, room string) {
	delete(h.rooms[room], sub)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
	delete(h.joined, sub)
}
