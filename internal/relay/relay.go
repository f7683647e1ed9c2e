package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"syscall"
	"time"

	"chatspace/internal/applog"
	"chatspace/internal/chat"

	"github.com/google/uuid"
	zmq "github.com/pebbe/zmq4"
)

// Outbound events wait here for the sender goroutine. Publishing drops the
// event rather than blocking a websocket read loop when the queue is full.
const sendQueueSize = 64

func getFullAddress(address string) string {
	return fmt.Sprintf("tcp://%s", address)
}

// Relay bridges broadcasts between server instances. Every persisted message
// is published on a PUB socket with the room label as topic; a SUB socket
// connected to each peer injects inbound frames into the local hub, so two
// participants on different instances still share a live room.
//
// zmq sockets are not safe for concurrent use. Run owns both of them: one
// goroutine drains the publish queue into the PUB socket, another reads the
// SUB socket, and each closes its socket on shutdown. Publish only enqueues.
type Relay struct {
	instanceID string
	pub        *zmq.Socket
	sub        *zmq.Socket
	out        chan outbound
	hub        *chat.Hub
	logger     applog.Logger
}

type frame struct {
	Origin string     `json:"origin"`
	Room   string     `json:"room"`
	Event  chat.Event `json:"event"`
}

type outbound struct {
	room    string
	payload []byte
}

// New binds the PUB socket on bindAddr and connects the SUB socket to every
// peer. Peers may be empty; the instance then only publishes.
func New(bindAddr string, peers []string, hub *chat.Hub, logger applog.Logger) (*Relay, error) {
	pub, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("creating PUB socket: %w", err)
	}
	if err := pub.Bind(getFullAddress(bindAddr)); err != nil {
		pub.Close()
		return nil, fmt.Errorf("could not bind relay on %s: %w", bindAddr, err)
	}

	sub, err := zmq.NewSocket(zmq.SUB)
	if err != nil {
		pub.Close()
		return nil, fmt.Errorf("creating SUB socket: %w", err)
	}
	for _, peer := range peers {
		if err := sub.Connect(getFullAddress(peer)); err != nil {
			pub.Close()
			sub.Close()
			return nil, fmt.Errorf("could not connect to peer %s: %w", peer, err)
		}
	}
	if err := sub.SetSubscribe(""); err != nil {
		pub.Close()
		sub.Close()
		return nil, err
	}

	return &Relay{
		instanceID: uuid.New().String(),
		pub:        pub,
		sub:        sub,
		out:        make(chan outbound, sendQueueSize),
		hub:        hub,
		logger:     logger,
	}, nil
}

func (r *Relay) Logf(format string, v ...any) {
	r.logger.Logf(format, v...)
}

// Publish enqueues one room event for the sender goroutine. It never touches
// the sockets and is safe to call from any number of connection goroutines.
func (r *Relay) Publish(room string, event chat.Event) error {
	payload, err := json.Marshal(frame{Origin: r.instanceID, Room: room, Event: event})
	if err != nil {
		return err
	}
	select {
	case r.out <- outbound{room: room, payload: payload}:
		return nil
	default:
		return fmt.Errorf("relay queue full, dropped event for room %s", room)
	}
}

// Run drives both sockets until ctx is cancelled, then closes them. Each
// socket is used by exactly one goroutine for its whole lifetime.
func (r *Relay) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.sendLoop(ctx)
	}()
	r.receiveLoop(ctx)
	wg.Wait()
}

func (r *Relay) sendLoop(ctx context.Context) {
	defer r.pub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ob := <-r.out:
			if _, err := r.pub.SendMessage(ob.room, ob.payload); err != nil {
				r.Logf("relay publish to room %s failed: %v", ob.room, err)
			}
		}
	}
}

func (r *Relay) receiveLoop(ctx context.Context) {
	defer r.sub.Close()
	// Receive timeout keeps the ctx check live between frames.
	r.sub.SetRcvtimeo(500 * time.Millisecond)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		parts, err := r.sub.RecvMessage(0)
		if err != nil {
			if zmq.AsErrno(err) == zmq.Errno(syscall.EAGAIN) {
				continue
			}
			r.Logf("relay receive error: %v", err)
			continue
		}
		if len(parts) < 2 {
			continue
		}

		var f frame
		if err := json.Unmarshal([]byte(parts[1]), &f); err != nil {
			r.Logf("dropping malformed relay frame: %v", err)
			continue
		}
		if f.Origin == r.instanceID {
			continue
		}
		r.hub.Broadcast(f.Room, f.Event)
	}
}
