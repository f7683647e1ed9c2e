package relay

import (
	"encoding/json"
	"testing"
	"time"

	"chatspace/internal/applog"
	"chatspace/internal/chat"

	"github.com/stretchr/testify/require"
)

// queueOnlyRelay builds a Relay without sockets. Publish must work on it:
// the socket side belongs to Run exclusively, so enqueueing an event may
// never reach for a socket.
func queueOnlyRelay(size int) *Relay {
	return &Relay{
		instanceID: "instance-a",
		out:        make(chan outbound, size),
		logger:     applog.Nop(),
	}
}

func TestPublishEnqueuesWithoutTouchingSockets(t *testing.T) {
	r := queueOnlyRelay(4)

	event := chat.Received("conversation_1_2", 1, "alice", "hi", time.Now())
	require.NoError(t, r.Publish("conversation_1_2", event))

	select {
	case ob := <-r.out:
		require.Equal(t, "conversation_1_2", ob.room)
		var f frame
		require.NoError(t, json.Unmarshal(ob.payload, &f))
		require.Equal(t, "instance-a", f.Origin)
		require.Equal(t, "conversation_1_2", f.Room)
		require.Equal(t, "hi", f.Event.Message)
	default:
		t.Fatal("publish did not enqueue the event")
	}
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	r := queueOnlyRelay(1)

	event := chat.Received("conversation_1_2", 1, "alice", "hi", time.Now())
	require.NoError(t, r.Publish("conversation_1_2", event))
	// Second publish finds the queue full and must fail instead of blocking.
	require.Error(t, r.Publish("conversation_1_2", event))
	require.Len(t, r.out, 1)
}
