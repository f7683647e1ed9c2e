package service

import (
	"testing"
	"time"

	"chatspace/internal/apperr"
	"chatspace/internal/chat"

	"github.com/stretchr/testify/require"
)

func TestSendPersistsMessage(t *testing.T) {
	storage := testStorage(t)
	svc := NewMessageService(storage.Messages(), testLogger())

	before := time.Now().Add(-time.Second)
	msg, err := svc.Send(1, 2, "hi")
	require.NoError(t, err)

	require.Equal(t, uint(1), msg.SenderID)
	require.Equal(t, uint(2), msg.ReceiverID)
	require.Equal(t, "hi", msg.Content)
	require.Equal(t, "conversation_1_2", msg.ChatID)
	require.False(t, msg.CreatedAt.Before(before))

	stored, err := storage.Messages().History(msg.ChatID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, msg.ID, stored[0].ID)
}

func TestSendRejectsEmptyBody(t *testing.T) {
	storage := testStorage(t)
	svc := NewMessageService(storage.Messages(), testLogger())

	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := svc.Send(1, 2, body)
		require.True(t, apperr.IsValidation(err), "body %q", body)
	}

	stored, err := storage.Messages().History(chat.RoomLabel(1, 2))
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestSendRejectsSelfMessage(t *testing.T) {
	storage := testStorage(t)
	svc := NewMessageService(storage.Messages(), testLogger())

	_, err := svc.Send(1, 1, "hello me")
	require.True(t, apperr.IsValidation(err))
}

func TestHistoryIsSharedAndOrdered(t *testing.T) {
	storage := testStorage(t)
	svc := NewMessageService(storage.Messages(), testLogger())

	_, err := svc.Send(1, 2, "first")
	require.NoError(t, err)
	_, err = svc.Send(2, 1, "second")
	require.NoError(t, err)
	_, err = svc.Send(1, 3, "different pair")
	require.NoError(t, err)

	// Both participants read the same history regardless of argument order.
	fromAlice, err := svc.History(1, 2)
	require.NoError(t, err)
	fromBob, err := svc.History(2, 1)
	require.NoError(t, err)
	require.Equal(t, fromAlice, fromBob)

	require.Len(t, fromAlice, 2)
	require.Equal(t, "first", fromAlice[0].Content)
	require.Equal(t, "second", fromAlice[1].Content)
}
