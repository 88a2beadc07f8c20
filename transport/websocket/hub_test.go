package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/usecase"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func newTestClient(id string, queue int) *Client {
	return &Client{id: id, send: make(chan []byte, queue)}
}

func decode(t *testing.T, data []byte) Message {
	t.Helper()

	var message Message
	require.NoError(t, json.Unmarshal(data, &message))

	return message
}

func TestHub_SendTo(t *testing.T) {
	// Given: two registered clients
	hub := newTestHub()
	alice, bob := newTestClient("alice", 4), newTestClient("bob", 4)
	hub.register(alice)
	hub.register(bob)

	// When: sending a move to alice only
	hub.SendTo("alice", usecase.MoveMade{Position: 4, PlayerID: "a1", Symbol: entity.CellX})

	// Then: alice gets an enveloped message and bob gets nothing
	require.Len(t, alice.send, 1)
	assert.Empty(t, bob.send)

	message := decode(t, <-alice.send)
	assert.Equal(t, usecase.ActionMoveMade, message.Action)
	assert.JSONEq(t, `{"position":4,"playerId":"a1","symbol":"X"}`, string(message.Payload))
}

func TestHub_Groups(t *testing.T) {
	hub := newTestHub()
	alice, bob, carol := newTestClient("alice", 4), newTestClient("bob", 4), newTestClient("carol", 4)
	for _, client := range []*Client{alice, bob, carol} {
		hub.register(client)
	}

	hub.AddToGroup("alice", "GAME01")
	hub.AddToGroup("bob", "GAME01")
	hub.AddToGroup("ghost", "GAME01")

	t.Run("Group sends reach members only", func(t *testing.T) {
		hub.SendToGroup("GAME01", usecase.GameEnded{Reason: entity.ReasonDraw})

		assert.Len(t, alice.send, 1)
		assert.Len(t, bob.send, 1)
		assert.Empty(t, carol.send)

		message := decode(t, <-alice.send)
		assert.JSONEq(t, `{"reason":"draw"}`, string(message.Payload))
		<-bob.send
	})

	t.Run("Removed members stop receiving", func(t *testing.T) {
		hub.RemoveFromGroup("bob", "GAME01")
		hub.SendToGroup("GAME01", usecase.GameEnded{Reason: entity.ReasonOpponentLeft})

		assert.Len(t, alice.send, 1)
		assert.Empty(t, bob.send)
		<-alice.send
	})

	t.Run("Removed groups are silent", func(t *testing.T) {
		hub.RemoveGroup("GAME01")
		hub.SendToGroup("GAME01", usecase.GameEnded{Reason: entity.ReasonWin})

		assert.Empty(t, alice.send)
	})

	t.Run("Broadcast reaches everyone", func(t *testing.T) {
		hub.Broadcast(usecase.SessionListUpdated{Sessions: []entity.SessionSnapshot{}})

		for _, client := range []*Client{alice, bob, carol} {
			require.Len(t, client.send, 1)
			message := decode(t, <-client.send)
			assert.Equal(t, usecase.ActionSessionListUpdated, message.Action)
			assert.JSONEq(t, `{"sessions":[]}`, string(message.Payload))
		}
	})
}

func TestHub_FullQueueDisconnectsClient(t *testing.T) {
	// Given: a slow client whose queue holds a single message, grouped with a fast one
	hub := newTestHub()
	slow := newTestClient("slow", 1)
	fast := newTestClient("fast", 8)
	hub.register(slow)
	hub.register(fast)
	hub.AddToGroup("slow", "GAME01")
	hub.AddToGroup("fast", "GAME01")

	// When: the group gets more than the slow queue can hold
	for i := 0; i < 3; i++ {
		hub.SendToGroup("GAME01", usecase.ErrorMessage{Message: "Not your turn"})
	}

	// Then: the slow client is evicted without blocking anyone and its queue is closed after the buffered message
	assert.Equal(t, 1, hub.ClientCount())
	assert.Len(t, fast.send, 3)

	_, open := <-slow.send
	assert.True(t, open)
	_, open = <-slow.send
	assert.False(t, open)

	assert.NotPanics(t, func() {
		hub.SendTo("slow", usecase.ErrorMessage{Message: "gone"})
		hub.Broadcast(usecase.ErrorMessage{Message: "gone"})
	})
	assert.Len(t, fast.send, 4)
}

func TestHub_Unregister(t *testing.T) {
	hub := newTestHub()
	client := newTestClient("alice", 4)
	hub.register(client)
	hub.AddToGroup("alice", "GAME01")

	hub.unregister(client)
	hub.unregister(client)

	_, open := <-client.send
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientCount())

	assert.NotPanics(t, func() {
		hub.SendTo("alice", usecase.ErrorMessage{Message: "gone"})
		hub.SendToGroup("GAME01", usecase.ErrorMessage{Message: "gone"})
	})
}
