package sse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/testing/leaktest"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt := <-c.EventChannel:
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case evt := <-c.EventChannel:
		t.Fatalf("unexpected event %s", evt.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SessionFiltering(t *testing.T) {
	hub := startHub(t)

	s1 := hub.Register(nil, "s1")
	s2 := hub.Register(nil, "s2")
	all := hub.Register(nil, "")
	waitForClients(t, hub, 3)

	hub.Broadcast(EventTypeNodeDepleted, "s1", NodeDepletedPayload{SessionID: "s1", NodeID: "n1"})

	assert.Equal(t, "s1", receive(t, s1).SessionID)
	assert.Equal(t, EventTypeNodeDepleted, receive(t, all).Type)
	assertNothing(t, s2)

	// Session-less events reach everybody
	hub.Broadcast(EventTypeNodesRespawned, "", NodesRespawnedPayload{Count: 2})
	assert.Equal(t, EventTypeNodesRespawned, receive(t, s1).Type)
	assert.Equal(t, EventTypeNodesRespawned, receive(t, s2).Type)
	assert.Equal(t, EventTypeNodesRespawned, receive(t, all).Type)
}

func TestHub_TypeFiltering(t *testing.T) {
	hub := startHub(t)

	claims := hub.Register([]string{EventTypeClaimIssued}, "")
	waitForClients(t, hub, 1)

	hub.Broadcast(EventTypeNodesRespawned, "", NodesRespawnedPayload{Count: 1})
	hub.Broadcast(EventTypeClaimIssued, "", ClaimPayload{ClaimID: "c1"})

	evt := receive(t, claims)
	assert.Equal(t, EventTypeClaimIssued, evt.Type)
	assertNothing(t, claims)
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := startHub(t)

	c := hub.Register(nil, "")
	waitForClients(t, hub, 1)

	hub.Unregister(c.ID)
	waitForClients(t, hub, 0)

	_, ok := <-c.EventChannel
	assert.False(t, ok)
}

func TestSubscriber_BridgesBusEvents(t *testing.T) {
	hub := startHub(t)
	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	c := hub.Register(nil, "s1")
	waitForClients(t, hub, 1)

	playerID := "p1"
	require.NoError(t, bus.Publish(context.Background(), event.NewMiningSucceededEvent(&domain.MiningAttempt{
		AttemptID:    "a1",
		PlayerID:     &playerID,
		SessionID:    "s1",
		NodeID:       "n7",
		ResourceType: domain.ResourceCobalt,
		AttemptedAt:  time.Now(),
	})))

	evt := receive(t, c)
	assert.Equal(t, EventTypeNodeDepleted, evt.Type)
	payload, ok := evt.Payload.(NodeDepletedPayload)
	require.True(t, ok)
	assert.Equal(t, "n7", payload.NodeID)
	assert.Equal(t, "cobalt", payload.ResourceType)
	assert.Equal(t, "p1", payload.PlayerID)

	txRef := "0xabc"
	require.NoError(t, bus.Publish(context.Background(), event.NewClaimEvent(event.ClaimConfirmed,
		&domain.ClaimSignature{ClaimID: "c1", Wallet: "0x01", Amount: 5, Nonce: 2, TxReference: &txRef})))

	evt = receive(t, c)
	assert.Equal(t, EventTypeClaimConfirmed, evt.Type)
	assert.Equal(t, "0xabc", evt.Payload.(ClaimPayload).TxReference)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "e1", Type: EventTypeNodesRespawned, Payload: NodesRespawnedPayload{Count: 4}})
	require.NoError(t, err)

	s := string(msg)
	assert.True(t, strings.HasPrefix(s, "id: e1\nevent: nodes.respawned\ndata: {"))
	assert.Contains(t, s, `"count":4`)
	assert.True(t, strings.HasSuffix(s, "\n\n"))
}

func TestHub_StopReleasesGoroutines(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		hub := NewHub()
		hub.Start()
		for i := 0; i < 10; i++ {
			hub.Register(nil, "session-1")
		}
		waitForClients(t, hub, 10)
		hub.Broadcast(EventTypeNodesRespawned, "", map[string]int{"count": 1})
		hub.Stop()
	})
}

func TestHub_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := startHub(t)
	slow := hub.Register(nil, "")
	fast := hub.Register([]string{EventTypeClaimIssued}, "")

	for i := 0; i < ClientEventBuffer+10; i++ {
		hub.Broadcast(EventTypeNodesRespawned, "", NodesRespawnedPayload{Count: 1})
	}
	hub.Broadcast(EventTypeClaimIssued, "", ClaimPayload{ClaimID: "c9"})

	assert.Equal(t, "c9", receive(t, fast).Payload.(ClaimPayload).ClaimID)
	assert.Eventually(t, func() bool { return slow.Dropped() >= 10 }, time.Second, 5*time.Millisecond)
}

func TestHub_RegisterAfterStop(t *testing.T) {
	hub := NewHub()
	hub.Start()
	hub.Stop()
	hub.Stop()

	c := hub.Register(nil, "")
	_, open := <-c.EventChannel
	assert.False(t, open)
	assert.Zero(t, hub.ClientCount())
	assert.NotPanics(t, func() { hub.Unregister(c.ID) })
}
