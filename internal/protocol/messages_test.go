package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientMessage_ZeroValuedFieldsReachTheWire(t *testing.T) {
	ready := false
	idx := 0

	b, err := json.Marshal(ClientMessage{
		Action:   ActionReady,
		Room:     "r1",
		PlayerID: "p1",
		Ready:    &ready,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"action":"ready","room":"r1","player_id":"p1","ready":false}`, string(b))

	b, err = json.Marshal(ClientMessage{
		Action:    ActionSubmit,
		Room:      "r1",
		PlayerID:  "p1",
		CardIndex: &idx,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"action":"submit","room":"r1","player_id":"p1","card_index":0}`, string(b))
}

func TestServerMessage_AbsentFieldsDefaultToZero(t *testing.T) {
	var m ServerMessage
	require.NoError(t, json.Unmarshal([]byte(`{"event":"player_joined","room":"r1"}`), &m))
	require.Equal(t, "player_joined", m.Event)
	require.Equal(t, "r1", m.Room)
	require.Nil(t, m.State)
	require.Nil(t, m.Rooms)
	require.Empty(t, m.Winner)
}

func TestServerMessage_StateBroadcast(t *testing.T) {
	payload := `{
		"event": "submitted",
		"room": "r1",
		"state": {
			"players": [{"id":"p1","name":"Ann","hand_count":5,"score":1},{"id":"p2"}],
			"deck_count": 40,
			"submissions": ["p1"],
			"submission_texts": {"p1":"a card"},
			"voting_open": false,
			"your_hand": ["one","two"]
		}
	}`
	var m ServerMessage
	require.NoError(t, json.Unmarshal([]byte(payload), &m))
	require.NotNil(t, m.State)
	require.True(t, m.State.HasPlayer("p2"))
	require.False(t, m.State.HasPlayer("p9"))

	p, ok := m.State.Player("p1")
	require.True(t, ok)
	require.Equal(t, 5, p.HandCount)
	require.Equal(t, []string{"one", "two"}, m.State.YourHand)
}

func TestRoomList_AcceptsStringsAndObjects(t *testing.T) {
	var m ServerMessage
	require.NoError(t, json.Unmarshal([]byte(`{"rooms":["r1",{"room":"r2","players":3}]}`), &m))
	require.Equal(t, RoomList{{Room: "r1"}, {Room: "r2", Players: 3}}, m.Rooms)

	// an empty list is still a reply, distinguishable from no rooms field
	m = ServerMessage{}
	require.NoError(t, json.Unmarshal([]byte(`{"rooms":[]}`), &m))
	require.NotNil(t, m.Rooms)
	require.Len(t, m.Rooms, 0)
}
