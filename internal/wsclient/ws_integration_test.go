package wsclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/hiroyats05/CartasContraHumanidade/internal/protocol"
)

// Round-trips a join through a real websocket server: the server answers the
// first message it reads with a snapshot containing that player.
func TestConn_RealWebSocketRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		_, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}
		var cm protocol.ClientMessage
		if err := json.Unmarshal(data, &cm); err != nil {
			return
		}

		reply := protocol.ServerMessage{
			Event: "player_joined",
			Room:  cm.Room,
			State: &protocol.Snapshot{
				Room:    cm.Room,
				Players: []protocol.PlayerInfo{{ID: cm.PlayerID, Name: cm.Name}},
			},
		}
		payload, _ := json.Marshal(reply)
		_ = conn.Write(r.Context(), websocket.MessageText, payload)

		// hold the connection open until the client goes away
		_, _, _ = conn.Read(r.Context())
	}))
	defer srv.Close()

	url := strings.Replace(srv.URL, "http", "ws", 1) + "/ws"
	c := New(url, Options{}, nil, nil)
	defer c.Close()

	c.Connect()
	c.Send(protocol.ClientMessage{
		Action:   protocol.ActionJoin,
		Room:     "r1",
		PlayerID: "p1",
		Name:     "Ann",
	})

	waitStatus(t, c.Events(), StatusOpen, 2*time.Second)
	me := waitMessage(t, c.Events(), 2*time.Second)

	if me.Msg.State == nil || !me.Msg.State.HasPlayer("p1") {
		t.Fatalf("expected a snapshot acknowledging p1, got %+v", me.Msg)
	}
}
