package protocol

import "encoding/json"

// Action is the verb carried in every client message.
type Action string

const (
	ActionCreate Action = "create"
	ActionJoin   Action = "join"
	ActionList   Action = "list"
	ActionReady  Action = "ready"
	ActionStart  Action = "start"
	ActionState  Action = "state"
	ActionSubmit Action = "submit"
	ActionVote   Action = "vote"
)

// ClientMessage is one outbound action addressed to a room. Ready and
// CardIndex are pointers so that false / 0 still reach the wire.
type ClientMessage struct {
	Action        Action `json:"action"`
	Room          string `json:"room,omitempty"`
	PlayerID      string `json:"player_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Ready         *bool  `json:"ready,omitempty"`
	CardIndex     *int   `json:"card_index,omitempty"`
	VoterID       string `json:"voter_id,omitempty"`
	VotedPlayerID string `json:"voted_player_id,omitempty"`
}

// ServerMessage is an untyped inbound record. The server mixes several
// payload kinds into one shape; any combination of fields may be present and
// absent fields stay zero. Nothing here is validated beyond what is read.
type ServerMessage struct {
	State  *Snapshot `json:"state,omitempty"`
	Event  string    `json:"event,omitempty"`
	Status string    `json:"status,omitempty"`
	Room   string    `json:"room,omitempty"`
	Rooms  RoomList  `json:"rooms,omitempty"`
	Winner string    `json:"winner,omitempty"`
	Player string    `json:"player,omitempty"`
	Ready  bool      `json:"ready,omitempty"`
	Error  string    `json:"error,omitempty"`
}

// RoomInfo is one entry of a room-list reply.
type RoomInfo struct {
	Room    string `json:"room"`
	Players int    `json:"players"`
}

// RoomList accepts both historical list formats: plain room-name strings and
// {room, players} objects. Strings become entries with a zero player count.
type RoomList []RoomInfo

func (l *RoomList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(RoomList, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			out = append(out, RoomInfo{Room: name})
			continue
		}
		var info RoomInfo
		if err := json.Unmarshal(item, &info); err != nil {
			return err
		}
		out = append(out, info)
	}
	*l = out
	return nil
}
