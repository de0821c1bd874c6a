package wsclient

import "github.com/hiroyats05/CartasContraHumanidade/internal/protocol"

// Status is the lifecycle state of a Conn. StatusError never persists as a
// state; it is emitted as an event and the connection settles in
// StatusClosed, from where the reconnect policy takes over.
type Status int

const (
	StatusIdle Status = iota
	StatusConnecting
	StatusOpen
	StatusClosing
	StatusClosed
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusConnecting:
		return "connecting"
	case StatusOpen:
		return "connected"
	case StatusClosing:
		return "closing"
	case StatusClosed:
		return "closed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is anything a Conn reports to its consumer. Events arrive on a single
// channel in the order the connection produced them.
type Event interface{ isEvent() }

// StatusEvent reports a lifecycle transition. Err is set for error events.
type StatusEvent struct {
	Status Status
	Err    error
}

// MessageEvent carries one parsed inbound server message plus the raw frame.
type MessageEvent struct {
	Msg protocol.ServerMessage
	Raw []byte
}

func (StatusEvent) isEvent() {}

func (MessageEvent) isEvent() {}
