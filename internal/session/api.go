package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hiroyats05/CartasContraHumanidade/internal/protocol"
)

var (
	// ErrAwaitTimeout means the server never produced a reply matching a
	// one-shot request within its window. The request failed; the connection
	// did not.
	ErrAwaitTimeout = errors.New("timed out waiting for server reply")

	// ErrSessionClosed means the session ended before the call completed.
	ErrSessionClosed = errors.New("session closed")
)

// Connect starts (or resumes) the underlying connection. The join protocol
// arms itself on every transition to open.
func (s *Session) Connect() { s.conn.Connect() }

// Close ends the session and the connection underneath it permanently.
func (s *Session) Close() {
	s.closeOnce.Do(func() { s.post(doClose{}) })
}

// SetReady reports the local player's ready flag to the room.
func (s *Session) SetReady(ready bool) {
	r := ready
	s.post(doSend{msg: protocol.ClientMessage{
		Action:   protocol.ActionReady,
		Room:     s.opts.Room,
		PlayerID: s.id.PlayerID,
		Ready:    &r,
	}})
}

// StartGame asks the server to start the round.
func (s *Session) StartGame() {
	s.post(doSend{msg: protocol.ClientMessage{
		Action: protocol.ActionStart,
		Room:   s.opts.Room,
	}})
}

// RequestState asks for an explicit full-state refresh.
func (s *Session) RequestState() {
	s.post(doSend{msg: protocol.ClientMessage{
		Action: protocol.ActionState,
		Room:   s.opts.Room,
	}})
}

// SubmitCard plays the card at the given hand index into the current round.
func (s *Session) SubmitCard(index int) {
	i := index
	s.post(doSend{msg: protocol.ClientMessage{
		Action:    protocol.ActionSubmit,
		Room:      s.opts.Room,
		PlayerID:  s.id.PlayerID,
		CardIndex: &i,
	}})
}

// Vote casts a vote for another player's submission. The optimistic mark is
// recorded immediately and cleared by the reconciler when the round rolls
// over.
func (s *Session) Vote(votedPlayerID string) {
	s.post(doVote{voted: votedPlayerID})
}

// JoinNow restarts the join protocol by hand, e.g. after a JoinFailed update.
func (s *Session) JoinNow() {
	s.post(doJoinNow{})
}

// CreateRoom asks the server to create a room and waits for its confirmation.
// Repeated joins are idempotent on the server; creates are not, so this is a
// one-shot correlated request.
func (s *Session) CreateRoom(ctx context.Context, room string) error {
	reply := s.await(func(m protocol.ServerMessage) bool {
		return m.Room == room && (m.Status == "created" || m.Error != "")
	}, s.opts.CreateTimeout)

	s.conn.Send(protocol.ClientMessage{Action: protocol.ActionCreate, Room: room})

	select {
	case m, ok := <-reply:
		if !ok {
			return fmt.Errorf("create room %q: %w", room, ErrAwaitTimeout)
		}
		if m.Error != "" {
			return fmt.Errorf("create room %q: %s", room, m.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrSessionClosed
	}
}

// ListRooms fetches the active room list.
func (s *Session) ListRooms(ctx context.Context) ([]protocol.RoomInfo, error) {
	reply := s.await(func(m protocol.ServerMessage) bool {
		return m.Rooms != nil
	}, s.opts.ListTimeout)

	s.conn.Send(protocol.ClientMessage{Action: protocol.ActionList})

	select {
	case m, ok := <-reply:
		if !ok {
			return nil, fmt.Errorf("list rooms: %w", ErrAwaitTimeout)
		}
		return m.Rooms, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrSessionClosed
	}
}

// View returns a point-in-time summary of the session.
func (s *Session) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	s.post(getView{reply: reply})
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-s.done:
		return View{}, ErrSessionClosed
	}
}

// await registers a one-shot waiter for the next inbound message matching
// pred. The waiter is removed exactly once: on first match (the message is
// delivered on the returned channel) or on timeout (the channel closes).
func (s *Session) await(pred func(protocol.ServerMessage) bool, timeout time.Duration) <-chan protocol.ServerMessage {
	reply := make(chan protocol.ServerMessage, 1)
	s.post(awaitReq{pred: pred, reply: reply, timeout: timeout})
	return reply
}
