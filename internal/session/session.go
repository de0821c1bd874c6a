// Package session drives one player's membership in one room. The server
// never acknowledges a join explicitly, so the session keeps asserting its
// identity until the player id shows up in a broadcast snapshot, or a retry
// ceiling is hit. It also owns the one-shot request/reply correlation used by
// auxiliary flows (room creation, room listing) and feeds snapshots through
// the reconciler.
//
// Like the connection underneath it, a Session is an actor: one goroutine
// consumes connection events, API requests, and timers, so every piece of
// join and reconciliation state has a single writer.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hiroyats05/CartasContraHumanidade/internal/identity"
	"github.com/hiroyats05/CartasContraHumanidade/internal/metrics"
	"github.com/hiroyats05/CartasContraHumanidade/internal/protocol"
	"github.com/hiroyats05/CartasContraHumanidade/internal/reconcile"
	"github.com/hiroyats05/CartasContraHumanidade/internal/wsclient"
)

// Conn is the connection surface the session needs. *wsclient.Conn satisfies
// it; tests substitute a scripted fake.
type Conn interface {
	Connect()
	Send(v any)
	Close()
	Events() <-chan wsclient.Event
}

// Options tune a Session. Zero values fall back to the defaults below.
type Options struct {
	Room          string
	RetryInterval time.Duration // between join attempts within one episode
	AttemptLimit  int           // join requests per open-connection episode
	CreateTimeout time.Duration
	ListTimeout   time.Duration

	// Lobby disables the join protocol: the session is only used for
	// room-independent flows (create, list) before a room is chosen.
	Lobby bool
}

func (o *Options) withDefaults() {
	if o.RetryInterval <= 0 {
		o.RetryInterval = 900 * time.Millisecond
	}
	if o.AttemptLimit <= 0 {
		o.AttemptLimit = 6
	}
	if o.CreateTimeout <= 0 {
		o.CreateTimeout = 5 * time.Second
	}
	if o.ListTimeout <= 0 {
		o.ListTimeout = 3 * time.Second
	}
}

// Update is one consumable change notice. Rendering layers react to these
// instead of re-deriving everything from scratch on every broadcast.
type Update struct {
	Status      wsclient.Status    `json:"status"`
	Snapshot    *protocol.Snapshot `json:"snapshot,omitempty"`
	HandChanged bool               `json:"hand_changed,omitempty"`
	HandDelta   int                `json:"hand_delta,omitempty"`
	VoteCleared bool               `json:"vote_cleared,omitempty"`
	Event       string             `json:"event,omitempty"`
	Winner      string             `json:"winner,omitempty"`
	ServerError string             `json:"server_error,omitempty"`

	// JoinFailed is raised once per episode when the retry ceiling is hit
	// without acknowledgment. Non-fatal: the connection stays usable and
	// JoinNow can retry manually.
	JoinFailed bool `json:"join_failed,omitempty"`
}

// View is a point-in-time summary of the session, served by the debug API.
type View struct {
	Status       string             `json:"status"`
	Room         string             `json:"room"`
	PlayerID     string             `json:"player_id"`
	Name         string             `json:"name"`
	JoinAcked    bool               `json:"join_acked"`
	JoinAttempts int                `json:"join_attempts"`
	JoinFailed   bool               `json:"join_failed"`
	VotedFor     string             `json:"voted_for,omitempty"`
	Snapshot     *protocol.Snapshot `json:"snapshot,omitempty"`
}

type sessionMsg interface{ isSessionMsg() }

type doSend struct{ msg protocol.ClientMessage }

type doVote struct{ voted string }

type doJoinNow struct{}

type doClose struct{}

type joinTick struct{ episode int }

type awaitReq struct {
	pred    func(protocol.ServerMessage) bool
	reply   chan protocol.ServerMessage
	timeout time.Duration
}

type awaitExpired struct{ id int }

type getView struct{ reply chan View }

func (doSend) isSessionMsg() {}

func (doVote) isSessionMsg() {}

func (doJoinNow) isSessionMsg() {}

func (doClose) isSessionMsg() {}

func (joinTick) isSessionMsg() {}

func (awaitReq) isSessionMsg() {}

func (awaitExpired) isSessionMsg() {}

func (getView) isSessionMsg() {}

type waiter struct {
	pred  func(protocol.ServerMessage) bool
	reply chan protocol.ServerMessage
	timer *time.Timer
}

// Session is one player's room session on top of a Conn.
type Session struct {
	conn Conn
	id   identity.Identity
	opts Options
	log  *zap.Logger
	met  *metrics.Metrics

	inbox   chan sessionMsg
	updates chan Update
	done    chan struct{}

	closeOnce sync.Once

	// owned by the loop goroutine
	rec        *reconcile.Reconciler
	status     wsclient.Status
	acked      bool
	attempts   int
	joinFailed bool
	episode    int
	joinTimer  *time.Timer
	waiters    map[int]waiter
	nextWait   int
}

func New(conn Conn, id identity.Identity, opts Options, log *zap.Logger, met *metrics.Metrics) *Session {
	opts.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		conn:    conn,
		id:      id,
		opts:    opts,
		log:     log.With(zap.String("room", opts.Room), zap.String("player_id", id.PlayerID)),
		met:     met,
		inbox:   make(chan sessionMsg, 64),
		updates: make(chan Update, 64),
		done:    make(chan struct{}),
		rec:     reconcile.New(id.PlayerID),
		status:  wsclient.StatusIdle,
		waiters: make(map[int]waiter),
	}
	go s.loop()
	return s
}

// Updates returns the change-notice stream. It closes when the session ends.
// A consumer that stops draining loses notices (they are dropped, logged),
// never blocks the session.
func (s *Session) Updates() <-chan Update { return s.updates }

func (s *Session) post(m sessionMsg) {
	select {
	case s.inbox <- m:
	case <-s.done:
	}
}

func (s *Session) loop() {
	events := s.conn.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				s.shutdown()
				return
			}
			switch e := ev.(type) {
			case wsclient.StatusEvent:
				s.handleStatus(e)
			case wsclient.MessageEvent:
				s.handleMessage(e.Msg)
			}

		case m := <-s.inbox:
			if s.handleMsg(m) {
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) handleMsg(m sessionMsg) (terminate bool) {
	switch msg := m.(type) {
	case doSend:
		s.conn.Send(msg.msg)

	case doVote:
		// optimistic mark before the server hears about it
		s.rec.MarkVote(msg.voted)
		s.conn.Send(protocol.ClientMessage{
			Action:        protocol.ActionVote,
			Room:          s.opts.Room,
			VoterID:       s.id.PlayerID,
			VotedPlayerID: msg.voted,
		})

	case doJoinNow:
		s.joinFailed = false
		s.acked = false
		s.attempts = 0
		s.sendJoin()
		s.scheduleJoinTick()

	case joinTick:
		s.handleJoinTick(msg.episode)

	case awaitReq:
		id := s.nextWait
		s.nextWait++
		s.waiters[id] = waiter{
			pred:  msg.pred,
			reply: msg.reply,
			timer: time.AfterFunc(msg.timeout, func() { s.post(awaitExpired{id: id}) }),
		}

	case awaitExpired:
		// the waiter self-removes exactly once: either here or on match
		if w, ok := s.waiters[msg.id]; ok {
			delete(s.waiters, msg.id)
			close(w.reply)
		}

	case getView:
		msg.reply <- s.view()

	case doClose:
		s.conn.Close()
		// keep looping; the closing connection drains its event channel and
		// its closure triggers shutdown
	}
	return false
}

func (s *Session) handleStatus(ev wsclient.StatusEvent) {
	s.status = ev.Status
	s.met.SetStatus(int(ev.Status))

	switch ev.Status {
	case wsclient.StatusOpen:
		if s.opts.Lobby {
			break
		}
		// fresh episode: the server forgot our identity with the old
		// connection, so assert it again from scratch
		s.episode++
		s.acked = false
		s.attempts = 0
		s.joinFailed = false
		s.sendJoin()
		s.scheduleJoinTick()
		s.conn.Send(protocol.ClientMessage{Action: protocol.ActionState, Room: s.opts.Room})

	case wsclient.StatusClosed, wsclient.StatusError:
		s.acked = false
		s.attempts = 0
		s.stopJoinTimer()
	}

	s.pushUpdate(Update{Status: ev.Status})
}

func (s *Session) handleMessage(m protocol.ServerMessage) {
	for id, w := range s.waiters {
		if w.pred(m) {
			w.timer.Stop()
			delete(s.waiters, id)
			w.reply <- m
		}
	}

	upd := Update{
		Status:      s.status,
		Event:       m.Event,
		Winner:      m.Winner,
		ServerError: m.Error,
	}

	if m.State != nil {
		s.met.SnapshotReceived()
		res := s.rec.Apply(*m.State)
		upd.HandChanged = res.HandChanged
		upd.HandDelta = res.HandDelta
		upd.VoteCleared = res.VoteCleared

		snap := *m.State
		upd.Snapshot = &snap

		if !s.acked && m.State.HasPlayer(s.id.PlayerID) {
			s.acked = true
			s.stopJoinTimer()
			s.log.Info("join acknowledged", zap.Int("attempts", s.attempts))
		}
	} else if m.Event == "vote_cast" {
		// some server paths omit the snapshot here; ask for one
		s.conn.Send(protocol.ClientMessage{Action: protocol.ActionState, Room: s.opts.Room})
	}

	if m.Winner != "" {
		// winner notices are not guaranteed to carry fresh state
		s.conn.Send(protocol.ClientMessage{Action: protocol.ActionState, Room: s.opts.Room})
	}

	if upd.Snapshot != nil || upd.Event != "" || upd.Winner != "" || upd.ServerError != "" {
		s.pushUpdate(upd)
	}
}

func (s *Session) handleJoinTick(episode int) {
	if episode != s.episode || s.acked {
		return
	}
	if s.attempts >= s.opts.AttemptLimit {
		s.joinFailed = true
		s.log.Warn("join not acknowledged, giving up",
			zap.Int("attempts", s.attempts))
		s.pushUpdate(Update{Status: s.status, JoinFailed: true})
		return
	}
	s.sendJoin()
	s.scheduleJoinTick()
}

func (s *Session) sendJoin() {
	s.attempts++
	s.met.JoinAttempt()
	s.log.Debug("sending join", zap.Int("attempt", s.attempts))
	s.conn.Send(protocol.ClientMessage{
		Action:   protocol.ActionJoin,
		Room:     s.opts.Room,
		PlayerID: s.id.PlayerID,
		Name:     s.id.Name,
	})
}

func (s *Session) scheduleJoinTick() {
	s.stopJoinTimer()
	episode := s.episode
	s.joinTimer = time.AfterFunc(s.opts.RetryInterval, func() {
		s.post(joinTick{episode: episode})
	})
}

func (s *Session) stopJoinTimer() {
	if s.joinTimer != nil {
		s.joinTimer.Stop()
		s.joinTimer = nil
	}
}

func (s *Session) pushUpdate(u Update) {
	select {
	case s.updates <- u:
	default:
		s.log.Warn("dropping update, consumer not keeping up")
	}
}

func (s *Session) view() View {
	v := View{
		Status:       s.status.String(),
		Room:         s.opts.Room,
		PlayerID:     s.id.PlayerID,
		Name:         s.id.Name,
		JoinAcked:    s.acked,
		JoinAttempts: s.attempts,
		JoinFailed:   s.joinFailed,
		VotedFor:     s.rec.VotedFor(),
	}
	if snap, ok := s.rec.Current(); ok {
		v.Snapshot = &snap
	}
	return v
}

func (s *Session) shutdown() {
	s.stopJoinTimer()
	for id, w := range s.waiters {
		w.timer.Stop()
		delete(s.waiters, id)
		close(w.reply)
	}
	close(s.done)
	close(s.updates)
}
