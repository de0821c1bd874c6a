// Package reconcile turns the server's full-state broadcasts into minimal
// change signals. Snapshots arrive far more often than anything the viewer
// cares about actually changes, so consumers gate expensive work (deal
// animations, redraws) on the signals rather than on snapshot arrival.
package reconcile

import (
	"strconv"
	"strings"

	"github.com/hiroyats05/CartasContraHumanidade/internal/protocol"
)

// Result describes what changed between the previous snapshot and the one
// just applied.
type Result struct {
	// HandChanged is true when the viewer's private hand differs from the
	// previous snapshot, by content or by length.
	HandChanged bool

	// HandDelta is the viewer's hand size minus the previous size. A positive
	// value means that many cards arrived; callers trigger one arrival effect
	// per increment, attributed to the new positions in index order.
	HandDelta int

	// VoteCleared is true when this snapshot wiped the optimistic vote mark
	// (the round rolled over and submissions came back empty).
	VoteCleared bool
}

// Reconciler holds the latest snapshot for one viewer plus the derived state
// needed to compare against the next one. Not safe for concurrent use; the
// session actor is its only caller.
type Reconciler struct {
	playerID string

	current     protocol.Snapshot
	haveCurrent bool

	prevFingerprint string
	prevHandCount   int

	votedFor string
}

func New(playerID string) *Reconciler {
	return &Reconciler{playerID: playerID}
}

// Apply stores snap as the new current state, replacing the old one
// wholesale, and reports what changed. The very first snapshot always counts
// as a hand change so dependent presentation initializes.
func (r *Reconciler) Apply(snap protocol.Snapshot) Result {
	var res Result

	fp := Fingerprint(snap.YourHand)
	res.HandChanged = !r.haveCurrent || fp != r.prevFingerprint

	count := 0
	if me, ok := snap.Player(r.playerID); ok {
		count = me.HandCount
	}
	res.HandDelta = count - r.prevHandCount

	// No submissions means the round rolled over; the server never echoes a
	// distinct "vote accepted", so this is the only point the mark can clear.
	if len(snap.Submissions) == 0 && r.votedFor != "" {
		r.votedFor = ""
		res.VoteCleared = true
	}

	r.current = snap
	r.haveCurrent = true
	r.prevFingerprint = fp
	r.prevHandCount = count
	return res
}

// Current returns the latest snapshot, if any has been applied.
func (r *Reconciler) Current() (protocol.Snapshot, bool) {
	return r.current, r.haveCurrent
}

// MarkVote records which submission the viewer voted for, before the server
// confirms anything.
func (r *Reconciler) MarkVote(votedPlayerID string) {
	r.votedFor = votedPlayerID
}

// VotedFor returns the optimistic vote mark, empty if none is in effect.
func (r *Reconciler) VotedFor() string {
	return r.votedFor
}

// Fingerprint derives a cheap comparison key from an ordered hand: the card
// values joined by "||" plus the length. Two hands fingerprint equal exactly
// when contents and length both match.
func Fingerprint(hand []string) string {
	return strings.Join(hand, "||") + "::" + strconv.Itoa(len(hand))
}
