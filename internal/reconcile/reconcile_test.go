package reconcile

import (
	"testing"

	"github.com/hiroyats05/CartasContraHumanidade/internal/protocol"
)

func snapWithHand(hand ...string) protocol.Snapshot {
	return protocol.Snapshot{
		Players:  []protocol.PlayerInfo{{ID: "p1", HandCount: len(hand)}},
		YourHand: hand,
	}
}

func TestApply_FirstSnapshotCountsAsHandChange(t *testing.T) {
	r := New("p1")
	res := r.Apply(protocol.Snapshot{})
	if !res.HandChanged {
		t.Fatalf("first snapshot should report a hand change")
	}
}

func TestApply_IdenticalHandDoesNotRetrigger(t *testing.T) {
	r := New("p1")
	r.Apply(snapWithHand("a", "b", "c"))

	res := r.Apply(snapWithHand("a", "b", "c"))
	if res.HandChanged {
		t.Fatalf("identical hand must not raise the hand-changed signal")
	}
	if res.HandDelta != 0 {
		t.Fatalf("want delta 0, got %d", res.HandDelta)
	}
}

func TestApply_ContentOrLengthChangeRaisesSignal(t *testing.T) {
	r := New("p1")
	r.Apply(snapWithHand("a", "b"))

	if res := r.Apply(snapWithHand("a", "x")); !res.HandChanged {
		t.Fatalf("content change must raise the hand-changed signal")
	}
	if res := r.Apply(snapWithHand("a")); !res.HandChanged {
		t.Fatalf("length change must raise the hand-changed signal")
	}
}

func TestApply_HandDeltaReportsArrivals(t *testing.T) {
	r := New("p1")
	r.Apply(snapWithHand("a", "b"))

	res := r.Apply(snapWithHand("a", "b", "c", "d", "e"))
	if res.HandDelta != 3 {
		t.Fatalf("want delta 3, got %d", res.HandDelta)
	}

	res = r.Apply(snapWithHand("a", "b", "c", "d"))
	if res.HandDelta != -1 {
		t.Fatalf("want delta -1 after playing a card, got %d", res.HandDelta)
	}
}

func TestApply_FullReplacementNeverMerges(t *testing.T) {
	r := New("p1")
	r.Apply(protocol.Snapshot{Room: "r1", Submissions: []string{"p2"}, VotingOpen: true})
	r.Apply(protocol.Snapshot{Room: "r1"})

	cur, ok := r.Current()
	if !ok {
		t.Fatalf("expected a current snapshot")
	}
	if len(cur.Submissions) != 0 || cur.VotingOpen {
		t.Fatalf("old fields leaked into the new snapshot: %+v", cur)
	}
}

func TestVoteMark_ClearsExactlyWhenSubmissionsEmpty(t *testing.T) {
	r := New("p1")
	r.MarkVote("p2")

	res := r.Apply(protocol.Snapshot{Submissions: []string{"p2", "p3"}, VotingOpen: true})
	if res.VoteCleared || r.VotedFor() != "p2" {
		t.Fatalf("mark must survive while submissions remain")
	}

	res = r.Apply(protocol.Snapshot{})
	if !res.VoteCleared || r.VotedFor() != "" {
		t.Fatalf("mark must clear when the round rolls over")
	}

	// clearing again is not a new event
	res = r.Apply(protocol.Snapshot{})
	if res.VoteCleared {
		t.Fatalf("no mark in effect, nothing to clear")
	}
}

func TestFingerprint(t *testing.T) {
	if Fingerprint(nil) != "::0" {
		t.Fatalf("empty hand fingerprint: got %q", Fingerprint(nil))
	}
	if Fingerprint([]string{"a", "b"}) == Fingerprint([]string{"a||b"}) {
		t.Fatalf("length suffix must separate joined collisions by length")
	}
}
