package protocol

// PlayerInfo is one seat in a snapshot's player list.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	HandCount int    `json:"hand_count,omitempty"`
	Score     int    `json:"score,omitempty"`
}

// Snapshot is the full authoritative room state the server broadcasts. Every
// snapshot replaces all prior local state wholesale; no field is ever carried
// forward from an older one. An empty player list, hand, or submissions set
// is a valid empty room, not an error.
type Snapshot struct {
	Room            string            `json:"room,omitempty"`
	Players         []PlayerInfo      `json:"players,omitempty"`
	DeckCount       int               `json:"deck_count,omitempty"`
	DiscardCount    int               `json:"discard_count,omitempty"`
	WhiteDeckCount  int               `json:"white_deck_count,omitempty"`
	BlackDeckCount  int               `json:"black_deck_count,omitempty"`
	BlackCardText   string            `json:"black_card_text,omitempty"`
	CurrentTurn     string            `json:"current_turn,omitempty"`
	Submissions     []string          `json:"submissions,omitempty"`
	SubmissionTexts map[string]string `json:"submission_texts,omitempty"`
	VotingOpen      bool              `json:"voting_open,omitempty"`
	YourHand        []string          `json:"your_hand,omitempty"`
}

// Player returns the seat with the given id, if present.
func (s Snapshot) Player(id string) (PlayerInfo, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerInfo{}, false
}

// HasPlayer reports whether the given player id appears in the player list.
// Seeing the local id here is the only acknowledgment a join request gets.
func (s Snapshot) HasPlayer(id string) bool {
	_, ok := s.Player(id)
	return ok
}
