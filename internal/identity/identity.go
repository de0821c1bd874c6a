// Package identity supplies the stable (player id, display name) pair the
// session asserts to a room. Identity is external input to the session layer,
// passed in explicitly at construction; only the generator lives here, for
// first runs where no id exists yet.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// Identity is who the local player claims to be. The player id must stay
// identical across reconnects or join acknowledgment matching breaks.
type Identity struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// NewPlayerID makes a short random player id of the historical "p"+suffix
// shape.
func NewPlayerID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "p" + raw[:6]
}
