package identity

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPlayerID(t *testing.T) {
	id := NewPlayerID()
	require.True(t, strings.HasPrefix(id, "p"), "id %q should carry the p prefix", id)
	require.Len(t, id, 7)
	require.NotEqual(t, id, NewPlayerID())
}

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profile.json")

	// missing file yields an empty profile, not an error
	p, err := LoadProfile(path)
	require.NoError(t, err)
	require.Equal(t, Profile{}, p)

	want := Profile{PlayerID: "p1a2b3c", Name: "Ann", Server: "192.168.0.7:6789"}
	require.NoError(t, SaveProfile(path, want))

	got, err := LoadProfile(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}
