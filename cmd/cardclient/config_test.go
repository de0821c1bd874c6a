package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestToWSURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ws://host:6789/ws", "ws://host:6789/ws"},
		{"wss://host/ws", "wss://host/ws"},
		{"http://host:8080", "ws://host:8080/ws"},
		{"https://host", "wss://host/ws"},
		{"192.168.0.7:6789", "ws://192.168.0.7:6789/ws"},
		{"host/", "ws://host/ws"},
		{"  host  ", "ws://host/ws"},
		{"", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, toWSURL(c.in), "input %q", c.in)
	}
}

func TestResolveSettings_PrecedenceAndStableID(t *testing.T) {
	flagProfile = filepath.Join(t.TempDir(), "profile.json")
	flagServer = ""
	flagName = ""
	t.Cleanup(func() { flagProfile = "" })

	env := func(key string) string {
		if key == "CARDGAME_NAME" {
			return "Ann"
		}
		return ""
	}

	cfg, err := resolveSettings(zap.NewNop(), env)
	require.NoError(t, err)
	require.Equal(t, "Ann", cfg.id.Name)
	require.Equal(t, "ws://"+defaultServer+"/ws", cfg.serverURL)
	require.NotEmpty(t, cfg.id.PlayerID)

	// a second resolve must reuse the generated id
	again, err := resolveSettings(zap.NewNop(), env)
	require.NoError(t, err)
	require.Equal(t, cfg.id.PlayerID, again.id.PlayerID)

	// an explicit flag wins over the saved profile
	flagServer = "game.example:9999"
	t.Cleanup(func() { flagServer = "" })
	withFlag, err := resolveSettings(zap.NewNop(), env)
	require.NoError(t, err)
	require.Equal(t, "ws://game.example:9999/ws", withFlag.serverURL)
}
