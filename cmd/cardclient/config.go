package main

import (
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hiroyats05/CartasContraHumanidade/internal/identity"
)

// the bundled server listens here by default
const defaultServer = "localhost:6789"

type settings struct {
	serverURL string
	server    string // the raw address, for the profile
	id        identity.Identity
}

// resolveSettings merges flags > environment (with .env) > saved profile >
// defaults, generates a player id on first run, and persists the result so
// the id stays stable across runs — join acknowledgment depends on that.
func resolveSettings(log *zap.Logger, env func(string) string) (settings, error) {
	_ = godotenv.Load()

	path := flagProfile
	if path == "" {
		var err error
		if path, err = identity.DefaultProfilePath(); err != nil {
			return settings{}, err
		}
	}

	prof, err := identity.LoadProfile(path)
	if err != nil {
		return settings{}, err
	}

	server := firstOf(flagServer, env("CARDGAME_SERVER"), prof.Server, defaultServer)
	name := firstOf(flagName, env("CARDGAME_NAME"), prof.Name, "Player")
	playerID := prof.PlayerID
	if playerID == "" {
		playerID = identity.NewPlayerID()
		log.Info("generated player id", zap.String("player_id", playerID))
	}

	prof = identity.Profile{PlayerID: playerID, Name: name, Server: server}
	if err := identity.SaveProfile(path, prof); err != nil {
		log.Warn("could not save profile", zap.Error(err))
	}

	return settings{
		serverURL: toWSURL(server),
		server:    server,
		id:        identity.Identity{PlayerID: playerID, Name: name},
	}, nil
}

// toWSURL normalizes user input into a websocket URL ending in the /ws path.
func toWSURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "ws://") || strings.HasPrefix(raw, "wss://") {
		return raw
	}

	var u string
	switch {
	case strings.HasPrefix(raw, "http://"):
		u = "ws://" + strings.TrimPrefix(raw, "http://")
	case strings.HasPrefix(raw, "https://"):
		u = "wss://" + strings.TrimPrefix(raw, "https://")
	default:
		u = "ws://" + raw
	}
	return strings.TrimSuffix(u, "/") + "/ws"
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
