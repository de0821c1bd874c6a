package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hiroyats05/CartasContraHumanidade/internal/session"
	"github.com/hiroyats05/CartasContraHumanidade/internal/wsclient"
)

func createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <room>",
		Short: "Create a room on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			room := args[0]

			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			cfg, err := resolveSettings(log, os.Getenv)
			if err != nil {
				return err
			}

			conn := wsclient.New(cfg.serverURL, wsclient.Options{}, log, nil)
			sess := session.New(conn, cfg.id, session.Options{Lobby: true}, log, nil)
			defer sess.Close()
			sess.Connect()

			if err := sess.CreateRoom(cmd.Context(), room); err != nil {
				return err
			}
			fmt.Printf("created room %s\n", room)
			fmt.Printf("join it with: cardclient play --room %s\n", room)
			return nil
		},
	}
}
