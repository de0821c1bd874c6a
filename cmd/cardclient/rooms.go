package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hiroyats05/CartasContraHumanidade/internal/session"
	"github.com/hiroyats05/CartasContraHumanidade/internal/wsclient"
)

func roomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List active rooms on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			rooms, err := sess.ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			if len(rooms) == 0 {
				fmt.Println("no active rooms")
				return nil
			}
			for _, r := range rooms {
				fmt.Printf("%s  (%d player(s))\n", r.Room, r.Players)
			}
			return nil
		},
	}
}
