package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hiroyats05/CartasContraHumanidade/internal/httpapi"
	"github.com/hiroyats05/CartasContraHumanidade/internal/metrics"
	"github.com/hiroyats05/CartasContraHumanidade/internal/session"
	"github.com/hiroyats05/CartasContraHumanidade/internal/wsclient"
)

func playCmd() *cobra.Command {
	var room, listen string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a room and play from the terminal",
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
			if room == "" {
				room = firstOf(os.Getenv("CARDGAME_ROOM"), "room1")
			}

			met := metrics.New()
			conn := wsclient.New(cfg.serverURL, wsclient.Options{}, log, met)
			sess := session.New(conn, cfg.id, session.Options{Room: room}, log, met)
			sess.Connect()

			fmt.Printf("connecting to %s as %s (%s), room %s\n",
				cfg.serverURL, cfg.id.Name, cfg.id.PlayerID, room)

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(sigCtx)
			defer cancel()

			g, ctx := errgroup.WithContext(ctx)

			if listen != "" {
				srv := &http.Server{Addr: listen, Handler: httpapi.SetupRoutes(sess, met)}
				g.Go(func() error {
					log.Info("debug api listening", zap.String("addr", listen))
					if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					<-ctx.Done()
					shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
					defer cancel()
					return srv.Shutdown(shutCtx)
				})
			}

			g.Go(func() error {
				printUpdates(sess, cfg.id.PlayerID)
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				sess.Close()
				return nil
			})

			// stdin blocks in Scan, so the reader stays off the errgroup; it
			// dies with the process
			go readCommands(cancel, sess)

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "room to join")
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8764", "debug api address, empty to disable")
	return cmd
}

// printUpdates renders session change notices as plain text until the
// session ends.
func printUpdates(sess *session.Session, playerID string) {
	for u := range sess.Updates() {
		switch {
		case u.JoinFailed:
			fmt.Println("! could not join the room; type 'join' to retry")
		case u.Winner != "":
			fmt.Printf("* round winner: %s\n", u.Winner)
		case u.ServerError != "":
			fmt.Printf("! server: %s\n", u.ServerError)
		case u.Snapshot != nil:
			printSnapshot(u, playerID)
		case u.Event != "":
			fmt.Printf("* %s\n", u.Event)
		default:
			fmt.Printf("* connection %s\n", u.Status)
		}
	}
}

func printSnapshot(u session.Update, playerID string) {
	snap := u.Snapshot

	if u.HandChanged {
		if u.HandDelta > 0 {
			fmt.Printf("* drew %d card(s)\n", u.HandDelta)
		}
		fmt.Println("your hand:")
		for i, card := range snap.YourHand {
			fmt.Printf("  [%d] %s\n", i, card)
		}
	}

	if snap.VotingOpen {
		fmt.Println("voting is open:")
		for _, sid := range snap.Submissions {
			if sid == playerID {
				continue
			}
			text := snap.SubmissionTexts[sid]
			if text == "" {
				text = "(hidden)"
			}
			fmt.Printf("  vote %s -> %s\n", sid, text)
		}
	}
}

// readCommands drives the session from stdin: ready | unready | start |
// submit N | vote PID | state | join | quit.
func readCommands(quit context.CancelFunc, sess *session.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "ready":
			sess.SetReady(true)
		case "unready":
			sess.SetReady(false)
		case "start":
			sess.StartGame()
		case "state":
			sess.RequestState()
		case "join":
			sess.JoinNow()
		case "submit":
			if len(fields) < 2 {
				fmt.Println("usage: submit <card index>")
				continue
			}
			i, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: submit <card index>")
				continue
			}
			sess.SubmitCard(i)
		case "vote":
			if len(fields) < 2 {
				fmt.Println("usage: vote <player id>")
				continue
			}
			sess.Vote(fields[1])
		case "quit", "exit":
			quit()
			return
		default:
			fmt.Println("commands: ready unready start state join submit vote quit")
		}
	}
}
