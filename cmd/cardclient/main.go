package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagServer  string
	flagName    string
	flagProfile string
	flagLogJSON bool
)

func main() {
	root := &cobra.Command{
		Use:           "cardclient",
		Short:         "Terminal client for the Cartas Contra Humanidade server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "", "server address (host:port or ws:// URL)")
	root.PersistentFlags().StringVar(&flagName, "name", "", "display name")
	root.PersistentFlags().StringVar(&flagProfile, "profile", "", "profile file path")
	root.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit JSON logs")

	root.AddCommand(
		playCmd(),
		roomsCmd(),
		createCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if flagLogJSON {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
