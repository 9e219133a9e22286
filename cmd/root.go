package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "github.com/jiawen-jasmine-chen/todosync/internal/configs"
	"github.com/jiawen-jasmine-chen/todosync/internal/session"
	"github.com/jiawen-jasmine-chen/todosync/internal/transport"
)

var rootCmd = &cobra.Command{
	Use:           "todosync",
	Short:         "To-do list client",
	Long:          "Command-line client for the shared to-do list service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() config.Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	return config.Load()
}

func newClient(cfg config.Config) *transport.Client {
	return transport.New(cfg.APIBaseURL, cfg.RequestTimeout())
}

// currentSession loads the persisted session or fails with a hint.
func currentSession(ctx context.Context, store *session.Store) (*session.Session, error) {
	sess, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("not logged in, run: todosync login <username>")
	}
	return sess, nil
}
