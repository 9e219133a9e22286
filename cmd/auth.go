package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jiawen-jasmine-chen/todosync/internal/services"
	"github.com/jiawen-jasmine-chen/todosync/internal/session"
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Register a new user and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		auth := services.NewAuthService(newClient(cfg))
		result, err := auth.Register(ctx, args[0])
		if err != nil {
			return err
		}

		store, err := session.Open(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, session.Session{UserID: result.UserID, Username: result.Username}); err != nil {
			return err
		}

		fmt.Printf("registered as %s (user %d)\n", result.Username, result.UserID)
		if result.Message != "" {
			fmt.Println(result.Message)
		}
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in as an existing user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		auth := services.NewAuthService(newClient(cfg))
		result, err := auth.Login(ctx, args[0])
		if err != nil {
			return err
		}

		store, err := session.Open(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		if err := store.Save(ctx, session.Session{UserID: result.UserID, Username: result.Username}); err != nil {
			return err
		}

		fmt.Printf("logged in as %s (user %d)\n", result.Username, result.UserID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		store, err := session.Open(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		store, err := session.Open(cfg.SessionDBPath)
		if err != nil {
			return err
		}
		sess, err := currentSession(cmd.Context(), store)
		if err != nil {
			return err
		}
		fmt.Printf("%s (user %d)\n", sess.Username, sess.UserID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}
