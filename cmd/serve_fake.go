package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/jiawen-jasmine-chen/todosync/internal/fakeserver"
)

var serveFakeCmd = &cobra.Command{
	Use:   "serve-fake",
	Short: "Start the in-memory fake backend",
	Long:  "Serves the to-do wire protocol from memory for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e := echo.New()
		fakeserver.Register(e, fakeserver.New())

		go func() {
			log.Printf("fake backend listening on %s", cfg.FakeServerAddr)
			if err := e.Start(cfg.FakeServerAddr); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)

		log.Println("fake backend shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveFakeCmd)
}
