package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docchat/internal/web"
)

var webPort int

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the browser chat UI",
	Long:  `Serves the chat UI over HTTP. Each browser session has its own document list and transcript.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, client, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer client.Close()

		if cmd.Flags().Changed("port") {
			cfg.Web.Port = webPort
		}

		srv, err := web.New(web.Config{
			Port:       cfg.Web.Port,
			AllowAll:   cfg.Web.AllowAllOrigins,
			SessionTTL: cfg.Web.SessionTTL,
		}, client, log)
		if err != nil {
			return fmt.Errorf("creating web server: %w", err)
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(os.Stderr, "docchat %s web UI on http://localhost:%d\n", Version, cfg.Web.Port)
		fmt.Fprintf(os.Stderr, "  Backend: %s\n", client.BaseURL())

		return serveUntilDone(ctx, srv, 10*time.Second)
	},
}

func init() {
	webCmd.Flags().IntVar(&webPort, "port", 8080, "port to listen on (overrides config)")
	rootCmd.AddCommand(webCmd)
}

type webServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serveUntilDone runs srv until ctx is cancelled. Start returns as soon
// as shutdown begins, so it then waits for Shutdown to finish draining
// in-flight uploads and questions.
func serveUntilDone(ctx context.Context, srv webServer, grace time.Duration) error {
	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-done; err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
