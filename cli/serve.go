package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darfe-e/greenFarmacy/httpapi"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if logLevel() != slog.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := httpapi.NewServer(manager, slog.Default())
			httpServer := &http.Server{
				Addr:    viper.GetString("addr"),
				Handler: srv.Engine(),
			}

			errCh := make(chan error, 1)
			go func() {
				slog.Info("HTTP server listening", "addr", httpServer.Addr)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown error", "error", err)
				return err
			}
			slog.Info("HTTP server stopped")
			return nil
		},
	}
	serveCmd.Flags().String("addr", ":8080", "listen address")
	viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}
