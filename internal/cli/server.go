package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop
// signal.
const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the pixpressd server",
	Long: `Start the pixpressd server which provides:
- HTTP JSON-RPC API on /
- Prometheus metrics on /metrics (when enabled)
- Health check on /health

The genesis ledger is created from configuration on first start.
This is the default command when no subcommand is specified.`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = runServer
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := openNode(ctx, nodeOptions{
		createGenesis: true,
		withHistory:   true,
		withMetrics:   true,
	})
	if err != nil {
		return err
	}
	defer n.Close()

	server := n.rpcServer()
	addr := n.cfg.Server.Address()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if !quiet {
		fmt.Println("Starting pixpressd")
		fmt.Println("=================")
		fmt.Printf("  - HTTP JSON-RPC: http://%s/\n", addr)
		if n.collector != nil {
			fmt.Printf("  - Metrics:       http://%s/metrics\n", addr)
		}
		fmt.Printf("  - Health Check:  http://%s/health\n", addr)
		fmt.Printf("  - Methods:       %d\n", len(server.Methods()))
		fmt.Println()
	}

	n.log.WithFields(logrus.Fields{
		"address": addr,
		"version": Version,
	}).Info("rpc server listening")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("rpc server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		n.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
