package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/DomanicBlaze040604/forzeoprototype-sub000/internal/api"
)

var (
	serveAddr     string
	serveStoreDir string
	registryPath  string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP verification API",
	Long: `Serve starts the HTTP API:

  POST   /api/v1/verify               verify one claim
  POST   /api/v1/verify/batch         verify a batch
  POST   /api/v1/verify/batch/stream  batch with SSE progress events
  GET    /api/v1/verifications/:id    fetch a stored record
  DELETE /api/v1/verifications/:id    delete a stored record
  GET    /api/v1/trust-profiles       aggregated per-domain trust
  GET    /healthz                     liveness
  GET    /metrics                     Prometheus metrics

Example:
  forzeo serve
  forzeo serve --addr :9090 --store-dir ./records --sources known_sources.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	serveCmd.Flags().StringVar(&serveStoreDir, "store-dir", "", "persist records to this directory (default: in-memory)")
	serveCmd.Flags().StringVar(&registryPath, "sources", "", "known-sources registry YAML path")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveStoreDir != "" {
		cfg.Store.Dir = serveStoreDir
	}
	if registryPath != "" {
		cfg.Trust.RegistryPath = registryPath
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	srv := api.NewServer(a.verifier, a.store, a.registry, a.agg, cfg.Server, a.log)
	return srv.Run(ctx)
}
