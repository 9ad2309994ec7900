package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/attrstrip/internal/server"
	"github.com/jmylchreest/attrstrip/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the cleaner over HTTP",
	Long: `Serve the cleaning pipeline as a JSON API.

Endpoints:
  POST /v1/clean            clean {"markup": "...", "preset": "...", "config": {...}}
  GET  /v1/classify/:name   category of one attribute name
  GET  /v1/attributes       the preserved and styling attribute sets
  GET  /healthz             liveness

The pipeline flags set the configuration used when a request names no
preset.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindPipelineFlags(cmd.Flags()); err != nil {
			return err
		}
		return bindFlags(cmd.Flags(), "server", serverFlags)
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := server.DefaultConfig()
	flags := serveCmd.Flags()
	flags.String("addr", defaults.Addr, "listen address")
	flags.String("max-body-bytes", "5MB", "maximum request body size (e.g. 512KB, 5MB)")
	flags.Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	flags.Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	flags.Duration("shutdown-timeout", defaults.ShutdownTimeout, "graceful shutdown timeout")

	addPipelineFlags(flags)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := serverConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if cfg.Pipeline, err = pipelineConfig(viper.GetViper()); err != nil {
		return err
	}
	cfg.Version = version.Get().Version

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
