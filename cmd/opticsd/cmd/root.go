package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"cosmossdk.io/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/celestiaorg/optics/x/optics/keeper"
)

const (
	// EnvPrefix is the prefix of environment variables overriding the config.
	EnvPrefix = "OPTICS"

	FlagHome      = "home"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagDBBackend = "db-backend"
)

// DefaultNodeHome is the default directory of the config and data stores.
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		userHomeDir = "."
	}
	DefaultNodeHome = filepath.Join(userHomeDir, ".optics")
}

type contextKey struct{}

// clientContext is built once per invocation and shared by every command.
type clientContext struct {
	homeDir  string
	config   Config
	logger   log.Logger
	registry *prometheus.Registry
	metrics  *keeper.Metrics
}

func getClientContext(cmd *cobra.Command) (*clientContext, error) {
	cctx, ok := cmd.Context().Value(contextKey{}).(*clientContext)
	if !ok {
		return nil, errors.New("client context not initialized")
	}
	return cctx, nil
}

// NewRootCmd creates the opticsd root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "opticsd",
		Short:         "Optics cross-chain messaging home, replica and agents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			homeDir, err := cmd.Flags().GetString(FlagHome)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(homeDir, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			registry := prometheus.NewRegistry()
			cctx := &clientContext{
				homeDir:  homeDir,
				config:   cfg,
				logger:   logger,
				registry: registry,
				metrics:  keeper.NewMetrics(registry),
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, contextKey{}, cctx))
			return nil
		},
	}

	rootCmd.PersistentFlags().String(FlagHome, DefaultNodeHome, "Directory for config and data")
	rootCmd.PersistentFlags().String(FlagLogLevel, "info", "The logging level (trace|debug|info|warn|error|fatal|panic)")
	rootCmd.PersistentFlags().String(FlagLogFormat, "plain", "The logging format (json|plain)")
	rootCmd.PersistentFlags().String(FlagDBBackend, DBBackendGoLevelDB, "Store backend (goleveldb|memdb)")

	rootCmd.AddCommand(
		initCmd(),
		messageCmd(),
		indexCmd(),
		updaterCmd(),
		fraudCmd(),
		homeCmd(),
		replicaCmd(),
		runCmd(),
	)
	return rootCmd
}

func newLogger(out io.Writer, cfg Config) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := []log.Option{log.LevelOption(level)}
	if cfg.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(out, opts...), nil
}
