// polyreorder - transfer mesh attributes across a point reordering.
//
// Given a target mesh carrying normals, normal locks, edge smoothing and UV
// sets, a source mesh supplying topology, and a point order, polyreorder
// builds a mesh whose points are permuted by the order and whose attributes
// match the target's.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/polyreorder/internal/config"
	"github.com/taigrr/polyreorder/internal/logger"
	"go.uber.org/zap"
)

var version = "dev"

// app carries state shared by every subcommand after flags are parsed.
type app struct {
	configPath string
	overrides  config.Overrides

	cfg       *config.Config
	log       *zap.Logger
	logCloser io.Closer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{}
	err := fang.Execute(ctx, newRootCmd(a), fang.WithVersion(version))
	a.closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "polyreorder",
		Short: "Reorder mesh points while keeping normals, smoothing and UVs",
		Long: `polyreorder - mesh point reorder tool

Rebuilds a mesh with a new point order and carries over split normals,
normal locks, hard edges and every UV set from the original.

Supported formats: .obj, .stl (read only), .gltf, .glb, .yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.closeLog()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to config file")
	flags.StringVar(&a.overrides.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.overrides.LogFile, "log-file", "", "Also write logs to this rotated file")

	cmd.AddCommand(newReorderCmd(a), newMatchCmd(a), newInfoCmd(a), newConfigCmd(a))
	return cmd
}

// setup loads the configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	cfg.Apply(a.overrides)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	opts := cfg.LoggerOptions()
	opts.Console = cmd.ErrOrStderr()
	a.log, a.logCloser = logger.New(opts)
	return nil
}

// closeLog flushes the logger and releases the log file. It is safe to call
// more than once.
func (a *app) closeLog() {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}
