package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/modules"
	"github.com/vango-dev/reconcile/pkg/patch"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		if colorEnabled(os.Stderr) {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "vdiff",
		Short: "Diff and patch virtual trees",
		Long: `vdiff reconciles virtual trees described in JSON or YAML documents.

It patches an in-memory host from one tree to another and reports the
host mutations and lifecycle hooks the reconciler produced, encodes
mutation journals in the binary wire format, and serves the reconciler
over HTTP and WebSocket for remote hosts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to "+config.ConfigFileName+" or its directory (default: working directory)")

	load := func() (*config.Config, error) {
		return loadConfig(configPath)
	}
	cmd.AddCommand(
		patchCmd(load),
		decodeCmd(),
		serveCmd(load),
		watchCmd(load),
		versionCmd(),
	)
	return cmd
}

// loadConfig reads the configuration from path, which may be a file or a
// directory. A directory without a config file, or an empty path meaning
// the working directory, yields the defaults.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return config.LoadOrNew(path)
	}
	return config.LoadFile(path)
}

// newEngine builds an engine over arena from cfg. Hook subscribers are
// registered in the order given.
func newEngine(cfg *config.Config, arena *host.Arena, logger *slog.Logger, subscribers ...any) (*patch.Engine, error) {
	appliers, err := modules.ByName(arena, cfg.Modules...)
	if err != nil {
		return nil, err
	}
	opts := []patch.Option{
		patch.WithModules(appliers...),
		patch.WithLogger(logger),
		patch.WithHooks(subscribers...),
	}
	if cfg.Tracing.TracerName != "" {
		opts = append(opts, patch.WithTracer(otel.Tracer(cfg.Tracing.TracerName)))
	}
	return patch.New(arena, opts...), nil
}

// colorEnabled reports whether w is a terminal that takes ANSI colors.
func colorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if colorEnabled(w) {
		fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", msg)
		return
	}
	fmt.Fprintf(w, "✓ %s\n", msg)
}
