package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/pkg/hooks"
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/patch"
	"github.com/vango-dev/reconcile/pkg/treefile"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

func watchCmd(load func() (*config.Config, error)) *cobra.Command {
	var trace bool

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-patch a tree document every time it changes",
		Long: `Mount FILE on an in-memory host, then patch the host to each new
version of the file as it is saved and print what changed.

Invalid versions are reported and skipped; the next valid version is
patched against the last valid one. An empty file is ignored, since
editors often truncate before writing.

Examples:
  vdiff watch tree.yaml
  vdiff watch --trace tree.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args[0], trace)
		},
	}

	cmd.Flags().BoolVarP(&trace, "trace", "t", false, "Print the lifecycle hook trace")

	return cmd
}

// watcher holds the state of a watch session.
type watcher struct {
	path   string
	format treefile.Format
	trace  bool
	out    io.Writer
	errOut io.Writer

	arena *host.Arena
	rec   *hooks.Recorder
	run   func(context.Context, *vdom.VNode) (patch.Result, error)
	tree  *vdom.VNode
	last  []byte
	seq   int
}

func runWatch(ctx context.Context, out, errOut io.Writer, cfg *config.Config, path string, trace bool) error {
	format, err := treefile.FormatOf(path)
	if err != nil {
		return err
	}
	logger, err := cfg.Log.NewLogger(errOut)
	if err != nil {
		return err
	}

	w := &watcher{
		path:   filepath.Clean(path),
		format: format,
		trace:  trace,
		out:    out,
		errOut: errOut,
		arena:  host.NewArena(),
		rec:    &hooks.Recorder{},
	}
	engine, err := newEngine(cfg, w.arena, logger, w.rec)
	if err != nil {
		return err
	}
	w.run = func(ctx context.Context, next *vdom.VNode) (patch.Result, error) {
		return engine.Run(ctx, w.arena.Root(), w.tree, next)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	// Watch the directory so editors that save by renaming are seen.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	if err := w.reload(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := w.reload(ctx); err != nil {
				return err
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w.errOut, "watch: %v\n", err)
		}
	}
}

// reload reads the file and patches to it. Document errors are reported
// and skipped; patch errors end the watch, since the host no longer
// matches the last tree.
func (w *watcher) reload(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// The file may be mid-rename; the next event retries.
		fmt.Fprintf(w.errOut, "watch: %v\n", err)
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(data, w.last) {
		return nil
	}
	w.last = data

	next, err := treefile.Parse(data, w.format)
	if err != nil {
		fmt.Fprintf(w.errOut, "%s: %v\n", w.path, err)
		return nil
	}

	w.rec.Reset()
	res, err := w.run(ctx, next)
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	w.tree = next
	w.seq++

	muts := w.arena.Journal().Drain()
	fmt.Fprintf(w.out, "--- %s #%d\n", w.path, w.seq)
	report := newReport(res, muts, w.rec.Events, w.arena.Render(w.arena.Root()), w.trace)
	printReport(w.out, report, w.trace)
	return nil
}
