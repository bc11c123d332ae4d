package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/config"
	"github.com/vango-dev/reconcile/pkg/hooks"
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/patch"
	"github.com/vango-dev/reconcile/pkg/protocol"
	"github.com/vango-dev/reconcile/pkg/server"
	"github.com/vango-dev/reconcile/pkg/treefile"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

func patchCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		trace   bool
		asJSON  bool
		encode  string
		seqBase uint64
	)

	cmd := &cobra.Command{
		Use:   "patch [OLD] NEW",
		Short: "Patch one tree into another and report what changed",
		Long: `Mount OLD on an empty in-memory host, patch it to NEW and print the
host mutations of the second step, the final rendering and statistics.
With a single argument NEW is mounted on an empty host.

Documents are JSON (.json) or YAML (.yaml, .yml).

Examples:
  vdiff patch before.yaml after.yaml
  vdiff patch --trace before.yaml after.yaml
  vdiff patch --encode journal.bin before.yaml after.yaml
  vdiff patch --json tree.json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runPatch(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, args, patchOptions{
				trace:  trace,
				asJSON: asJSON,
				encode: encode,
				seq:    seqBase,
			})
		},
	}

	cmd.Flags().BoolVarP(&trace, "trace", "t", false, "Print the lifecycle hook trace")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().StringVarP(&encode, "encode", "e", "", "Write the mutation journal to `FILE` in the wire format")
	cmd.Flags().Uint64Var(&seqBase, "seq", 1, "Sequence number of the encoded batch")

	return cmd
}

type patchOptions struct {
	trace  bool
	asJSON bool
	encode string
	seq    uint64
}

func runPatch(ctx context.Context, out, errOut io.Writer, cfg *config.Config, args []string, opts patchOptions) error {
	logger, err := cfg.Log.NewLogger(errOut)
	if err != nil {
		return err
	}

	var prevPath, nextPath string
	if len(args) == 2 {
		prevPath, nextPath = args[0], args[1]
	} else {
		nextPath = args[0]
	}

	prev, err := loadTree(prevPath)
	if err != nil {
		return err
	}
	next, err := treefile.Load(nextPath)
	if err != nil {
		return err
	}

	arena := host.NewArena()
	rec := &hooks.Recorder{}
	engine, err := newEngine(cfg, arena, logger, rec)
	if err != nil {
		return err
	}

	if prev != nil {
		if _, err := engine.Patch(ctx, arena.Root(), nil, prev); err != nil {
			return fmt.Errorf("mount %s: %w", prevPath, err)
		}
		arena.Journal().Reset()
		rec.Reset()
	}

	res, err := engine.Run(ctx, arena.Root(), prev, next)
	if err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	muts := arena.Journal().Drain()

	if opts.encode != "" {
		if err := writeJournal(opts.encode, &protocol.Batch{Seq: opts.seq, Mutations: muts}); err != nil {
			return err
		}
	}

	report := newReport(res, muts, rec.Events, arena.Render(arena.Root()), opts.trace || opts.asJSON)
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(out, report, opts.trace)
	if opts.encode != "" {
		success(out, "Wrote %d mutations to %s", len(muts), opts.encode)
	}
	return nil
}

// newReport builds the report shared with the inspection server's
// POST /patch response.
func newReport(res patch.Result, muts []host.Mutation, events []hooks.Event, html string, withHooks bool) *server.PatchResponse {
	report := &server.PatchResponse{
		Elm:     res.Elm,
		Journal: make([]string, 0, len(muts)),
		Hooks:   []string{},
		Stats:   res.Stats,
		HTML:    html,
	}
	for _, m := range muts {
		report.Journal = append(report.Journal, m.String())
	}
	if withHooks {
		for _, e := range events {
			report.Hooks = append(report.Hooks, e.String())
		}
	}
	return report
}

func printReport(out io.Writer, report *server.PatchResponse, trace bool) {
	fmt.Fprintf(out, "Mutations (%d):\n", len(report.Journal))
	for _, line := range report.Journal {
		fmt.Fprintf(out, "  %s\n", line)
	}
	if trace {
		fmt.Fprintf(out, "Hooks (%d):\n", len(report.Hooks))
		for _, line := range report.Hooks {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
	s := report.Stats
	fmt.Fprintf(out, "Stats: created=%d inserted=%d moved=%d updated=%d removed=%d text=%d duplicates=%d\n",
		s.Created, s.Inserted, s.Moved, s.Updated, s.Removed, s.TextUpdates, s.DuplicateKeys)
	fmt.Fprintf(out, "Result: %s\n", report.HTML)
}

// loadTree loads a document, treating an empty path as no tree.
func loadTree(path string) (*vdom.VNode, error) {
	if path == "" {
		return nil, nil
	}
	return treefile.Load(path)
}

func writeJournal(path string, b *protocol.Batch) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := protocol.WriteBatch(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
