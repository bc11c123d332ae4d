package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/pkg/protocol"
)

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode FILE",
		Short: "Print the mutation batches in a wire-format file",
		Long: `Decode a file of framed mutation batches, as written by
"vdiff patch --encode", and print each mutation.

Examples:
  vdiff decode journal.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return runDecode(cmd.OutOrStdout(), f)
		},
	}
}

func runDecode(out io.Writer, r io.Reader) error {
	for n := 0; ; n++ {
		b, err := protocol.ReadBatch(r)
		if stderrors.Is(err, io.EOF) {
			if n == 0 {
				return fmt.Errorf("no batches found")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("batch %d: %w", n+1, err)
		}

		fmt.Fprintf(out, "Batch %d (%d mutations):\n", b.Seq, len(b.Mutations))
		for _, m := range b.Mutations {
			fmt.Fprintf(out, "  %s\n", m)
		}
	}
}
