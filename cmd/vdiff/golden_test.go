package main

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Run with -update to regenerate testdata/golden after an intended
// change to the report format.
func TestPatchReportGolden(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"mount_trace", []string{"testdata/p.yaml"}},
		{"reorder_trace", []string{"testdata/before.yaml", "testdata/after.yaml"}},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"patch", "--config", t.TempDir(), "--trace"}, tc.args...)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("patch failed: %v", err)
			}
			g.Assert(t, tc.name, []byte(out))
		})
	}
}
