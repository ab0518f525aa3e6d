// Command dependomine discovers approximate functional dependencies in a
// CSV table and prints them, one per line, as "LHS -> rhs (error=...)".
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/dependomine/dependomine"
	"github.com/dependomine/dependomine/measure"
	"github.com/dependomine/dependomine/table"
	"github.com/spf13/cobra"
)

type cliOpts struct {
	maxError     float64
	measureName  string
	samplingName string
	sampleParam  float64
	seed         int64
	hasHeader    bool
	verbose      bool
}

func main() {
	var o cliOpts

	root := &cobra.Command{
		Use:   "dependomine [csv-file]",
		Short: "Discover approximate functional dependencies in a CSV table",
		Long: `dependomine reads a table (CSV, delimiter auto-detected among
',', ';', '\t') and searches, independently for every column as RHS, for the
⊆-minimal attribute sets that functionally determine it within a configurable
error bound.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o, args[0])
		},
	}

	root.Flags().Float64Var(&o.maxError, "max-error", 0, "error threshold epsilon used for all FD/non-FD classifications")
	root.Flags().StringVar(&o.measureName, "measure", "g3", "error measure: g3, simple-g3, or g1")
	root.Flags().StringVar(&o.samplingName, "sampling", "none", "sampling strategy: none, random, focused, or neyman")
	root.Flags().Float64Var(&o.sampleParam, "sample-param", 1.0, "sample ratio (<1) or absolute target size (>=1), capped at N")
	root.Flags().Int64Var(&o.seed, "seed", -1, "PRNG seed for sampling; negative means nondeterministic")
	root.Flags().BoolVar(&o.hasHeader, "header", true, "treat the first row as column names")
	root.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "emit debug-level search trace")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, o cliOpts, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	t, err := table.LoadCSV(f, table.LoadCSVOptions{HasHeader: o.hasHeader})
	if err != nil {
		return err
	}

	kind, err := parseMeasure(o.measureName)
	if err != nil {
		return err
	}
	sampling, err := parseSampling(o.samplingName)
	if err != nil {
		return err
	}

	opts := []dependomine.ConfigOption{
		dependomine.WithMeasure(kind),
		dependomine.WithSampling(sampling),
		dependomine.WithSampleParam(o.sampleParam),
	}
	if o.seed >= 0 {
		opts = append(opts, dependomine.WithSeed(uint64(o.seed)))
	}
	if o.verbose {
		opts = append(opts, dependomine.WithVerbose(), dependomine.WithLogger(dependomine.NewZapLogger()))
	}

	fds, err := dependomine.Discover(ctx, t, o.maxError, opts...)
	if err != nil {
		return err
	}

	sort.Slice(fds, func(i, j int) bool {
		if fds[i].Rhs != fds[j].Rhs {
			return fds[i].Rhs < fds[j].Rhs
		}
		return fds[i].Error < fds[j].Error
	})

	for _, fd := range fds {
		fmt.Printf("%s -> %s (error=%.4f)\n", formatLhs(t, fd), t.ColumnName(fd.Rhs), fd.Error)
	}
	return nil
}

func formatLhs(t *table.Table, fd dependomine.FD) string {
	cols := fd.Lhs.ToSortedList()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = t.ColumnName(c)
	}
	return fmt.Sprintf("%v", names)
}

func parseMeasure(name string) (measure.Kind, error) {
	switch name {
	case "g3":
		return measure.G3, nil
	case "simple-g3":
		return measure.SimpleG3, nil
	case "g1":
		return measure.G1, nil
	default:
		return 0, fmt.Errorf("dependomine: unknown measure %q", name)
	}
}

func parseSampling(name string) (dependomine.Sampling, error) {
	switch name {
	case "none":
		return dependomine.SamplingNone, nil
	case "random":
		return dependomine.SamplingRandom, nil
	case "focused":
		return dependomine.SamplingFocused, nil
	case "neyman":
		return dependomine.SamplingNeyman, nil
	default:
		return 0, fmt.Errorf("dependomine: unknown sampling strategy %q", name)
	}
}
