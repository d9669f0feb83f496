package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/gitrdm/gokanterm/internal/program"
	mk "github.com/gitrdm/gokanterm/pkg/minikanren"
)

type solveOptions struct {
	limit   int
	format  string
	workers int
	metrics bool
	timeout time.Duration
	queries []string
	noColor bool
}

func newSolveCommand() *cobra.Command {
	opts := &solveOptions{}
	cmd := &cobra.Command{
		Use:   "solve <program.yaml>",
		Short: "Solve the queries of a program",
		Long: `Loads a YAML program, solves its queries concurrently and prints the
answers of each query in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.limit, "limit", "n", 0, "Maximum answers per query, overriding the program (0 keeps the program's limit)")
	f.StringVarP(&opts.format, "format", "o", "text", "Output format: text or json")
	f.IntVarP(&opts.workers, "workers", "w", 0, "Queries solved in parallel (0 means one per CPU)")
	f.BoolVar(&opts.metrics, "metrics", false, "Print solver metrics in Prometheus text format after the answers")
	f.DurationVar(&opts.timeout, "timeout", 0, "Abort solving after this long (0 means no timeout)")
	f.StringSliceVarP(&opts.queries, "query", "q", nil, "Only solve the named queries")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	return cmd
}

func runSolve(cmd *cobra.Command, path string, opts *solveOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	prog, err := program.Load(path)
	if err != nil {
		return err
	}
	queries, err := selectQueries(prog.Queries, opts.queries)
	if err != nil {
		return err
	}
	if opts.limit > 0 {
		for i := range queries {
			queries[i].Limit = opts.limit
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	reg := prometheus.NewRegistry()
	solver := mk.NewSolver(
		mk.WithLogger(newLogger(cmd, cmd.ErrOrStderr())),
		mk.WithMetrics(mk.NewMetrics(reg)),
	)
	results := solver.RunBatch(ctx, opts.workers, queries...)

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		err = writeJSON(out, results)
	} else {
		err = writeText(out, results, opts.noColor)
	}
	if err != nil {
		return err
	}
	if opts.metrics {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed", failed, len(results))
	}
	return nil
}

func selectQueries(all []mk.Query, names []string) ([]mk.Query, error) {
	if len(names) == 0 {
		return slices.Clone(all), nil
	}
	var out []mk.Query
	for _, name := range names {
		i := slices.IndexFunc(all, func(q mk.Query) bool { return q.Name == name })
		if i < 0 {
			return nil, fmt.Errorf("no query named %q", name)
		}
		out = append(out, all[i])
	}
	return out, nil
}

func writeText(w io.Writer, results []mk.Result, noColor bool) error {
	title := color.New(color.FgCyan, color.Bold)
	fail := color.New(color.FgRed)
	faint := color.New(color.Faint)
	if noColor {
		for _, c := range []*color.Color{title, fail, faint} {
			c.DisableColor()
		}
	}

	for _, r := range results {
		if _, err := title.Fprintf(w, "%s\n", r.Name); err != nil {
			return err
		}
		for _, a := range r.Answers {
			if _, err := fmt.Fprintf(w, "  %s\n", a); err != nil {
				return err
			}
		}
		if len(r.Answers) == 0 && r.Err == nil {
			if _, err := faint.Fprintln(w, "  no answers"); err != nil {
				return err
			}
		}
		if r.Err != nil {
			if _, err := fail.Fprintf(w, "  error: %v\n", r.Err); err != nil {
				return err
			}
		}
	}
	return nil
}

type jsonResult struct {
	Name    string   `json:"name"`
	Answers []string `json:"answers"`
	Error   string   `json:"error,omitempty"`
}

func writeJSON(w io.Writer, results []mk.Result) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{Name: r.Name, Answers: make([]string, len(r.Answers))}
		for j, a := range r.Answers {
			out[i].Answers[j] = a.String()
		}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var errs []error
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
