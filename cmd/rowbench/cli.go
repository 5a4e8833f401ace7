// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/ajroetker/go-rowwise/envconfig"
	"github.com/ajroetker/go-rowwise/rowwise"
	"github.com/ajroetker/go-rowwise/rowwise/block"
	"github.com/ajroetker/go-rowwise/rowwise/contrib/kernels"
	"github.com/ajroetker/go-rowwise/rowwise/contrib/vec"
)

// NewCLI returns the root command.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "rowbench",
		Short:         "Run fused row kernels on random matrices",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: envconfig.LogLevel()})
			slog.SetDefault(slog.New(handler))
		},
	}

	envVars := envconfig.AsMap()
	runCmd := newRunCmd()
	appendEnvDocs(runCmd, []envconfig.EnvVar{
		envVars["ROWWISE_DEBUG"],
		envVars["ROWWISE_NUM_THREADS"],
		envVars["ROWWISE_MAX_SCRATCH"],
		envVars["ROWWISE_NO_SIMD"],
		envVars["ROWWISE_SPARSITY_TURN_POINT"],
	})
	planCmd := newPlanCmd()
	appendEnvDocs(planCmd, []envconfig.EnvVar{envVars["ROWWISE_NUM_THREADS"]})

	rootCmd.AddCommand(runCmd, planCmd, newListCmd(), newEnvCmd())
	return rootCmd
}

func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-28s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	return table
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List built-in kernels",
		Args:    cobra.NoArgs,
		RunE:    ListHandler,
	}
}

// ListHandler prints the built-in kernels.
func ListHandler(cmd *cobra.Command, _ []string) error {
	var data [][]string
	for _, b := range kernels.Builtins() {
		op, err := b.New()
		if err != nil {
			return err
		}
		side := "-"
		if b.SideShape != nil {
			side = sideLabel(b.SideShape)
		}
		data = append(data, []string{
			b.Name,
			op.RowType().String(),
			side,
			strconv.Itoa(b.Scalars),
			strconv.Itoa(op.ReqVectMem()),
		})
	}

	table := newTable(cmd.OutOrStdout(), []string{"NAME", "TYPE", "SIDE", "SCALARS", "SCRATCH"})
	table.AppendBulk(data)
	table.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "\nvector primitives: %s\n", vec.CurrentName())
	return nil
}

// sideLabel describes a side operand shape in terms of the primary input's
// m x n, e.g. "nx1".
func sideLabel(shape func(m, n int) (int, int)) string {
	const m, n = 3, 5
	rows, cols := shape(m, n)
	sym := func(v int) string {
		switch v {
		case m:
			return "m"
		case n:
			return "n"
		}
		return strconv.Itoa(v)
	}
	return sym(rows) + "x" + sym(cols)
}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  EnvHandler,
	}
}

// EnvHandler prints every ROWWISE_* variable with its effective value.
func EnvHandler(cmd *cobra.Command, _ []string) error {
	vars := envconfig.AsMap()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var data [][]string
	for _, name := range names {
		v := vars[name]
		data = append(data, []string{v.Name, fmt.Sprint(v.Value), v.Description})
	}
	table := newTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"})
	table.AppendBulk(data)
	table.Render()
	return nil
}

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show how rows are split into parallel tasks",
		Args:  cobra.NoArgs,
		RunE:  PlanHandler,
	}
	cmd.Flags().Int("rows", 100000, "Number of input rows")
	cmd.Flags().Int("cols", 64, "Number of input columns")
	cmd.Flags().Int("threads", int(envconfig.NumThreads()), "Degree of parallelism")
	return cmd
}

// PlanHandler prints the task ranges ExecuteParallel would use.
func PlanHandler(cmd *cobra.Command, _ []string) error {
	rows, _ := cmd.Flags().GetInt("rows")
	cols, _ := cmd.Flags().GetInt("cols")
	threads, _ := cmd.Flags().GetInt("threads")
	if rows < 0 || cols < 0 {
		return fmt.Errorf("invalid shape %dx%d", rows, cols)
	}

	plan := rowwise.Schedule(rows, cols, threads)
	w := cmd.OutOrStdout()
	if !plan.Parallel {
		fmt.Fprintf(w, "serial: %dx%d input (%d cells, threshold %d), %d threads\n",
			rows, cols, int64(rows)*int64(cols), rowwise.ParNumCellThreshold, threads)
		return nil
	}
	fmt.Fprintf(w, "parallel: %d tasks of up to %d rows on %d workers\n\n", len(plan.Ranges), plan.BlockLen, plan.Workers)

	var data [][]string
	for i, r := range plan.Ranges {
		data = append(data, []string{strconv.Itoa(i), strconv.Itoa(r.Lo), strconv.Itoa(r.Hi), strconv.Itoa(r.Len())})
	}
	table := newTable(w, []string{"TASK", "FROM", "TO", "ROWS"})
	table.AppendBulk(data)
	table.Render()
	return nil
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a kernel serially and in parallel and compare",
		Args:  cobra.NoArgs,
		RunE:  RunHandler,
	}
	cmd.Flags().String("kernel", "rowSums", "Built-in kernel to run (see list)")
	cmd.Flags().Int("rows", 4096, "Number of input rows")
	cmd.Flags().Int("cols", 256, "Number of input columns")
	cmd.Flags().Float64("density", 1, "Fraction of non-zero input cells")
	cmd.Flags().Bool("sparse", false, "Store the primary input sparse")
	cmd.Flags().Int("threads", int(envconfig.NumThreads()), "Degree of parallelism")
	cmd.Flags().Int("repeat", 3, "Runs per mode; the fastest is reported")
	cmd.Flags().Uint64("seed", 1, "Random seed")
	cmd.Flags().Float64("scalar", 2, "Scalar constant for kernels that take one")
	return cmd
}

type runResult struct {
	mode    string
	threads int
	tasks   int
	elapsed time.Duration
	out     block.Block
}

// RunHandler runs one kernel serially and in parallel on the same random
// inputs and prints timings and the largest difference between the two.
func RunHandler(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("kernel")
	rows, _ := cmd.Flags().GetInt("rows")
	cols, _ := cmd.Flags().GetInt("cols")
	density, _ := cmd.Flags().GetFloat64("density")
	sparse, _ := cmd.Flags().GetBool("sparse")
	threads, _ := cmd.Flags().GetInt("threads")
	repeat, _ := cmd.Flags().GetInt("repeat")
	seed, _ := cmd.Flags().GetUint64("seed")
	scalarValue, _ := cmd.Flags().GetFloat64("scalar")

	b, ok := kernels.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown kernel %q", name)
	}
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("invalid shape %dx%d", rows, cols)
	}
	if density < 0 || density > 1 {
		return fmt.Errorf("density %v not in [0, 1]", density)
	}
	repeat = max(repeat, 1)

	op, err := b.New(rowwise.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	inputs, err := generateInputs(cmd.Context(), b, rows, cols, density, sparse, seed)
	if err != nil {
		return err
	}
	scalars := make([]float64, b.Scalars)
	for i := range scalars {
		scalars[i] = scalarValue
	}

	results := []*runResult{
		{mode: "serial", threads: 1, tasks: 1},
		{mode: "parallel", threads: threads},
	}
	if plan := rowwise.Schedule(rows, cols, threads); plan.Parallel {
		results[1].tasks = len(plan.Ranges)
	} else {
		results[1].mode = "parallel (serial fallback)"
		results[1].tasks = 1
	}
	for _, r := range results {
		r.elapsed = time.Duration(math.MaxInt64)
		for range repeat {
			start := time.Now()
			if err := op.ExecuteParallel(inputs, scalars, &r.out, r.threads); err != nil {
				return err
			}
			r.elapsed = min(r.elapsed, time.Since(start))
		}
	}

	diff := floats.Distance(results[0].out.Densify(), results[1].out.Densify(), math.Inf(1))

	var data [][]string
	for _, r := range results {
		data = append(data, []string{
			r.mode,
			strconv.Itoa(r.threads),
			strconv.Itoa(r.tasks),
			r.elapsed.String(),
			shapeOf(&r.out),
			strconv.FormatInt(r.out.NonZeros(), 10),
			strconv.FormatBool(r.out.IsSparse()),
		})
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s on %s input (nnz %d, sparse %v), primitives %s\n\n",
		op, shapeOf(inputs[0]), inputs[0].NonZeros(), inputs[0].IsSparse(), vec.CurrentName())
	table := newTable(w, []string{"MODE", "THREADS", "TASKS", "TIME", "OUTPUT", "NNZ", "SPARSE"})
	table.AppendBulk(data)
	table.Render()
	fmt.Fprintf(w, "\nmax |serial - parallel| = %g\n", diff)
	return nil
}

func shapeOf(b *block.Block) string {
	return fmt.Sprintf("%dx%d", b.Rows(), b.Cols())
}

// generateInputs builds the primary input and the side operand (if any) of
// builtin b, filling row chunks concurrently.
func generateInputs(ctx context.Context, b kernels.Builtin, rows, cols int, density float64, sparse bool, seed uint64) ([]*block.Block, error) {
	x, err := randomBlock(ctx, rows, cols, density, sparse, seed)
	if err != nil {
		return nil, err
	}
	inputs := []*block.Block{x}
	if b.SideShape != nil {
		sr, sc := b.SideShape(rows, cols)
		side, err := randomBlock(ctx, sr, sc, 1, false, seed+1)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, side)
	}
	return inputs, nil
}

// randomBlock returns a rows x cols block whose cells are standard normal
// with probability density and zero otherwise. The result depends only on
// the seed, not on scheduling.
func randomBlock(ctx context.Context, rows, cols int, density float64, sparse bool, seed uint64) (*block.Block, error) {
	const chunkRows = 1024

	data := make([]float64, rows*cols)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for lo := 0; lo < rows; lo += chunkRows {
		hi := min(lo+chunkRows, rows)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(lo)))
			for i := lo * cols; i < hi*cols; i++ {
				if rng.Float64() < density {
					data[i] = rng.NormFloat64()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sparse {
		return block.NewSparse(rows, cols, block.CSRFromDense(data, rows, cols))
	}
	return block.NewDenseFrom(rows, cols, data)
}
