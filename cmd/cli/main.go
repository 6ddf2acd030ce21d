package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"goincome/adapters/excel"
	"goincome/domain/statement"
	"goincome/domain/view"
	"goincome/internal"
	"goincome/internal/config"
	"goincome/internal/container"
	"goincome/ui/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// viewOptions are the filter and sort flags shared by every command
type viewOptions struct {
	form services.FilterForm
	sort []string
}

func (o *viewOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.form.DateStart, "from", "", "Earliest statement date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.form.DateEnd, "to", "", "Latest statement date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.form.RevenueMin, "revenue-min", "", "Minimum revenue")
	cmd.Flags().StringVar(&o.form.RevenueMax, "revenue-max", "", "Maximum revenue")
	cmd.Flags().StringVar(&o.form.NetIncomeMin, "net-income-min", "", "Minimum net income")
	cmd.Flags().StringVar(&o.form.NetIncomeMax, "net-income-max", "", "Maximum net income")
	cmd.Flags().StringSliceVar(&o.sort, "sort", nil, "Sort keys applied in order (date, revenue, netIncome); repeating a key reverses it")
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "goincome-cli",
		Short:        "Query annual income statements from the terminal",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newTableCmd(),
		newExportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTableCmd() *cobra.Command {
	var opts viewOptions

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the filtered and sorted statements",
		Long: `Fetch the statements once and print them as a table.

Example: goincome-cli table --from 2019-01-01 --revenue-min 300000000000 --sort revenue,revenue`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := buildState(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printTable(cmd.OutOrStdout(), st)
		},
	}
	opts.register(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	var opts viewOptions
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered and sorted statements to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := buildState(cmd.Context(), opts)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := excel.WriteStatements(f, st.Visible); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d statements to %s\n", len(st.Visible), out)
			return nil
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVar(&out, "out", "income-statements.xlsx", "Output file")
	return cmd
}

// buildState fetches once and runs the same transitions the dashboard does
func buildState(ctx context.Context, opts viewOptions) (view.State, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return view.State{}, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	records, err := container.NewSource(cfg.Source, logger).FetchStatements(ctx)
	if err != nil {
		return view.State{}, err
	}
	return deriveState(records, opts)
}

func deriveState(records []statement.Record, opts viewOptions) (view.State, error) {
	st := view.Load(view.New(), records)

	criteria := opts.form.Criteria()
	if !criteria.IsEmpty() {
		var err error
		if st, err = view.ApplyFilters(st, criteria); err != nil {
			return st, errors.New(statement.UserMessage(err))
		}
	}

	for _, raw := range opts.sort {
		key, err := statement.ParseSortKey(raw)
		if err != nil {
			return st, err
		}
		st = view.ToggleSort(st, key)
	}
	return st, nil
}

func printTable(w io.Writer, st view.State) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tRevenue\tNet Income\tGross Profit\tEPS\tOperating Income\t")
	for _, r := range st.Visible {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Date,
			services.Currency(r.Revenue),
			services.Currency(r.NetIncome),
			services.Currency(r.GrossProfit),
			services.EPS(r.EPS),
			services.Currency(r.OperatingIncome),
		)
	}
	if !st.Notice.Empty() {
		fmt.Fprintln(tw, st.Notice.Text)
	}
	return tw.Flush()
}
