// Command jandas inspects and transforms delimited text tables from the shell.
//
//	jandas show people.csv
//	jandas filter people.csv --where "Edad > 30" --where "Ciudad = Lima"
//	jandas groupby sales.csv --by Grupo --agg sum -o totals.csv
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	jandas "github.com/wally8673/Jandas-sub000"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	delimiter string
	na        string
	noHeader  bool
	maxRows   int
	seed      int64
	logLevel  string
	output    string

	stdout io.Writer
	stderr io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:           "jandas",
		Short:         "Inspect and transform CSV tables",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.delimiter, "delimiter", ",", `field delimiter ("\t" for tabs)`)
	pf.StringVar(&opts.na, "na", jandas.NullString, "token read and written as a missing value")
	pf.BoolVar(&opts.noHeader, "no-header", false, "input files have no header row")
	pf.IntVar(&opts.maxRows, "max-rows", jandas.DefaultDisplayConfig().MaxRows, "rows to print before eliding")
	pf.Int64Var(&opts.seed, "seed", 0, "seed for sampling (random when unset)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVarP(&opts.output, "output", "o", "", "write the result as CSV to this file instead of printing it")

	rootCmd.AddCommand(
		newShowCmd(opts),
		newHeadCmd(opts),
		newTailCmd(opts),
		newFilterCmd(opts),
		newSortCmd(opts),
		newGroupByCmd(opts),
		newSampleCmd(opts),
		newConcatCmd(opts),
		newImputeCmd(opts),
	)
	return rootCmd
}

// setup installs the logger and the sampling seed before a command runs.
func (o *options) setup(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	jandas.SetLogger(slog.New(slog.NewTextHandler(o.stderr, &slog.HandlerOptions{Level: level})))

	if cmd.Flags().Changed("seed") {
		jandas.SetSeed(o.seed)
	}
	if _, err := o.comma(); err != nil {
		return err
	}
	return nil
}

// comma returns the delimiter as a single rune.
func (o *options) comma() (rune, error) {
	d := o.delimiter
	if d == `\t` {
		d = "\t"
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("--delimiter must be a single character, got %q", o.delimiter)
	}
	r, _ := utf8.DecodeRuneInString(d)
	return r, nil
}

func (o *options) read(path string) (*jandas.DataFrame, error) {
	comma, err := o.comma()
	if err != nil {
		return nil, err
	}
	ro := jandas.DefaultCSVReadOptions()
	ro.Delimiter = comma
	ro.HasHeader = !o.noHeader
	ro.NullValue = o.na
	return jandas.ReadCSV(path, ro)
}

// emit prints df under a title, or writes it as CSV when --output is set.
func (o *options) emit(title string, df *jandas.DataFrame) error {
	if o.output != "" {
		comma, err := o.comma()
		if err != nil {
			return err
		}
		wo := jandas.DefaultCSVWriteOptions()
		wo.Delimiter = comma
		wo.WriteHeader = !o.noHeader
		wo.NullString = o.na
		if err := df.WriteCSV(o.output, wo); err != nil {
			return err
		}
		fmt.Fprintln(o.stdout, successStyle.Render(fmt.Sprintf("wrote %d rows to %s", df.Height(), o.output)))
		return nil
	}

	cfg := jandas.GetDisplayConfig()
	cfg.MaxRows = o.maxRows
	cfg.NullString = o.na
	fmt.Fprintln(o.stdout, titleStyle.Render(title))
	fmt.Fprintln(o.stdout, df.StringWithConfig(cfg))
	return nil
}

// column resolves a column name typed on the command line. Headerless files
// have integer labels, so numeric names fall back to those.
func column(df *jandas.DataFrame, name string) jandas.Label {
	l := jandas.StringLabel(name)
	if df.HasColumn(l) {
		return l
	}
	if n, err := strconv.Atoi(name); err == nil && df.HasColumn(jandas.IntLabel(n)) {
		return jandas.IntLabel(n)
	}
	return l
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := opts.read(args[0])
			if err != nil {
				return err
			}
			return opts.emit(args[0], df)
		},
	}
}

func newHeadCmd(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "head <file>",
		Short: "Print the first rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := opts.read(args[0])
			if err != nil {
				return err
			}
			out, err := df.Head(n)
			if err != nil {
				return err
			}
			return opts.emit(fmt.Sprintf("%s (first %d)", args[0], n), out)
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "number of rows")
	return cmd
}

func newTailCmd(opts *options) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "tail <file>",
		Short: "Print the last rows of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := opts.read(args[0])
			if err != nil {
				return err
			}
			out, err := df.Tail(n)
			if err != nil {
				return err
			}
			return opts.emit(fmt.Sprintf("%s (last %d)", args[0], n), out)
		},
	}
	cmd.Flags().IntVarP(&n, "rows", "n", 5, "number of rows")
	return cmd
}

func newFilterCmd(opts *options) *cobra.Command {
	var (
		where    []string
		matchAny bool
	)
	cmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "Keep the rows matching comparisons",
		Long: `Keep the rows matching one or more comparisons of the form "column op literal",
where op is one of >, <, =, >=, <=. Comparisons are ANDed unless --any is given.
Quote a literal to compare it as text: --where 'Codigo = "007"'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(where) == 0 {
				return fmt.Errorf("at least one --where comparison is required")
			}
			conds := make([]jandas.Condition, len(where))
			for i, w := range where {
				c, err := jandas.ParseComparison(w)
				if err != nil {
					return err
				}
				conds[i] = c
			}
			cond := jandas.And(conds...)
			if matchAny {
				cond = jandas.Or(conds...)
			}

			df, err := opts.read(args[0])
			if err != nil {
				return err
			}
			out, err := df.Filter(cond)
			if err != nil {
				return err
			}
			return opts.emit(fmt.Sprintf("%s where %s", args[0], cond), out)
		},
	}
	cmd.Flags().StringArrayVarP(&where, "where", "w", nil, `comparison such as "Edad > 30" (repeatable)`)
	cmd.Flags().BoolVar(&matchAny, "any", false, "keep rows matching any comparison instead of all")
	return cmd
}

func newSortCmd(opts *options) *cobra.Command {
	var by []string
	cmd := &cobra.Command{
		Use:   "sort <file>",
		Short: "Sort rows by one or more columns",
		Long: `Sort rows by one or more columns. Each --by takes a column name with an
optional ":desc" or ":asc" suffix; earlier columns take precedence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := opts.read(args[0])
			if err != nil {
				return err
			}
			criteria := make([]jandas.Criterion, len(by))
			for i, arg := range by {
				name, dir, _ := strings.Cut(arg, ":")
				switch strings.ToLower(dir) {
				case "", "asc":
					criteria[i] = jandas.Asc(column(df, name))
				case "desc":
					criteria[i] = jandas.Desc(column(df, name))
				default:
					return fmt.Errorf("invalid sort direction %q in %q", dir, arg)
				}
			}
			out, err := df.SortBy(criteria...)
			if err != nil {
				return err
			}
			return opts.emit(fmt.Sprintf("%s sorted by %s", args[0], strings.Join(by, ", ")), out)
		},
	}
	cmd.Flags().StringArrayVar(&by, "by", nil, `sort column, e.g. "Edad:desc" (repeatable)`)
	return cmd
}

func newGroupByCmd(opts *options) *cobra.Command {
	var (
		by      []string
		agg     string
		columns []string
	)
	cmd := &cobra.Command{
		Use:   "groupby <file>",
		Short: "Aggregate numeric columns per group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := jandas.ParseAggOp(agg)
			if err != nil {
				return err
			}
			df, err := opts.read(args[0])
			if err != nil {
				return err
			}
			keys := make([]jandas.Label, len(by))
			for i, name := range by {
				keys[i] = column(df, name)
			}
			g, err := df.GroupBy(keys...)
			if err != nil {
				return err
			}

			var out *jandas.DataFrame
			if len(columns) == 0 {
				out, err = g.Agg(op)
			} else {
				ops := make(map[jandas.Label]jandas.AggOp, len(columns))
				for _, name := range columns {
					ops[column(df, name)] = op
				}
				out, err = g.AggColumns(ops)
			}
			if err != nil {
				return err
			}
			return opts.emit(fmt.Sprintf("%s %s by %s", args[0], op, strings.Join(by, ", ")), out)
		},
	}
	cmd.Flags().StringArrayVar(&by, "by", nil, "grouping column (repeatable)")
	cmd.Flags().StringVar(&agg, "agg", "sum", "statistic: sum, max, min, count, mean, var, std")
	cmd.Flags().StringArrayVar(&columns, "column", nil, "aggregate only this column (repeatable)")
	return cmd
}

func newSampleCmd(opts *options) *cobra.Command {
	var (
		percent  float64
		count    int
		stratify string
	)
	cmd := &cobra.Command{
		Use:   "sample <file>",
		Short: "Draw random rows",
		Long: `Draw random rows without replacement, either a percentage (--percent, 1-100)
or a fixed number (--rows). --stratify samples the percentage from every distinct
value of a column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasPercent := cmd.Flags().Changed("percent")
			hasCount := cmd.Flags().Changed("rows")
			if hasPercent == hasCount {
				return fmt.Errorf("exactly one of --percent and --rows is required")
			}
			if stratify != "" && !hasPercent {
				return fmt.Errorf("--stratify needs --percent")
			}

			df, err := opts.read(args[0])
			if err != nil {
				return err
			}
			var (
				out   *jandas.DataFrame
				title string
			)
			switch {
			case stratify != "":
				out, err = df.StratifiedSample(column(df, stratify), percent)
				title = fmt.Sprintf("%s: %g%% per %s", args[0], percent, stratify)
			case hasPercent:
				out, err = df.Sample(percent)
				title = fmt.Sprintf("%s: %g%% sample", args[0], percent)
			default:
				out, err = df.SampleN(count)
				title = fmt.Sprintf("%s: %d sampled rows", args[0], count)
			}
			if err != nil {
				return err
			}
			return opts.emit(title, out)
		},
	}
	cmd.Flags().Float64Var(&percent, "percent", 0, "percentage of rows to draw (1-100)")
	cmd.Flags().IntVarP(&count, "rows", "n", 0, "number of rows to draw")
	cmd.Flags().StringVar(&stratify, "stratify", "", "column whose values are sampled separately")
	return cmd
}

func newConcatCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "concat <file> <file>...",
		Short: "Stack tables with the same columns",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames := make([]*jandas.DataFrame, len(args))
			for i, path := range args {
				df, err := opts.read(path)
				if err != nil {
					return err
				}
				frames[i] = df
			}
			out, err := jandas.ConcatDataFrames(frames...)
			if err != nil {
				return err
			}
			return opts.emit(strings.Join(args, " + "), out)
		},
	}
}

func newImputeCmd(opts *options) *cobra.Command {
	var (
		col   string
		value string
	)
	cmd := &cobra.Command{
		Use:   "impute <file>",
		Short: "Fill missing values",
		Long: `Fill the missing values of one column with --value, or of every column with
its dtype default (0, 0.0, "" or false) when no --column is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := opts.read(args[0])
			if err != nil {
				return err
			}
			if col == "" {
				df.ImputeDefault()
				return opts.emit(args[0]+" (defaults imputed)", df)
			}
			if !cmd.Flags().Changed("value") {
				return fmt.Errorf("--column needs --value")
			}

			label := column(df, col)
			var fill any = value
			if s, err := df.Column(label); err == nil && s.DType() != jandas.String {
				fill = jandas.ParseLiteral(value)
			}
			if err := df.ImputeColumn(label, fill); err != nil {
				return err
			}
			fmt.Fprintln(opts.stderr, mutedStyle.Render(fmt.Sprintf("filled %s with %s", col, value)))
			return opts.emit(args[0], df)
		},
	}
	cmd.Flags().StringVar(&col, "column", "", "column to fill")
	cmd.Flags().StringVar(&value, "value", "", "fill value")
	return cmd
}
