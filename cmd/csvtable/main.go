package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/csvtable/pkg/columnar"
	"github.com/ajitpratap0/csvtable/pkg/csv"
	"github.com/ajitpratap0/csvtable/pkg/logger"
	"github.com/ajitpratap0/csvtable/pkg/source"
)

var version = "0.1.0"

// fileOptions is the YAML shape of an options file. Single-byte options are
// written as one-character strings.
type fileOptions struct {
	Delimiter       string            `mapstructure:"delimiter"`
	DelimWhitespace bool              `mapstructure:"delim_whitespace"`
	QuoteChar       string            `mapstructure:"quote_char"`
	Quoting         *bool             `mapstructure:"quoting"`
	Comment         string            `mapstructure:"comment"`
	SkipBlankLines  *bool             `mapstructure:"skip_blank_lines"`
	Header          string            `mapstructure:"header"`
	Skiprows        int               `mapstructure:"skiprows"`
	Skipfooter      int               `mapstructure:"skipfooter"`
	Nrows           *int              `mapstructure:"nrows"`
	Names           []string          `mapstructure:"names"`
	Prefix          string            `mapstructure:"prefix"`
	DTypes          []string          `mapstructure:"dtypes"`
	DTypeMap        map[string]string `mapstructure:"dtype_map"`
	Decimal         string            `mapstructure:"decimal"`
	Thousands       string            `mapstructure:"thousands"`
	TrueValues      []string          `mapstructure:"true_values"`
	FalseValues     []string          `mapstructure:"false_values"`
	NAValues        []string          `mapstructure:"na_values"`
	KeepDefaultNA   *bool             `mapstructure:"keep_default_na"`
	NAFilter        *bool             `mapstructure:"na_filter"`
	DayFirst        bool              `mapstructure:"dayfirst"`
	IndexCol        string            `mapstructure:"index_col"`
	UseCols         []string          `mapstructure:"usecols"`
}

func main() {
	root := &cobra.Command{
		Use:   "csvtable",
		Short: "csvtable - CSV parsing and type-inference engine",
		Long: `csvtable parses CSV input (optionally gzip or bzip2 compressed) into a
typed columnar table, inferring per-column dtypes when they are not given.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("csvtable v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var optionsFile string
	var delimiter, headerSpec, prefix, indexCol string
	var names, dtypes, naValues []string
	var skiprows, skipfooter, nrows, preview int
	var dayfirst, whitespace bool
	var segment int64
	var logLevel string

	readCmd := &cobra.Command{
		Use:   "read <file>",
		Short: "Parse a CSV file and print its schema and a row preview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(logger.Config{Level: logLevel, Encoding: "json"}); err != nil {
				return err
			}

			opts := csv.DefaultOptions()
			if optionsFile != "" {
				if err := applyOptionsFile(optionsFile, &opts); err != nil {
					return err
				}
			}
			if err := applyFlags(cmd, &opts, delimiter, headerSpec, prefix, indexCol,
				names, dtypes, naValues, skiprows, skipfooter, nrows,
				dayfirst, whitespace); err != nil {
				return err
			}

			return runRead(args[0], opts, segment, preview)
		},
	}

	readCmd.Flags().StringVar(&optionsFile, "options", "", "Path to a YAML options file")
	readCmd.Flags().StringVarP(&delimiter, "delimiter", "d", "", "Field delimiter (single character; empty autodetects)")
	readCmd.Flags().BoolVar(&whitespace, "whitespace", false, "Treat whitespace runs as the delimiter")
	readCmd.Flags().StringVar(&headerSpec, "header", "infer", "Header mode: infer, none, or a 0-based row number")
	readCmd.Flags().StringSliceVar(&names, "names", nil, "Explicit column names")
	readCmd.Flags().StringSliceVar(&dtypes, "dtypes", nil, "Per-column dtypes, by position")
	readCmd.Flags().StringVar(&prefix, "prefix", "", "Prefix for auto-generated column names")
	readCmd.Flags().IntVar(&skiprows, "skiprows", 0, "Rows to skip before the header")
	readCmd.Flags().IntVar(&skipfooter, "skipfooter", 0, "Trailing rows to drop")
	readCmd.Flags().IntVar(&nrows, "nrows", -1, "Maximum data rows to read (-1 for all)")
	readCmd.Flags().StringSliceVar(&naValues, "na-values", nil, "Additional NA tokens")
	readCmd.Flags().BoolVar(&dayfirst, "dayfirst", false, "Resolve ambiguous dates as day-first")
	readCmd.Flags().StringVar(&indexCol, "index-col", "", "Column to mark as index, by name")
	readCmd.Flags().Int64Var(&segment, "segment", 0, "Parse in parallel byte-range windows of this size (0 for a single pass)")
	readCmd.Flags().IntVar(&preview, "preview", 5, "Number of rows to print")
	readCmd.Flags().StringVar(&logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	root.AddCommand(readCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyOptionsFile merges a viper-loaded YAML options file into opts.
func applyOptionsFile(path string, opts *csv.ParseOptions) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read options file %s: %w", path, err)
	}

	var fo fileOptions
	if err := v.Unmarshal(&fo); err != nil {
		return fmt.Errorf("failed to parse options file %s: %w", path, err)
	}

	setByte := func(dst *byte, s string, what string) error {
		if s == "" {
			return nil
		}
		if len(s) != 1 {
			return fmt.Errorf("%s must be a single character, got %q", what, s)
		}
		*dst = s[0]
		return nil
	}

	if err := setByte(&opts.Delimiter, fo.Delimiter, "delimiter"); err != nil {
		return err
	}
	if err := setByte(&opts.QuoteChar, fo.QuoteChar, "quote_char"); err != nil {
		return err
	}
	if err := setByte(&opts.CommentChar, fo.Comment, "comment"); err != nil {
		return err
	}
	if err := setByte(&opts.Decimal, fo.Decimal, "decimal"); err != nil {
		return err
	}
	if err := setByte(&opts.Thousands, fo.Thousands, "thousands"); err != nil {
		return err
	}

	opts.DelimWhitespace = fo.DelimWhitespace
	if fo.Quoting != nil {
		opts.Quoting = *fo.Quoting
	}
	if fo.SkipBlankLines != nil {
		opts.SkipBlankLines = *fo.SkipBlankLines
	}
	if fo.Header != "" {
		h, err := parseHeaderSpec(fo.Header)
		if err != nil {
			return err
		}
		opts.Header = h
	}
	opts.Skiprows = fo.Skiprows
	opts.Skipfooter = fo.Skipfooter
	if fo.Nrows != nil {
		opts.Nrows = *fo.Nrows
	}
	if len(fo.Names) > 0 {
		opts.Names = fo.Names
	}
	opts.Prefix = fo.Prefix
	if len(fo.DTypes) > 0 {
		opts.DTypes = fo.DTypes
	}
	if len(fo.DTypeMap) > 0 {
		opts.DTypeMap = fo.DTypeMap
	}
	opts.TrueValues = append(opts.TrueValues, fo.TrueValues...)
	opts.FalseValues = append(opts.FalseValues, fo.FalseValues...)
	opts.NAValues = append(opts.NAValues, fo.NAValues...)
	if fo.KeepDefaultNA != nil {
		opts.KeepDefaultNA = *fo.KeepDefaultNA
	}
	if fo.NAFilter != nil {
		opts.NAFilter = *fo.NAFilter
	}
	opts.DayFirst = fo.DayFirst
	if fo.IndexCol != "" {
		opts.IndexCol = csv.ByName(fo.IndexCol)
	}
	for _, name := range fo.UseCols {
		opts.UseCols = append(opts.UseCols, csv.ByName(name))
	}
	return nil
}

// applyFlags overlays explicitly-set command line flags on top of opts.
func applyFlags(cmd *cobra.Command, opts *csv.ParseOptions,
	delimiter, headerSpec, prefix, indexCol string,
	names, dtypes, naValues []string,
	skiprows, skipfooter, nrows int,
	dayfirst, whitespace bool) error {

	if cmd.Flags().Changed("delimiter") {
		if len(delimiter) != 1 {
			return fmt.Errorf("delimiter must be a single character, got %q", delimiter)
		}
		opts.Delimiter = delimiter[0]
	}
	if cmd.Flags().Changed("whitespace") {
		opts.DelimWhitespace = whitespace
		if whitespace {
			opts.Delimiter = 0
		}
	}
	if cmd.Flags().Changed("header") {
		h, err := parseHeaderSpec(headerSpec)
		if err != nil {
			return err
		}
		opts.Header = h
	}
	if cmd.Flags().Changed("names") {
		opts.Names = names
	}
	if cmd.Flags().Changed("dtypes") {
		opts.DTypes = dtypes
	}
	if cmd.Flags().Changed("prefix") {
		opts.Prefix = prefix
	}
	if cmd.Flags().Changed("skiprows") {
		opts.Skiprows = skiprows
	}
	if cmd.Flags().Changed("skipfooter") {
		opts.Skipfooter = skipfooter
	}
	if cmd.Flags().Changed("nrows") {
		opts.Nrows = nrows
	}
	if cmd.Flags().Changed("na-values") {
		opts.NAValues = append(opts.NAValues, naValues...)
	}
	if cmd.Flags().Changed("dayfirst") {
		opts.DayFirst = dayfirst
	}
	if cmd.Flags().Changed("index-col") {
		opts.IndexCol = csv.ByName(indexCol)
	}
	return nil
}

func parseHeaderSpec(s string) (csv.Header, error) {
	switch s {
	case "infer":
		return csv.InferHeader(), nil
	case "none":
		return csv.NoHeader(), nil
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
		return csv.Header{}, fmt.Errorf("header must be infer, none, or a non-negative row number, got %q", s)
	}
	return csv.HeaderAt(n), nil
}

func runRead(path string, opts csv.ParseOptions, segment int64, preview int) error {
	log := logger.Get().With(zap.String("component", "csvtable-cli"))

	data, err := source.FromPath(path)
	if err != nil {
		return err
	}

	start := time.Now()
	var tbl *columnar.Table
	if segment > 0 {
		ranges := csv.SplitRanges(int64(len(data)), segment)
		tbl, err = csv.ReadRanges(context.Background(), data, opts, ranges)
	} else {
		tbl, err = csv.Read(data, opts)
	}
	if err != nil {
		return err
	}

	log.Info("parse completed",
		zap.Int("rows", tbl.Len()),
		zap.Int("columns", tbl.Schema.Len()),
		zap.Duration("duration", time.Since(start)))

	if preview > tbl.Len() {
		preview = tbl.Len()
	}
	rows := make([]map[string]interface{}, preview)
	for i := 0; i < preview; i++ {
		rows[i] = tbl.RowValues(i)
	}

	out, err := json.MarshalIndent(struct {
		Table   *columnar.Table          `json:"table"`
		Preview []map[string]interface{} `json:"preview,omitempty"`
	}{Table: tbl, Preview: rows}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
