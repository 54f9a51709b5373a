package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/pgframe/internal/bulk"
	"github.com/vvka-141/pgframe/internal/db"
	"github.com/vvka-141/pgframe/internal/db/manager"
	"github.com/vvka-141/pgframe/internal/logging"
	"github.com/vvka-141/pgframe/internal/services"
	"github.com/vvka-141/pgframe/internal/tui"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

var dumpCmd = &cobra.Command{
	Use:   "dump (--table [schema.]table | --query SQL)",
	Short: "Read a table or query result and print it",
	Long: `Dump runs a query, or selects every row of a table, and writes the result
as an aligned table, CSV, TSV or JSON.

Query results are read in full before anything is written, so a failing
query never leaves partial output behind.

Examples:
  # Print a table to the terminal
  pgframe dump --table public.people

  # Export a query as CSV
  pgframe dump --query "SELECT id, name FROM people WHERE id > 10" -f csv -o people.csv

  # JSON for further processing
  pgframe dump -t people -f json | jq '.[0]'`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

type dumpFlagValues struct {
	conn    connectionFlags
	table   string
	schema  string
	query   string
	format  string
	output  string
	timeout time.Duration
}

var dumpFlags dumpFlagValues

func init() {
	rootCmd.AddCommand(dumpCmd)
	addDumpFlags(dumpCmd, &dumpFlags)
}

func addDumpFlags(cmd *cobra.Command, f *dumpFlagValues) {
	addConnectionFlags(cmd, &f.conn)

	flags := cmd.Flags()
	flags.StringVarP(&f.table, "table", "t", "", "Table to read as [schema.]table")
	flags.StringVar(&f.schema, "schema", "", "Schema used when --table has no schema part")
	flags.StringVarP(&f.query, "query", "q", "", "SQL query to run")
	flags.StringVarP(&f.format, "format", "f", "table", "Output format: table|csv|tsv|json")
	flags.StringVarP(&f.output, "output", "o", "", "Write to this file instead of stdout")
	flags.DurationVar(&f.timeout, "timeout", pgframe.DefaultTimeout,
		"Catastrophic failure protection timeout\nExamples: 30s, 5m, 1h30m")

	cmd.MarkFlagsMutuallyExclusive("table", "query")
	cmd.MarkFlagsOneRequired("table", "query")
	_ = cmd.RegisterFlagCompletionFunc("format", completeOutputFormats)
}

// buildDumpConfig builds a DumpConfig from CLI flags, pgframe.yaml and environment.
func buildDumpConfig(cmd *cobra.Command, f dumpFlagValues, verbose bool) (pgframe.DumpConfig, error) {
	projectCfg, err := loadProjectConfig(getConfigDir(cmd))
	if err != nil {
		return pgframe.DumpConfig{}, err
	}

	var defaultSchema, defaultFormat string
	if projectCfg != nil {
		defaultSchema = projectCfg.Defaults.Schema
		defaultFormat = projectCfg.Defaults.Format
	}

	request := pgframe.ReadRequest{Query: f.query}
	if f.table != "" {
		target, err := resolveTarget(f.table, firstSet(f.schema, defaultSchema))
		if err != nil {
			return pgframe.DumpConfig{}, err
		}
		request.Schema, request.Table = target.Schema, target.Table
	}

	connConfig, err := resolveConnection(f.conn, projectCfg)
	if err != nil {
		return pgframe.DumpConfig{}, err
	}
	if verbose {
		logConnectionVerbose(connConfig)
	}

	config := pgframe.DumpConfig{
		Request:    request,
		Format:     resolveStringDefault(cmd, "format", f.format, defaultFormat),
		OutputPath: f.output,
		Connection: connConfig,
		Timeout:    resolveEffectiveTimeout(cmd, projectCfg, f.timeout),
		Verbose:    verbose,
	}
	return config, config.Validate()
}

func runDump(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	config, err := buildDumpConfig(cmd, dumpFlags, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)
	tables := services.NewTableService(manager.New(), bulk.NewCopyLoader(logger), logger)
	dumper := services.NewDumpService(
		func(c *pgframe.ConnectionConfig) (pgframe.Connector, error) { return db.NewConnector(c, logger) },
		logger,
		tables,
	)

	ctx, cancel := commandContext(config.Timeout, "dump")
	defer cancel()

	task := func(ctx context.Context) (string, error) {
		result, err := dumper.Dump(ctx, config)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Wrote %d rows to %s", result.Rows, config.OutputPath), nil
	}

	// Results on stdout must not be mixed with the spinner.
	if config.OutputPath == "" || verbose {
		if _, err := task(ctx); err != nil {
			return fmt.Errorf("dump failed: %w", err)
		}
		return nil
	}

	if err := tui.RunWithSpinner(ctx, "Reading "+describeRequest(config.Request), task); err != nil {
		return fmt.Errorf("dump failed: %w", err)
	}
	return nil
}

func describeRequest(r pgframe.ReadRequest) string {
	if r.Query != "" {
		return "query"
	}
	return r.Identity().String()
}
