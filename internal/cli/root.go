package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const banner = `pgframe - tabular data in and out of PostgreSQL`

var rootCmd = &cobra.Command{
	Use:   "pgframe",
	Short: "Load tabular files into PostgreSQL and dump tables back out",
	Long: banner + `

pgframe infers a column type for every column of a CSV, TSV or JSON file,
provisions the destination table and bulk-loads the rows with COPY. It reads
tables or queries back into the same formats.

Inferred types: BIGINT, NUMERIC, TIMESTAMP, DATE, TEXT.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or arguments
  11 - Database connection failed
  12 - User denied table replacement
  13 - DDL, COPY or query failed
  14 - Table already exists (--if-exists fail)
  15 - Input data cannot be typed (e.g. no rows)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for pgframe")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().String("config-dir", ".", "Directory searched for pgframe.yaml and .env")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func getConfigDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("config-dir")
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
