package main

import (
	"fmt"
	"os"

	"github.com/itcaat/olxscraper/internal/config"
	"github.com/itcaat/olxscraper/internal/storage"
	"github.com/spf13/cobra"
)

const defaultQuery = "car cover"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		pages     int
		format    string
		outputDir string
		rulesFile string
		archive   string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "olxscraper [search_query]",
		Short: "Scrape OLX listings",
		Long: `olxscraper fetches OLX search result pages for a query and saves the
listings found as JSON, CSV, or both.

Environment Variables:
  OLX_ORIGIN        Site origin (default: https://www.olx.in)
  OLX_USER_AGENT    User-Agent sent with each request
  OLX_MIN_DELAY     Minimum pause before each page (default: 1s)
  OLX_MAX_DELAY     Maximum pause before each page (default: 2s)
  OLX_OUTPUT_DIR    Output directory (default: olx_results)
  OLX_RULES_FILE    YAML file overriding the extraction selectors
  OLX_ARCHIVE_DSN   SQLite database to append every run to
  OLX_VERBOSE       Log request diagnostics to stderr`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := defaultQuery
			if len(args) == 1 {
				query = args[0]
			}

			if pages < 1 {
				return fmt.Errorf("invalid pages %d: must be at least 1", pages)
			}
			f, err := storage.ParseFormat(format)
			if err != nil {
				return err
			}
			// Arguments are valid; later failures are not usage problems.
			cmd.SilenceUsage = true

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("output-dir") {
				cfg.OutputDir = outputDir
			}
			if flags.Changed("rules") {
				cfg.RulesFile = rulesFile
				if cfg.Rules, err = config.LoadRules(rulesFile); err != nil {
					return err
				}
			}
			if flags.Changed("archive") {
				cfg.ArchiveDSN = archive
			}
			if flags.Changed("verbose") {
				cfg.Verbose = verbose
			}

			return run(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, query, pages, f)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&pages, "pages", "p", 3, "Number of pages to scrape")
	flags.StringVarP(&format, "format", "f", string(storage.FormatBoth), "Output format: json, csv or both")
	flags.StringVarP(&outputDir, "output-dir", "o", storage.DefaultDir, "Directory for result files")
	flags.StringVar(&rulesFile, "rules", "", "YAML file overriding the extraction selectors")
	flags.StringVar(&archive, "archive", "", "SQLite database to append the listings to")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log request diagnostics to stderr")

	return cmd
}
