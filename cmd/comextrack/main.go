// comextrack: COMEX silver warehouse stocks tracker.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/comexwatch/comextrack/internal/config"
	"github.com/comexwatch/comextrack/internal/fetch"
	"github.com/comexwatch/comextrack/internal/ledger"
	"github.com/comexwatch/comextrack/internal/notices"
	"github.com/comexwatch/comextrack/internal/sheet"
	"github.com/comexwatch/comextrack/internal/tracker"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "comextrack",
	Short: "COMEX silver warehouse stocks tracker",
	Long: `comextrack pulls the daily COMEX silver warehouse stocks report,
appends a derived row (daily and period-to-date changes) to a master
CSV ledger, and files the raw workbooks in a dated archive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(noticesCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("comextrack %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Run Command ---

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch today's report and append it to the ledger",
	Long: `Run one fetch-extract-append cycle: download the published workbook,
extract the activity date and the three inventory totals, append a
derived row to the master CSV (unless the date is already there), and
move the workbook into the dated archive.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Welcome to the COMEX Inventory Tracker")

		client := fetch.New(cfg.Source.Timeout(), cfg.Source.InsecureTLS)

		if discover, _ := cmd.Flags().GetBool("discover"); discover {
			url, err := client.Discover(cmd.Context(), cfg.Source.DiscoverURL)
			if err != nil {
				return err
			}
			fmt.Printf("... discovered report at %s ...\n", url)
			cfg.Source.URL = url
		}

		t := tracker.New(cfg, client, sheet.NewExtractor(), os.Stdout)
		return t.Run(cmd.Context())
	},
}

// --- Backfill Command ---

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild the ledger from the archived workbooks",
	Long: `Parse every archived workbook in date order and rebuild the master
CSV from scratch. The earliest archived report becomes the new
period-start anchor. Replaces the existing ledger file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t := tracker.New(cfg, nil, sheet.NewExtractor(), os.Stdout)
		return t.Backfill(cmd.Context())
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ledger row count and the latest figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		led, err := ledger.Load(cfg.Ledger.Path)
		if err != nil {
			return err
		}
		if led.Len() == 0 {
			fmt.Printf("Ledger %s is empty.\n", cfg.Ledger.Path)
			return nil
		}

		first, _ := led.First()
		last, _ := led.Last()
		fmt.Printf("Ledger: %s\n", cfg.Ledger.Path)
		fmt.Printf("  rows:         %d\n", led.Len())
		fmt.Printf("  period start: %s\n", first.ActivityDate)
		fmt.Printf("  latest:       %s\n", last.ActivityDate)
		fmt.Printf("  registered:   %s oz\n", formatOz(last.Registered))
		fmt.Printf("  eligible:     %s oz\n", formatOz(last.Eligible))
		fmt.Printf("  total:        %s oz (%s of period start)\n", formatOz(last.Total), last.PctOfStart)
		return nil
	},
}

// formatOz renders an ounce figure with thousands separators for the
// status display.
func formatOz(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	dot := len(s) - 4
	out := s[dot:]
	for i, n := dot, 0; i > 0; i, n = i-1, n+1 {
		if n > 0 && n%3 == 0 {
			out = "," + out
		}
		out = s[i-1:i] + out
	}
	return out
}

// --- Discover Command ---

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Scrape the listing page for the current report URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := fetch.New(cfg.Source.Timeout(), cfg.Source.InsecureTLS)
		url, err := client.Discover(cmd.Context(), cfg.Source.DiscoverURL)
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

// --- Notices Command ---

var noticesCmd = &cobra.Command{
	Use:   "notices",
	Short: "Show recent clearing notices mentioning the tracked metal",
	RunE: func(cmd *cobra.Command, args []string) error {
		keyword, _ := cmd.Flags().GetString("keyword")
		if keyword == "" {
			keyword = cfg.Notices.Keyword
		}

		src := notices.New(cfg.Notices.FeedURL)
		items, err := src.Recent(cmd.Context(), keyword, cfg.Notices.Limit)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Printf("No recent notices mentioning %q.\n", keyword)
			return nil
		}
		for _, n := range items {
			fmt.Printf("%s  %s\n", n.Published.Format("2006-01-02"), n.Title)
			if n.Link != "" {
				fmt.Printf("            %s\n", n.Link)
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("discover", false, "resolve the report URL from the listing page before downloading")
	noticesCmd.Flags().String("keyword", "", "filter keyword (default from config)")
}
