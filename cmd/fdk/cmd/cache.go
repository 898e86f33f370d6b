package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"fdk/internal/logger"
	"fdk/internal/service"

	"github.com/spf13/cobra"
)

var (
	// cache download flags
	cacheDownloadDomain     string
	cacheDownloadConcurrent int

	// cache update flags
	cacheUpdateDomain     string
	cacheUpdateConcurrent int
	cacheUpdateForce      bool

	// cache coverage flags
	cacheCoverageDomain string

	// cache clear flags
	cacheClearForce bool
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local object cache",
	Long: `Download, update, inspect, and clear the local object cache.

The cache stores catalog objects with full details so that reads work
offline and repeated lookups avoid the network.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// cacheDownloadCmd downloads the full catalog
var cacheDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download all catalog objects into the cache",
	Long: `Fetch every object in the catalog with full details and store it in
the cache. Already cached objects are re-fetched; use "cache update"
to fill gaps only.

Examples:
  fdk cache download
  fdk cache download --domain Bridges
  fdk cache download --concurrent 20 --metrics-listen :9090`,
	RunE: runCacheDownload,
}

// cacheUpdateCmd fills cache gaps
var cacheUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download missing or summary-only objects",
	Long: `Compare the cache against the current catalog listing and download
only the objects that are missing or cached without details.

With --force, every object is re-downloaded regardless of cache state.`,
	RunE: runCacheUpdate,
}

// cacheCoverageCmd reports cache coverage
var cacheCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Report how much of the catalog is cached",
	RunE:  runCacheCoverage,
}

// cacheStatsCmd reports cache state
var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size, release, and freshness",
	RunE:  runCacheStats,
}

// cacheClearCmd empties the cache
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached objects",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheDownloadCmd)
	cacheCmd.AddCommand(cacheUpdateCmd)
	cacheCmd.AddCommand(cacheCoverageCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	cacheDownloadCmd.Flags().StringVar(&cacheDownloadDomain, "domain", "", "download one domain only")
	cacheDownloadCmd.Flags().IntVar(&cacheDownloadConcurrent, "concurrent", 0, "parallel downloads (0 = from config)")
	cacheDownloadCmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address during the run")

	cacheUpdateCmd.Flags().StringVar(&cacheUpdateDomain, "domain", "", "update one domain only")
	cacheUpdateCmd.Flags().IntVar(&cacheUpdateConcurrent, "concurrent", 0, "parallel downloads (0 = from config)")
	cacheUpdateCmd.Flags().BoolVar(&cacheUpdateForce, "force", false, "re-download every object")
	cacheUpdateCmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address during the run")

	cacheCoverageCmd.Flags().StringVar(&cacheCoverageDomain, "domain", "", "analyze one domain only")

	cacheClearCmd.Flags().BoolVarP(&cacheClearForce, "force", "f", false, "skip the confirmation prompt")
}

func runCacheDownload(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	stats, err := svc.DownloadAll(Context(), service.DownloadParams{
		Domain:        cacheDownloadDomain,
		Language:      Language(),
		MaxConcurrent: cacheDownloadConcurrent,
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	Journal().Record(Context(), logger.JournalEntry{
		Action:     logger.JournalActionDownload,
		RunID:      stats.RunID,
		Total:      stats.Total,
		Downloaded: stats.Downloaded,
		Failed:     stats.Failed,
		Duration:   secondsToDuration(stats.DurationSeconds),
	}.WithOutcome())

	out := NewOutputWriter()
	switch OutputFormat() {
	case "json", "yaml":
		return out.Write(stats)
	case "quiet":
		return out.Write(stats.RunID)
	}

	fmt.Printf("Run ID:      %s\n", stats.RunID)
	fmt.Printf("Total:       %d\n", stats.Total)
	fmt.Printf("Downloaded:  %d\n", stats.Downloaded)
	fmt.Printf("Cached:      %d\n", stats.Cached)
	fmt.Printf("Failed:      %d\n", stats.Failed)
	fmt.Printf("Duration:    %.1fs\n", stats.DurationSeconds)
	return nil
}

func runCacheUpdate(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	stats, err := svc.UpdateCache(Context(), service.UpdateParams{
		Domain:        cacheUpdateDomain,
		Language:      Language(),
		MaxConcurrent: cacheUpdateConcurrent,
		ForceRefresh:  cacheUpdateForce,
	})
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	Journal().Record(Context(), logger.JournalEntry{
		Action:     logger.JournalActionUpdate,
		RunID:      stats.RunID,
		Total:      stats.Total,
		Downloaded: stats.Downloaded,
		Failed:     stats.Failed,
		Duration:   secondsToDuration(stats.DurationSeconds),
	}.WithOutcome())

	out := NewOutputWriter()
	switch OutputFormat() {
	case "json", "yaml":
		return out.Write(stats)
	case "quiet":
		return out.Write(stats.RunID)
	}

	fmt.Printf("Total:           %d\n", stats.Total)
	fmt.Printf("Downloaded:      %d\n", stats.Downloaded)
	fmt.Printf("Already cached:  %d\n", stats.AlreadyCached)
	fmt.Printf("Failed:          %d\n", stats.Failed)
	fmt.Printf("Duration:        %.1fs\n", stats.DurationSeconds)
	return nil
}

func runCacheCoverage(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	stats, err := svc.CacheCoverage(Context(), service.CoverageParams{
		Domain:   cacheCoverageDomain,
		Language: Language(),
	})
	if err != nil {
		return fmt.Errorf("coverage analysis failed: %w", err)
	}

	out := NewOutputWriter()
	switch OutputFormat() {
	case "json", "yaml":
		return out.Write(stats)
	case "quiet":
		return out.Write(fmt.Sprintf("%.1f", stats.CoveragePercentage))
	}

	fmt.Printf("Catalog objects:  %d\n", stats.TotalObjects)
	fmt.Printf("With details:     %d\n", stats.CachedWithDetails)
	fmt.Printf("Summary only:     %d\n", stats.CachedSummaryOnly)
	fmt.Printf("Not cached:       %d\n", stats.NotCached)
	fmt.Printf("Coverage:         %.1f%%\n", stats.CoveragePercentage)
	if stats.EstimatedDownloadSeconds > 0 {
		fmt.Printf("Est. download:    %s\n", secondsToDuration(float64(stats.EstimatedDownloadSeconds)))
	}

	if len(stats.CoverageByDomain) > 0 {
		names := make([]string, 0, len(stats.CoverageByDomain))
		for name := range stats.CoverageByDomain {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([][]string, 0, len(names))
		for _, name := range names {
			dc := stats.CoverageByDomain[name]
			rows = append(rows, []string{
				name,
				strconv.Itoa(dc.Total),
				strconv.Itoa(dc.Detail),
				strconv.Itoa(dc.SummaryOnly),
				strconv.Itoa(dc.Missing),
			})
		}

		fmt.Println()
		return out.Write(TableData{
			Headers: []string{"DOMAIN", "TOTAL", "DETAIL", "SUMMARY", "MISSING"},
			Rows:    rows,
		})
	}
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	stats, err := svc.CacheStats(Context(), Language())
	if errors.Is(err, service.ErrNoCache) {
		fmt.Println("The object cache is disabled. Enable it in the config to cache objects.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	out := NewOutputWriter()
	switch OutputFormat() {
	case "json", "yaml":
		return out.Write(stats)
	case "quiet":
		return out.Write(strconv.Itoa(stats.ObjectCount))
	}

	fmt.Printf("Objects:       %d\n", stats.ObjectCount)
	fmt.Printf("Release:       %s\n", orUnknown(stats.Release))
	fmt.Printf("Fresh:         %v\n", stats.IsFresh)
	if stats.LastUpdated != nil {
		fmt.Printf("Last updated:  %s\n", stats.LastUpdated.Format(time.RFC3339))
	} else {
		fmt.Printf("Last updated:  never\n")
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	out := NewOutputWriter()

	if !cacheClearForce {
		fmt.Print("This will delete every cached object. Type 'yes' to confirm: ")

		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input != "yes" {
			out.WriteSuccess("Aborted.")
			return nil
		}
	}

	if err := svc.ClearCache(Context()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	Journal().Record(Context(), logger.JournalEntry{
		Action:  logger.JournalActionClear,
		Outcome: logger.JournalOutcomeSuccess,
	})

	out.WriteSuccess("Object cache cleared.")
	return nil
}

// secondsToDuration converts fractional seconds to a Duration.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
