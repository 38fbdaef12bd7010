package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sqlport/internal/storage"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the conversion cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show durable cache statistics",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached conversions",
	RunE:  runCacheClear,
}

var cacheStatsJSON bool

func init() {
	cacheStatsCmd.Flags().BoolVar(&cacheStatsJSON, "json", false, "Output as JSON")
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openStore() (*storage.ConvStore, *storage.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)

	cacheRoot := cfg.Cache.Dir
	if cacheRoot == "" {
		cacheRoot = rootFlag
	}

	db, err := storage.Open(cacheRoot, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open cache database: %w", err)
	}
	return storage.NewConvStore(db), db, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := store.GetStats()
	if err != nil {
		return fmt.Errorf("cannot read cache stats: %w", err)
	}

	if cacheStatsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Cache: %s\n", db.Path())
	fmt.Printf("  entries: %d\n", stats.Entries)
	fmt.Printf("  size: %d bytes\n", stats.TotalBytes)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Clear(); err != nil {
		return fmt.Errorf("cannot clear cache: %w", err)
	}
	fmt.Println("Cache cleared.")
	return nil
}
