package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"sqlport/internal/convert"
	"sqlport/internal/report"
)

var (
	convertFormat      string
	convertConcurrency int
)

var convertCmd = &cobra.Command{
	Use:   "convert <file-or-dir> [...]",
	Short: "Convert Sybase SQL files to Oracle PL/SQL",
	Long: `Convert one or more Sybase SQL / T-SQL files to Oracle PL/SQL.

Directories are scanned for .sql files. Each converted unit is graded
with complexity metrics and a performance score; identical inputs are
served from the cache without a second model call.

Examples:
  sqlport convert procs/get_customer.sql
  sqlport convert procs/ --format=json
  sqlport convert procs/ legacy/ -c 8`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "text", "Output format (text, json, yaml)")
	convertCmd.Flags().IntVarP(&convertConcurrency, "concurrency", "c", 0, "Max conversions in flight (0 uses config)")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	format, err := report.ParseFormat(convertFormat)
	if err != nil {
		return err
	}

	units, err := collectUnits(args)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		return fmt.Errorf("no .sql files found under %s", strings.Join(args, ", "))
	}

	eng, err := newEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	rep := report.New(os.Stdout, format)
	ctx := context.Background()

	if len(units) == 1 {
		res, err := eng.orchestrator.Convert(ctx, units[0])
		if err != nil {
			return err
		}
		if err := rep.Result(res); err != nil {
			return err
		}
		if res.Status == convert.StatusError {
			os.Exit(1)
		}
		return nil
	}

	concurrency := convertConcurrency
	if concurrency <= 0 {
		concurrency = eng.cfg.Conversion.MaxConcurrent
	}

	summary := eng.orchestrator.ConvertAll(ctx, units, concurrency)
	if err := rep.Batch(summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

// collectUnits expands file and directory arguments into source units.
// Directory scans are sorted for stable batch ordering.
func collectUnits(args []string) ([]convert.SourceUnit, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".sql") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)

	units := make([]convert.SourceUnit, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		units = append(units, convert.SourceUnit{
			Identifier: filepath.ToSlash(path),
			Text:       string(data),
		})
	}
	return units, nil
}
