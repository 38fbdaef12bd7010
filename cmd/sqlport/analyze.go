package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sqlport/internal/analyzer"
	"sqlport/internal/typemap"
)

var (
	analyzeFormat   string
	analyzeStrategy string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Static complexity analysis for a SQL file",
	Long: `Analyze a SQL file without converting it.

Reports line counts, cyclomatic complexity, loop and function counts,
the maintainability index, and the Oracle data types the file would
need mapped.

Examples:
  sqlport analyze procs/get_customer.sql
  sqlport analyze --strategy=halstead procs/billing.sql
  sqlport analyze --format=json procs/billing.sql`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format (text, json, yaml)")
	analyzeCmd.Flags().StringVar(&analyzeStrategy, "strategy", "", "Maintainability strategy: penalty or halstead (overrides config)")
	rootCmd.AddCommand(analyzeCmd)
}

type analyzeOutput struct {
	File     string                      `json:"file"`
	Profile  *analyzer.ComplexityProfile `json:"profile"`
	Mappings []typemap.Mapping           `json:"dataTypeMappings,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	strategyName := cfg.Analyzer.MaintainabilityStrategy
	if analyzeStrategy != "" {
		strategyName = analyzeStrategy
	}
	strategy, ok := analyzer.ParseStrategy(strategyName)
	if !ok {
		return fmt.Errorf("unknown maintainability strategy %q (want penalty or halstead)", strategyName)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}

	profile := analyzer.New(strategy).Analyze(string(data))

	var mappings []typemap.Mapping
	if table, err := typemap.Load(); err == nil {
		mappings = table.Detect(string(data))
	}

	out := &analyzeOutput{File: args[0], Profile: profile, Mappings: mappings}

	switch analyzeFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		fmt.Printf("%s\n", out.File)
		fmt.Printf("  lines: %d total, %d code, %d comment, %d empty\n",
			profile.TotalLines, profile.CodeLines, profile.CommentLines, profile.EmptyLines)
		fmt.Printf("  cyclomatic complexity: %d\n", profile.CyclomaticComplexity)
		fmt.Printf("  control structures: %d  loops: %d  functions: %d\n",
			profile.ControlStructureCount, profile.LoopCount, profile.FunctionCount)
		fmt.Printf("  comment ratio: %.2f\n", profile.CommentRatio)
		fmt.Printf("  maintainability index: %d/100 (%s)\n", profile.MaintainabilityIndex, strategyName)
		if len(mappings) > 0 {
			fmt.Printf("  data types needing mapping:\n")
			for _, m := range mappings {
				fmt.Printf("    %s -> %s\n", m.Sybase, m.Oracle)
			}
		}
		return nil
	}
}
