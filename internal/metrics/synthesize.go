package metrics

import (
	"fmt"
	"math"
	"strings"

	"sqlport/internal/analyzer"
)

const (
	basePerformanceScore = 70
	baseScalabilityScore = 5

	// overEngineeringRatio is the converted/original code-line expansion
	// beyond which a non-complex input is considered over-engineered.
	overEngineeringRatio = 4.0
)

// modernFeatureMarkers are substring probes for modern Oracle
// capabilities in converted code. Each present marker raises the
// scalability score by one, capped at 10.
var modernFeatureMarkers = []string{
	"BULK COLLECT",
	"FORALL",
	"/*+ PARALLEL",
	"PARTITION",
	"RESULT_CACHE",
	"/*+",
}

// Inputs carries everything Synthesize needs. It contains no hidden
// state: the same Inputs always produce the same bundle.
type Inputs struct {
	Original  *analyzer.ComplexityProfile
	Converted *analyzer.ComplexityProfile

	OriginalText  string
	ConvertedText string

	LatencyMs int64

	Complexity   ComplexityLabel
	Optimization OptimizationLabel
}

// Synthesize combines analyzer output and model labels into the bounded
// performance bundle.
func Synthesize(in Inputs) *PerformanceMetrics {
	m := &PerformanceMetrics{
		OriginalComplexity:  in.Original.CyclomaticComplexity,
		ConvertedComplexity: in.Converted.CyclomaticComplexity,
		ConversionTimeMs:    in.LatencyMs,
		LinesOfCodeBefore:   in.Original.CodeLines,
		LinesOfCodeAfter:    in.Converted.CodeLines,
		LoopsBefore:         in.Original.LoopCount,
		LoopsAfter:          in.Converted.LoopCount,
	}

	m.ImprovementPercentage = improvementPercentage(in.Original.CyclomaticComplexity, in.Converted.CyclomaticComplexity)
	m.MaintainabilityIndex = in.Converted.MaintainabilityIndex
	m.PerformanceScore = performanceScore(in, m.ImprovementPercentage)
	m.Scalability = scalability(in)
	m.Recommendations = recommendations(in, m)

	return m
}

// improvementPercentage is signed; a regressing conversion goes
// negative. Zero original complexity is defined as zero improvement.
func improvementPercentage(original, converted int) int {
	if original == 0 {
		return 0
	}
	return int(math.Round(float64(original-converted) / float64(original) * 100))
}

func performanceScore(in Inputs, improvement int) int {
	score := basePerformanceScore

	ratio := expansionRatio(in)
	if ratio > overEngineeringRatio && in.Complexity != ComplexityComplex {
		// Output ballooned without the input's complexity justifying it.
		score -= 25
	}
	if in.Complexity == ComplexityComplex && in.Optimization == OptimizationAdvanced {
		score += 15
	}
	if improvement > 0 {
		score += 5
	}

	return clamp(score, 0, 100)
}

// expansionRatio is converted code lines over original code lines.
func expansionRatio(in Inputs) float64 {
	if in.Original.CodeLines == 0 {
		return 0
	}
	return float64(in.Converted.CodeLines) / float64(in.Original.CodeLines)
}

func scalability(in Inputs) ScalabilityMetrics {
	upper := strings.ToUpper(in.ConvertedText)

	s := ScalabilityMetrics{
		ScalabilityScore:     baseScalabilityScore,
		BulkCollectUsed:      strings.Contains(upper, "BULK COLLECT"),
		BulkOperationsUsed:   strings.Contains(upper, "FORALL"),
		MaintainabilityScore: clamp(in.Converted.MaintainabilityIndex, 0, 100),
	}

	for _, marker := range modernFeatureMarkers {
		if strings.Contains(upper, marker) {
			s.ModernFeatureCount++
		}
	}
	s.ScalabilityScore = clamp(baseScalabilityScore+s.ModernFeatureCount, 0, 10)

	return s
}

func recommendations(in Inputs, m *PerformanceMetrics) []string {
	var recs []string
	upper := strings.ToUpper(in.ConvertedText)

	if strings.Contains(upper, "INSERT INTO") && !strings.Contains(upper, "FORALL") {
		recs = append(recs, "Row-oriented inserts detected; consider FORALL bulk binds for large data sets")
	}
	if strings.Contains(upper, "EXECUTE IMMEDIATE") {
		recs = append(recs, "Dynamic SQL (EXECUTE IMMEDIATE) detected; verify bind variables are used to avoid hard parses")
	}
	if m.PerformanceScore < 50 {
		recs = append(recs, fmt.Sprintf("Performance score %d is low; review the converted code before deploying", m.PerformanceScore))
	}
	if ratio := expansionRatio(in); ratio > overEngineeringRatio && in.Complexity != ComplexityComplex {
		recs = append(recs, fmt.Sprintf("Converted code is %.1fx the original size; the conversion may be over-engineered", ratio))
	}

	return recs
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
