// Package metrics synthesizes before/after analyzer output, conversion
// latency, and model-declared labels into the bounded performance bundle
// consumed by reports and dashboards.
package metrics

// ComplexityLabel is the model-declared difficulty of the source unit.
type ComplexityLabel string

const (
	ComplexitySimple   ComplexityLabel = "simple"
	ComplexityModerate ComplexityLabel = "moderate"
	ComplexityComplex  ComplexityLabel = "complex"
)

// OptimizationLabel is the model-declared optimization effort.
type OptimizationLabel string

const (
	OptimizationBasic    OptimizationLabel = "basic"
	OptimizationStandard OptimizationLabel = "standard"
	OptimizationAdvanced OptimizationLabel = "advanced"
)

// ScalabilityMetrics grades how well the converted code uses modern
// Oracle capabilities. ScalabilityScore is bounded to [0,10].
type ScalabilityMetrics struct {
	ScalabilityScore     int  `json:"scalabilityScore"`
	ModernFeatureCount   int  `json:"modernFeatureCount"`
	BulkOperationsUsed   bool `json:"bulkOperationsUsed"`
	BulkCollectUsed      bool `json:"bulkCollectUsed"`
	MaintainabilityScore int  `json:"maintainabilityScore"`
}

// PerformanceMetrics is the synthesized bundle for one conversion.
// PerformanceScore and MaintainabilityIndex are bounded to [0,100];
// ImprovementPercentage is signed because conversions can regress.
type PerformanceMetrics struct {
	OriginalComplexity    int   `json:"originalComplexity"`
	ConvertedComplexity   int   `json:"convertedComplexity"`
	ImprovementPercentage int   `json:"improvementPercentage"`
	ConversionTimeMs      int64 `json:"conversionTimeMs"`
	PerformanceScore      int   `json:"performanceScore"`
	MaintainabilityIndex  int   `json:"maintainabilityIndex"`

	LinesOfCodeBefore int `json:"linesOfCodeBefore"`
	LinesOfCodeAfter  int `json:"linesOfCodeAfter"`
	LoopsBefore       int `json:"loopsBefore"`
	LoopsAfter        int `json:"loopsAfter"`

	Scalability ScalabilityMetrics `json:"scalability"`

	Recommendations []string `json:"recommendations,omitempty"`
}

// Zeroed returns the metrics bundle for a failed conversion: every score
// at its floor, latency preserved so the timeline stays truthful.
func Zeroed(latencyMs int64) *PerformanceMetrics {
	return &PerformanceMetrics{ConversionTimeMs: latencyMs}
}
