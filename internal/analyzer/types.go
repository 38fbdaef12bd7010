// Package analyzer provides deterministic structural metrics for SQL and
// PL/SQL source text. It is line- and keyword-based on purpose: the goal
// is a stable, cheap proxy for complexity, not a control-flow-graph
// computation.
package analyzer

// MaintainabilityStrategy selects how the maintainability index is
// computed. Two formulas are in use; callers pick one by name.
type MaintainabilityStrategy string

const (
	// StrategyPenalty starts at 100 and subtracts penalties for
	// complexity, size, and sparse commenting.
	StrategyPenalty MaintainabilityStrategy = "penalty"

	// StrategyHalstead uses the classic academic formula over Halstead
	// volume, cyclomatic complexity, and code size, normalized to 0-100.
	StrategyHalstead MaintainabilityStrategy = "halstead"
)

// ParseStrategy validates a strategy name from config or flags.
func ParseStrategy(s string) (MaintainabilityStrategy, bool) {
	switch MaintainabilityStrategy(s) {
	case StrategyPenalty, StrategyHalstead:
		return MaintainabilityStrategy(s), true
	}
	return "", false
}

// ComplexityProfile contains structural metrics for a single text.
// Invariant: CodeLines + CommentLines + EmptyLines == TotalLines.
type ComplexityProfile struct {
	TotalLines   int `json:"totalLines"`
	CodeLines    int `json:"codeLines"`
	CommentLines int `json:"commentLines"`
	EmptyLines   int `json:"emptyLines"`

	// ControlStructureCount is the number of branching/looping keyword
	// occurrences (IF, WHILE, LOOP, FOR, CASE, WHEN, ...).
	ControlStructureCount int `json:"controlStructureCount"`

	// FunctionCount is the number of declaration keywords
	// (CREATE / PROCEDURE / FUNCTION / TRIGGER).
	FunctionCount int `json:"functionCount"`

	// CyclomaticComplexity is ControlStructureCount + FunctionCount + 1:
	// one baseline path plus one branch per construct or declaration.
	CyclomaticComplexity int `json:"cyclomaticComplexity"`

	// LoopCount is the subset of control structures that loop
	// (WHILE, LOOP, FOR). Used by the metric synthesizer.
	LoopCount int `json:"loopCount"`

	// CommentRatio is CommentLines / CodeLines, 0 when there is no code.
	CommentRatio float64 `json:"commentRatio"`

	// HalsteadVolume is a naive operator/operand volume estimate.
	HalsteadVolume float64 `json:"halsteadVolume"`

	// MaintainabilityIndex is bounded to [0,100].
	MaintainabilityIndex int `json:"maintainabilityIndex"`
}
