package analyzer

import (
	"math"
	"strings"
)

// Analyzer computes structural metrics for SQL/PLSQL text.
type Analyzer struct {
	strategy MaintainabilityStrategy
}

// New creates an analyzer using the given maintainability strategy.
func New(strategy MaintainabilityStrategy) *Analyzer {
	return &Analyzer{strategy: strategy}
}

// Strategy returns the configured maintainability strategy.
func (a *Analyzer) Strategy() MaintainabilityStrategy {
	return a.strategy
}

var commentMarkers = []string{"--", "//", "/*", "*/", "*"}

// controlKeywords are branching/looping constructs. END IF / END LOOP
// closers are excluded during counting so a construct is counted once.
var controlKeywords = map[string]bool{
	"if":     true,
	"elsif":  true,
	"elseif": true,
	"while":  true,
	"loop":   true,
	"for":    true,
	"case":   true,
	"when":   true,
	"goto":   true,
}

var loopKeywords = map[string]bool{
	"while": true,
	"loop":  true,
	"for":   true,
}

var declKeywords = map[string]bool{
	"procedure": true,
	"function":  true,
	"trigger":   true,
}

// Analyze computes a ComplexityProfile for the given text. It is pure:
// no I/O, no shared state, identical input yields identical output.
func (a *Analyzer) Analyze(text string) *ComplexityProfile {
	p := &ComplexityProfile{}

	var codeLines []string
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		lines = nil
	}

	for _, line := range lines {
		p.TotalLines++
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			p.EmptyLines++
		case isCommentLine(trimmed):
			p.CommentLines++
		default:
			p.CodeLines++
			codeLines = append(codeLines, trimmed)
		}
	}

	code := strings.Join(codeLines, "\n")
	tokens := tokenizeWords(code)

	p.ControlStructureCount, p.LoopCount = countControlStructures(tokens)
	p.FunctionCount = countDeclarations(tokens)
	p.CyclomaticComplexity = p.ControlStructureCount + p.FunctionCount + 1

	if p.CodeLines > 0 {
		p.CommentRatio = float64(p.CommentLines) / float64(p.CodeLines)
	}

	p.HalsteadVolume = halsteadVolume(code)
	p.MaintainabilityIndex = a.maintainability(p)

	return p
}

func isCommentLine(trimmed string) bool {
	for _, marker := range commentMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// tokenizeWords splits code into lowercase identifier/keyword tokens.
func tokenizeWords(code string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	for _, r := range code {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(current.Len() > 0 && r >= '0' && r <= '9') {
			current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func countControlStructures(tokens []string) (control, loops int) {
	for i, tok := range tokens {
		if !controlKeywords[tok] {
			continue
		}
		// END IF, END LOOP, END CASE close a construct already counted.
		if i > 0 && tokens[i-1] == "end" {
			continue
		}
		control++
		if loopKeywords[tok] {
			loops++
		}
	}
	return control, loops
}

// countDeclarations counts one unit per declaration: CREATE PROCEDURE is
// a single declaration, not two, while a bare CREATE (table, view, ...)
// still counts.
func countDeclarations(tokens []string) int {
	count := 0
	for i, tok := range tokens {
		if declKeywords[tok] {
			count++
			continue
		}
		if tok != "create" {
			continue
		}
		j := i + 1
		for j < len(tokens) && (tokens[j] == "or" || tokens[j] == "replace") {
			j++
		}
		if j < len(tokens) && declKeywords[tokens[j]] {
			continue // counted when the declaration keyword is reached
		}
		count++
	}
	return count
}

func (a *Analyzer) maintainability(p *ComplexityProfile) int {
	switch a.strategy {
	case StrategyHalstead:
		return halsteadMaintainability(p)
	default:
		return penaltyMaintainability(p)
	}
}

// penaltyMaintainability starts at 100 and subtracts: 2 per unit of
// complexity beyond 1, 1 per code line beyond a 10-line baseline, and a
// flat 15 when less than 15% of code lines are commented.
func penaltyMaintainability(p *ComplexityProfile) int {
	mi := 100
	if p.CyclomaticComplexity > 1 {
		mi -= 2 * (p.CyclomaticComplexity - 1)
	}
	if p.CodeLines > 10 {
		mi -= p.CodeLines - 10
	}
	if p.CommentRatio < 0.15 {
		mi -= 15
	}
	return clampScore(mi, 0, 100)
}

// halsteadMaintainability applies the classic formula
// 171 - 5.2*ln(V) - 0.23*CC - 16.2*ln(LOC), normalized to 0-100.
func halsteadMaintainability(p *ComplexityProfile) int {
	volume := math.Max(p.HalsteadVolume, 1)
	loc := math.Max(float64(p.CodeLines), 1)

	raw := 171 - 5.2*math.Log(volume) - 0.23*float64(p.CyclomaticComplexity) - 16.2*math.Log(loc)
	normalized := int(math.Round(raw * 100 / 171))
	return clampScore(normalized, 0, 100)
}

func clampScore(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
