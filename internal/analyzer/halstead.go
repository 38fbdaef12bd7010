package analyzer

import (
	"math"
	"regexp"
)

var (
	operandPattern  = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*|\d+(?:\.\d+)?|'[^']*'`)
	operatorPattern = regexp.MustCompile(`:=|<>|<=|>=|!=|\|\||[-+*/=<>%(),;.]`)
)

// halsteadVolume estimates Halstead volume from a naive operator/operand
// split: V = (N1 + N2) * log2(n1 + n2). It is an approximation for use
// in the academic maintainability formula, not a faithful Halstead
// implementation.
func halsteadVolume(code string) float64 {
	operands := operandPattern.FindAllString(code, -1)
	operators := operatorPattern.FindAllString(code, -1)

	if len(operands)+len(operators) == 0 {
		return 0
	}

	distinctOperands := map[string]bool{}
	for _, op := range operands {
		distinctOperands[op] = true
	}
	distinctOperators := map[string]bool{}
	for _, op := range operators {
		distinctOperators[op] = true
	}

	vocabulary := float64(len(distinctOperands) + len(distinctOperators))
	length := float64(len(operands) + len(operators))
	if vocabulary < 2 {
		vocabulary = 2
	}

	return length * math.Log2(vocabulary)
}
