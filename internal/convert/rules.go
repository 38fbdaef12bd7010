package convert

import (
	"strings"

	"github.com/google/uuid"
)

// ruleIssues runs the quantitative checks on converted code. These are
// deterministic and independent of the AI step: they catch patterns the
// model tends to gloss over in its own issue list.
func ruleIssues(convertedText string) []ConversionIssue {
	var issues []ConversionIssue
	upper := strings.ToUpper(convertedText)

	if strings.Contains(upper, "EXECUTE IMMEDIATE") {
		issues = append(issues, ConversionIssue{
			ID:           uuid.NewString(),
			Severity:     SeverityWarning,
			Description:  "Converted code uses dynamic SQL (EXECUTE IMMEDIATE)",
			SuggestedFix: "Use bind variables and validate any concatenated identifiers",
			Category:     "performance",
		})
	}

	if strings.Contains(upper, "SELECT *") {
		issues = append(issues, ConversionIssue{
			ID:           uuid.NewString(),
			Severity:     SeverityWarning,
			Description:  "SELECT * carried over from the source; column order differences between Sybase and Oracle can change behavior",
			SuggestedFix: "List the required columns explicitly",
			Category:     "behavior",
		})
	}

	if strings.Contains(upper, "INSERT INTO") && !strings.Contains(upper, "FORALL") {
		issues = append(issues, ConversionIssue{
			ID:           uuid.NewString(),
			Severity:     SeverityInfo,
			Description:  "Row-oriented inserts without FORALL bulk binds",
			SuggestedFix: "Collect rows and insert with FORALL when volumes are non-trivial",
			Category:     "performance",
		})
	}

	if strings.Contains(upper, "BEGIN") && !strings.Contains(upper, "EXCEPTION") {
		issues = append(issues, ConversionIssue{
			ID:           uuid.NewString(),
			Severity:     SeverityInfo,
			Description:  "PL/SQL block has no EXCEPTION handler",
			SuggestedFix: "Add an EXCEPTION section if the Sybase original relied on implicit error continuation",
			Category:     "behavior",
		})
	}

	return issues
}
