package ai

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"sqlport/internal/convert"
	serrors "sqlport/internal/errors"
)

// ParseModelOutput extracts the structured payload from a raw model
// reply. Models wrap JSON in prose or markdown fences often enough that
// the parser hunts for the outermost object instead of requiring a
// clean body. Anything without a usable JSON object, or without
// converted code inside it, is a malformed reply.
func ParseModelOutput(raw string) (*convert.ModelOutput, error) {
	body := extractJSONObject(raw)
	if body == "" {
		return nil, serrors.New(serrors.AIMalformed, "model reply contains no JSON object")
	}

	var out convert.ModelOutput
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, serrors.Wrap(serrors.AIMalformed, "model reply is not valid JSON", err)
	}
	if strings.TrimSpace(out.ConvertedText) == "" {
		return nil, serrors.New(serrors.AIMalformed, "model reply has no converted code")
	}

	sanitize(&out)
	return &out, nil
}

// extractJSONObject returns the substring from the first '{' to the
// last '}', which survives both markdown fences and surrounding prose.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// sanitize fills defaults for partially-structured replies: missing
// issue IDs and severities, out-of-range hints, unknown labels.
func sanitize(out *convert.ModelOutput) {
	for i := range out.Issues {
		if out.Issues[i].ID == "" {
			out.Issues[i].ID = uuid.NewString()
		}
		switch out.Issues[i].Severity {
		case convert.SeverityInfo, convert.SeverityWarning, convert.SeverityError, convert.SeverityCritical:
		default:
			out.Issues[i].Severity = convert.SeverityInfo
		}
	}

	switch out.ComplexityLabel {
	case "simple", "moderate", "complex":
	default:
		out.ComplexityLabel = "moderate"
	}
	switch out.OptimizationLabel {
	case "basic", "standard", "advanced":
	default:
		out.OptimizationLabel = "standard"
	}

	out.ScalabilityHint = clampInt(out.ScalabilityHint, 0, 10)
	out.MaintainabilityHint = clampInt(out.MaintainabilityHint, 0, 100)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
