// Package ai implements the conversion collaborator: prompt
// construction, the Azure OpenAI client, and tolerant parsing of the
// model's reply. Everything the model returns is treated as untrusted;
// shape deviations surface as errors, never panics.
package ai

import (
	"fmt"
	"strings"
)

// PromptVersion identifies the instruction template below. It is part
// of the cache fingerprint, so bump it whenever the template changes or
// cached results generated under the old instructions would be served.
const PromptVersion = "v1"

const promptTemplate = `You are a database migration assistant. Convert the following Sybase SQL/T-SQL code to Oracle PL/SQL.

Respond with a single JSON object and nothing else, using this shape:
{
  "convertedCode": "<the Oracle PL/SQL translation>",
  "issues": [
    {
      "severity": "info|warning|error|critical",
      "description": "<what needs attention>",
      "originalSnippet": "<the Sybase fragment>",
      "suggestedFix": "<how to resolve it>",
      "category": "<syntax|datatype|behavior|performance>"
    }
  ],
  "explanation": "<one paragraph summary of the translation>",
  "complexity": "simple|moderate|complex",
  "optimizationLevel": "basic|standard|advanced",
  "dataTypeMappings": [{"sybaseType": "<type>", "oracleType": "<type>"}],
  "scalabilityScore": <0-10>,
  "maintainabilityScore": <0-100>
}

Rules:
- Preserve the original behavior exactly; flag any behavioral difference as an issue.
- Prefer modern Oracle constructs (BULK COLLECT, FORALL) where they match the original intent.
- Do not invent tables, columns, or business logic that the source does not contain.

Sybase source:
%s`

// BuildPrompt renders the instruction prompt for one source unit.
func BuildPrompt(sourceText string) string {
	return fmt.Sprintf(promptTemplate, strings.TrimSpace(sourceText))
}
