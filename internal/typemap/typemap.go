// Package typemap ships the Sybase to Oracle data-type mapping table and
// detects which mappings apply to a given source text. The table lives
// in an embedded TOML file so the mapping set can be reviewed and
// extended without touching code.
package typemap

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed mappings.toml
var mappingsTOML []byte

// Mapping describes how one Sybase data type is rendered in Oracle.
type Mapping struct {
	Sybase string `json:"sybaseType" toml:"sybase"`
	Oracle string `json:"oracleType" toml:"oracle"`
	Note   string `json:"note,omitempty" toml:"note"`
}

type table struct {
	Mappings []Mapping `toml:"mapping"`
}

// Table holds the loaded mapping set with precompiled detection patterns.
type Table struct {
	mappings []Mapping
	patterns []*regexp.Regexp
}

// Load parses the embedded mapping table.
func Load() (*Table, error) {
	var t table
	if err := toml.Unmarshal(mappingsTOML, &t); err != nil {
		return nil, fmt.Errorf("failed to parse type mapping table: %w", err)
	}
	if len(t.Mappings) == 0 {
		return nil, fmt.Errorf("type mapping table is empty")
	}

	tbl := &Table{mappings: t.Mappings}
	for _, m := range t.Mappings {
		// Match the bare type name as a word; sizes like VARCHAR(40)
		// are matched by the base name.
		base := strings.ToLower(m.Sybase)
		if idx := strings.Index(base, "("); idx >= 0 {
			base = base[:idx]
		}
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(base) + `\b`)
		tbl.patterns = append(tbl.patterns, pattern)
	}
	return tbl, nil
}

// All returns every mapping in the table.
func (t *Table) All() []Mapping {
	out := make([]Mapping, len(t.mappings))
	copy(out, t.mappings)
	return out
}

// Detect returns the mappings whose Sybase type appears in the source
// text, in table order, each at most once.
func (t *Table) Detect(source string) []Mapping {
	var found []Mapping
	for i, pattern := range t.patterns {
		if pattern.MatchString(source) {
			found = append(found, t.mappings[i])
		}
	}
	return found
}
