package skills

import (
	"encoding/json"

	"github.com/obeidat/learnpath/internal/llm"
)

// Taxonomy is the three-tier skill categorization returned to clients.
// Skill names are compared by exact string identity; no case folding or
// synonym normalization is applied.
type Taxonomy struct {
	Foundation []string `json:"foundation"`
	Core       []string `json:"core"`
	Advanced   []string `json:"advanced"`
}

// EmptyTaxonomy returns a taxonomy whose three categories are present but
// empty. Used as the fallback for every unrecoverable upstream failure so
// that the response shape never changes.
func EmptyTaxonomy() Taxonomy {
	return Taxonomy{
		Foundation: []string{},
		Core:       []string{},
		Advanced:   []string{},
	}
}

// ParseTaxonomy parses a model completion into a Taxonomy. Markdown code
// fences are stripped first; any parse failure yields an empty taxonomy
// rather than an error.
func ParseTaxonomy(raw string) Taxonomy {
	clean := llm.StripCodeFences(raw)

	var t Taxonomy
	if err := json.Unmarshal([]byte(clean), &t); err != nil {
		return EmptyTaxonomy()
	}
	if t.Foundation == nil {
		t.Foundation = []string{}
	}
	if t.Core == nil {
		t.Core = []string{}
	}
	if t.Advanced == nil {
		t.Advanced = []string{}
	}
	return t
}

// Merge unions two taxonomies per category, dropping exact duplicates.
// First-seen order is preserved so output is deterministic.
func Merge(a, b Taxonomy) Taxonomy {
	return Taxonomy{
		Foundation: union(a.Foundation, b.Foundation),
		Core:       union(a.Core, b.Core),
		Advanced:   union(a.Advanced, b.Advanced),
	}
}

func union(lists ...[]string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, s := range list {
			if seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
