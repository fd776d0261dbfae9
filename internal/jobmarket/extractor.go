package jobmarket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/obeidat/learnpath/internal/llm"
	"github.com/obeidat/learnpath/internal/skills"
)

const (
	// maxPromptChars bounds how much posting text reaches the model.
	maxPromptChars = 5000

	flatResultsPerQuery = 15
	extractTemperature  = 0.3
)

// Completer is the completion call the extractor needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Extractor mines skill names from live job postings. It pairs the search
// client with a completion call and never propagates upstream failures;
// everything degrades to empty results.
type Extractor struct {
	client    *Client
	completer Completer
}

// NewExtractor creates an Extractor over the given search client and
// completion client.
func NewExtractor(client *Client, completer Completer) *Extractor {
	return &Extractor{client: client, completer: completer}
}

// FetchDescriptions exposes the underlying posting fetch. It exists so the
// extractor satisfies skills.MarketSource.
func (e *Extractor) FetchDescriptions(ctx context.Context, keyword, country string, limit int) ([]string, error) {
	return e.client.FetchDescriptions(ctx, keyword, country, limit)
}

const flatTemplate = `Analyze the following job descriptions and list the top 15 most in-demand skills required for these jobs.
Return ONLY a valid JSON array of skill names.

Job Descriptions:
%s`

// HighDemandSkills returns a flat list of in-demand skill names for the role
// keyword, mined from live postings. Fetch or completion failure yields an
// empty list; a completion that is not a JSON array is wrapped as a
// single-element list holding the raw text.
func (e *Extractor) HighDemandSkills(ctx context.Context, keyword, country string) []string {
	descriptions, err := e.client.FetchDescriptions(ctx, keyword, country, flatResultsPerQuery)
	if err != nil {
		slog.Warn("job market fetch failed", "keyword", keyword, "error", err)
		return nil
	}
	if len(descriptions) == 0 {
		slog.Debug("no job postings matched", "keyword", keyword, "country", country)
		return nil
	}

	raw, err := e.completer.Complete(ctx, llm.Request{
		Prompt:      fmt.Sprintf(flatTemplate, joinTruncated(descriptions)),
		Temperature: extractTemperature,
	})
	if err != nil {
		slog.Warn("skill extraction completion failed", "keyword", keyword, "error", err)
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &list); err != nil {
		return []string{strings.TrimSpace(raw)}
	}
	return list
}

const categorizedTemplate = `Analyze the following real job descriptions and extract the most in-demand skills.
Return ONLY a valid JSON with 3 categories:
{
  "foundation": ["skill1", "skill2"],
  "core": ["skill1", "skill2"],
  "advanced": ["skill1", "skill2"]
}

Job Descriptions:
%s`

// MarketTaxonomy extracts a categorized skill taxonomy from job posting
// descriptions. Completion failure or malformed output yields an empty
// taxonomy.
func (e *Extractor) MarketTaxonomy(ctx context.Context, descriptions []string) skills.Taxonomy {
	if len(descriptions) == 0 {
		return skills.EmptyTaxonomy()
	}

	raw, err := e.completer.Complete(ctx, llm.Request{
		Prompt:      fmt.Sprintf(categorizedTemplate, joinTruncated(descriptions)),
		Temperature: extractTemperature,
	})
	if err != nil {
		slog.Warn("market taxonomy completion failed", "error", err)
		return skills.EmptyTaxonomy()
	}
	return skills.ParseTaxonomy(raw)
}

// joinTruncated space-joins the descriptions and caps the result at
// maxPromptChars to bound prompt size.
func joinTruncated(descriptions []string) string {
	combined := strings.Join(descriptions, " ")
	if len(combined) > maxPromptChars {
		combined = combined[:maxPromptChars]
	}
	return combined
}
