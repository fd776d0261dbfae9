package skills

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/obeidat/learnpath/internal/llm"
)

const (
	descriptionsPerQuery = 10
	proposalTemperature  = 0.3
	proposalMaxTokens    = 400
)

// Completer is the completion call the synthesizer needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// MarketSource supplies live job-market signal: raw posting descriptions
// for a role, and a categorized taxonomy extracted from them.
// Implemented by jobmarket.Extractor.
type MarketSource interface {
	FetchDescriptions(ctx context.Context, keyword, country string, limit int) ([]string, error)
	MarketTaxonomy(ctx context.Context, descriptions []string) Taxonomy
}

// Synthesizer produces the combined skill taxonomy for a specialization and
// career goal: live market analysis unioned with a model-proposed taxonomy.
type Synthesizer struct {
	market    MarketSource
	completer Completer
}

// NewSynthesizer creates a Synthesizer over the given market source and
// completion client.
func NewSynthesizer(market MarketSource, completer Completer) *Synthesizer {
	return &Synthesizer{market: market, completer: completer}
}

// Synthesize merges the market-derived and model-proposed taxonomies for the
// given specialization and career goal. It never fails: every upstream error
// degrades to an empty taxonomy on that side, so the worst case is a result
// with three empty categories.
func (s *Synthesizer) Synthesize(ctx context.Context, specialization, careerGoal, country string) Taxonomy {
	var market, proposed Taxonomy

	// The two sides are independent LLM round-trips; run them concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		market = s.marketTaxonomy(gctx, careerGoal, country)
		return nil
	})
	g.Go(func() error {
		proposed = s.proposeTaxonomy(gctx, specialization, careerGoal)
		return nil
	})
	g.Wait()

	return Merge(proposed, market)
}

// marketTaxonomy extracts a taxonomy from live job postings for the career
// goal. No postings (or a fetch failure) yields an empty taxonomy.
func (s *Synthesizer) marketTaxonomy(ctx context.Context, careerGoal, country string) Taxonomy {
	descriptions, err := s.market.FetchDescriptions(ctx, careerGoal, country, descriptionsPerQuery)
	if err != nil {
		slog.Warn("job market fetch failed, skipping market skills", "career_goal", careerGoal, "error", err)
		return EmptyTaxonomy()
	}
	if len(descriptions) == 0 {
		return EmptyTaxonomy()
	}
	return s.market.MarketTaxonomy(ctx, descriptions)
}

const proposeTemplate = `You are an expert career advisor.
Based on the following information, generate a list of essential skills:

Specialization: %s
Career Goal: %s

Return the skills grouped into 3 categories:
- Foundation Skills
- Core Skills
- Advanced / Specialized Skills

IMPORTANT: Return valid JSON only:
{
  "foundation": ["skill1", "skill2"],
  "core": ["skill1", "skill2"],
  "advanced": ["skill1", "skill2"]
}`

// proposeTaxonomy asks the model for a taxonomy from the specialization and
// career goal alone, with no live job data. Malformed output degrades to an
// empty taxonomy.
func (s *Synthesizer) proposeTaxonomy(ctx context.Context, specialization, careerGoal string) Taxonomy {
	raw, err := s.completer.Complete(ctx, llm.Request{
		Prompt:      fmt.Sprintf(proposeTemplate, specialization, careerGoal),
		Temperature: proposalTemperature,
		MaxTokens:   proposalMaxTokens,
	})
	if err != nil {
		slog.Warn("skill proposal completion failed", "error", err)
		return EmptyTaxonomy()
	}
	return ParseTaxonomy(raw)
}
