package pathgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/obeidat/learnpath/internal/catalog"
	"github.com/obeidat/learnpath/internal/llm"
	"github.com/obeidat/learnpath/internal/profile"
)

const (
	pathTemperature = 0.5
	pathMaxTokens   = 1500
)

// Completer is the completion call the generator needs.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// SkillSource supplies the flat high-demand skill list used as market
// context in the prompt. Implemented by jobmarket.Extractor.
type SkillSource interface {
	HighDemandSkills(ctx context.Context, keyword, country string) []string
}

// Step is the shape each learning-path entry is asked to follow. The model's
// output is returned to HTTP clients verbatim; Step exists for callers that
// want to parse it strictly (see ParseSteps).
type Step struct {
	Step     int    `json:"step"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Duration string `json:"duration"`
	Notes    string `json:"notes"`
	Image    string `json:"image"`
}

// Generator builds the learning-path prompt and delegates synthesis to the
// completion endpoint.
type Generator struct {
	completer Completer
	market    SkillSource
	country   string
}

// NewGenerator creates a Generator. country selects the job market used for
// the high-demand skill context.
func NewGenerator(completer Completer, market SkillSource, country string) *Generator {
	return &Generator{completer: completer, market: market, country: country}
}

// Generate returns the model's learning path for the profile and candidate
// courses as raw text (nominally a JSON array of steps, not validated here).
// Market-skill lookup and completion failures both degrade: the former to an
// empty skill list, the latter to an empty string.
func (g *Generator) Generate(ctx context.Context, p profile.UserProfile, courses []catalog.Course) string {
	var highDemand []string
	if strings.TrimSpace(p.CareerGoal) != "" {
		highDemand = g.market.HighDemandSkills(ctx, p.CareerGoal, g.country)
	}

	raw, err := g.completer.Complete(ctx, llm.Request{
		Prompt:      buildPrompt(p, highDemand, courses),
		Temperature: pathTemperature,
		MaxTokens:   pathMaxTokens,
	})
	if err != nil {
		slog.Warn("learning path completion failed", "error", err)
		return ""
	}
	return raw
}

const promptTemplate = `You are an AI assistant specialized in creating personalized learning paths.
Analyze the user profile and course data, then generate a structured roadmap.

## User Profile
- College: %s
- Department: %s
- Major: %s
- Skills the user already knows: %s
- Career Goal: %s

## Market Insight
High-demand skills in the current job market:
%s

## Available Courses
%s

## Task
1. Select the most relevant courses based on career goal + missing skills + market demand.
2. Avoid suggesting skills the user already knows.
3. Arrange courses by difficulty (Beginner -> Intermediate -> Advanced).
4. For each course, explain briefly why it is important for the user.
5. If duration info is missing, estimate based on level (3h beginner, 6h intermediate, 10h advanced).

## Output format (return valid JSON only)
[
  {
    "step": 1,
    "title": "Course title",
    "url": "Course link",
    "duration": "X hours",
    "notes": "Why this course is useful",
    "image": "thumbnail"
  }
]`

func buildPrompt(p profile.UserProfile, highDemand []string, courses []catalog.Course) string {
	return fmt.Sprintf(promptTemplate,
		p.College, p.Department, p.Major,
		strings.Join(p.Skills, ", "),
		p.CareerGoal,
		strings.Join(highDemand, ", "),
		buildCourseList(courses),
	)
}

// buildCourseList renders the candidate courses as a bullet list of title,
// url, rating, and image for prompt embedding.
func buildCourseList(courses []catalog.Course) string {
	var sb strings.Builder
	for _, c := range courses {
		rating := "N/A"
		if c.Rating != nil {
			rating = fmt.Sprintf("%.1f", *c.Rating)
		}
		image := ""
		if c.Image != nil {
			image = *c.Image
		}
		fmt.Fprintf(&sb, "- %s (%s) rating: %s | image: %s\n", c.Title, c.URL, rating, image)
	}
	return sb.String()
}

// ParseSteps strictly parses a generated learning path into steps. It
// rejects anything that is not a JSON array of step objects with a title and
// url. HTTP responses never go through this; the MCP surface uses it to
// return structure when the model cooperated.
func ParseSteps(raw string) ([]Step, error) {
	clean := llm.StripCodeFences(raw)

	var steps []Step
	if err := json.Unmarshal([]byte(clean), &steps); err != nil {
		return nil, fmt.Errorf("parsing learning path: %w", err)
	}
	for i, s := range steps {
		if s.Title == "" || s.URL == "" {
			return nil, fmt.Errorf("step %d: missing title or url", i+1)
		}
	}
	return steps, nil
}
