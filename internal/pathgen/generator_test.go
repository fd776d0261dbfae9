package pathgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/obeidat/learnpath/internal/catalog"
	"github.com/obeidat/learnpath/internal/llm"
	"github.com/obeidat/learnpath/internal/profile"
)

type mockCompleter struct {
	response string
	err      error
	prompts  []string
}

func (m *mockCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	m.prompts = append(m.prompts, req.Prompt)
	return m.response, m.err
}

type mockSkillSource struct {
	skills []string
	calls  int
}

func (m *mockSkillSource) HighDemandSkills(_ context.Context, _, _ string) []string {
	m.calls++
	return m.skills
}

func testProfile() profile.UserProfile {
	return profile.UserProfile{
		College:    "Eng",
		Department: "CS",
		Major:      "AI",
		Skills:     []string{"Python"},
		CareerGoal: "ML Engineer",
	}
}

func testCourses() []catalog.Course {
	rating := 4.5
	image := "https://img.example.com/ml.png"
	return []catalog.Course{
		{Title: "Intro to AI", URL: "https://example.com/ai", Rating: &rating, Image: &image},
		{Title: "Go Basics", URL: "https://example.com/go"},
	}
}

func TestGenerate_ReturnsRawCompletion(t *testing.T) {
	completer := &mockCompleter{response: `[{"step":1,"title":"Intro to AI","url":"https://example.com/ai"}]`}
	market := &mockSkillSource{skills: []string{"TensorFlow", "MLOps"}}

	g := NewGenerator(completer, market, "us")
	got := g.Generate(context.Background(), testProfile(), testCourses())

	if got != completer.response {
		t.Errorf("Generate = %q, want raw completion verbatim", got)
	}
	if market.calls != 1 {
		t.Errorf("market calls = %d, want 1", market.calls)
	}
}

func TestGenerate_PromptContent(t *testing.T) {
	completer := &mockCompleter{response: "[]"}
	market := &mockSkillSource{skills: []string{"TensorFlow"}}

	g := NewGenerator(completer, market, "us")
	g.Generate(context.Background(), testProfile(), testCourses())

	if len(completer.prompts) != 1 {
		t.Fatalf("got %d completions, want 1", len(completer.prompts))
	}
	prompt := completer.prompts[0]

	for _, want := range []string{
		"College: Eng",
		"Major: AI",
		"Career Goal: ML Engineer",
		"Skills the user already knows: Python",
		"TensorFlow",
		"- Intro to AI (https://example.com/ai) rating: 4.5 | image: https://img.example.com/ml.png",
		"- Go Basics (https://example.com/go) rating: N/A | image: ",
		"3h beginner, 6h intermediate, 10h advanced",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerate_NoCareerGoal_SkipsMarketLookup(t *testing.T) {
	completer := &mockCompleter{response: "[]"}
	market := &mockSkillSource{}

	p := testProfile()
	p.CareerGoal = ""

	g := NewGenerator(completer, market, "us")
	g.Generate(context.Background(), p, testCourses())

	if market.calls != 0 {
		t.Errorf("market calls = %d, want 0 without a career goal", market.calls)
	}
}

func TestGenerate_CompletionFailure(t *testing.T) {
	completer := &mockCompleter{err: errors.New("upstream down")}
	market := &mockSkillSource{}

	g := NewGenerator(completer, market, "us")
	if got := g.Generate(context.Background(), testProfile(), testCourses()); got != "" {
		t.Errorf("Generate = %q, want empty string on failure", got)
	}
}

func TestParseSteps(t *testing.T) {
	raw := "```json\n[{\"step\":1,\"title\":\"Intro to AI\",\"url\":\"https://example.com/ai\",\"duration\":\"3 hours\",\"notes\":\"covers basics\",\"image\":\"\"}]\n```"
	steps, err := ParseSteps(raw)
	if err != nil {
		t.Fatalf("ParseSteps error: %v", err)
	}
	if len(steps) != 1 || steps[0].Title != "Intro to AI" {
		t.Errorf("steps = %+v", steps)
	}
}

func TestParseSteps_Rejects(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"step":1}`,
		`[{"step":1,"title":"","url":"x"}]`,
		`[{"step":1,"title":"x","url":""}]`,
	}
	for _, raw := range cases {
		if _, err := ParseSteps(raw); err == nil {
			t.Errorf("ParseSteps(%q): expected error", raw)
		}
	}
}
