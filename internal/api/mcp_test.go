package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/obeidat/learnpath/internal/skills"
)

func makeToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func TestMCPSearchCourses(t *testing.T) {
	cat := &mockCatalog{courses: sampleCourses()}
	handler := mcpSearchCourses(MCPDeps{Catalog: cat})

	result, err := handler(context.Background(), makeToolRequest("search_courses", map[string]any{
		"keywords": "AI, Python",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var courses []map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &courses); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(courses) != 1 || courses[0]["title"] != "Intro to AI" {
		t.Errorf("courses = %v", courses)
	}
	if len(cat.gotKeywords) != 2 {
		t.Errorf("keywords = %v, want 2 split keywords", cat.gotKeywords)
	}
}

func TestMCPSearchCourses_MissingKeywords(t *testing.T) {
	handler := mcpSearchCourses(MCPDeps{Catalog: &mockCatalog{}})

	result, err := handler(context.Background(), makeToolRequest("search_courses", map[string]any{}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for missing keywords")
	}
}

func TestMCPGenerateSkills(t *testing.T) {
	sk := &mockSkills{taxonomy: skills.Taxonomy{
		Foundation: []string{"Math"}, Core: []string{}, Advanced: []string{},
	}}
	handler := mcpGenerateSkills(MCPDeps{Skills: sk})

	result, err := handler(context.Background(), makeToolRequest("generate_skills", map[string]any{
		"major":       "Computer Science",
		"career_goal": "Data Scientist",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var taxonomy skills.Taxonomy
	if err := json.Unmarshal([]byte(resultText(t, result)), &taxonomy); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(taxonomy.Foundation) != 1 || taxonomy.Foundation[0] != "Math" {
		t.Errorf("taxonomy = %+v", taxonomy)
	}
}

func TestMCPRecommendPath_StructuredWhenParseable(t *testing.T) {
	cat := &mockCatalog{courses: sampleCourses()}
	paths := &mockPaths{response: `[{"step":1,"title":"Intro to AI","url":"https://example.com/ai"}]`}
	handler := mcpRecommendPath(MCPDeps{Catalog: cat, Paths: paths})

	result, err := handler(context.Background(), makeToolRequest("recommend_path", map[string]any{
		"major":       "AI",
		"career_goal": "ML Engineer",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &body); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if _, ok := body["learning_path"]; !ok {
		t.Error("expected structured learning_path for parseable output")
	}
}

func TestMCPRecommendPath_RawWhenMalformed(t *testing.T) {
	cat := &mockCatalog{courses: sampleCourses()}
	paths := &mockPaths{response: "the model rambled instead of emitting JSON"}
	handler := mcpRecommendPath(MCPDeps{Catalog: cat, Paths: paths})

	result, err := handler(context.Background(), makeToolRequest("recommend_path", map[string]any{
		"major": "AI",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(resultText(t, result)), &body); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if body["learning_path_raw"] != paths.response {
		t.Errorf("learning_path_raw = %v", body["learning_path_raw"])
	}
}

func TestMCPRecommendPath_NoCourses(t *testing.T) {
	handler := mcpRecommendPath(MCPDeps{Catalog: &mockCatalog{}, Paths: &mockPaths{}})

	result, err := handler(context.Background(), makeToolRequest("recommend_path", map[string]any{
		"major": "AI",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error when no courses match")
	}
}

func TestMCPSearchCourses_CatalogError(t *testing.T) {
	handler := mcpSearchCourses(MCPDeps{Catalog: &mockCatalog{err: errors.New("db down")}})

	result, err := handler(context.Background(), makeToolRequest("search_courses", map[string]any{
		"keywords": "AI",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error on catalog failure")
	}
}
