package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/obeidat/learnpath/internal/pathgen"
	"github.com/obeidat/learnpath/internal/profile"
)

// MCPDeps holds dependencies for the MCP server. Same collaborators as the
// HTTP layer; the tools mirror the HTTP operations.
type MCPDeps struct {
	Catalog CourseSearcher
	Skills  SkillSynthesizer
	Paths   PathGenerator
	Country string
}

// NewMCPServer creates an MCP server exposing the recommender as tools, so
// agent clients can search the catalog and build learning paths directly.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"learnpath",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("learnpath: course catalog search, skill taxonomy generation, and personalized learning paths."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("search_courses",
			mcp.WithDescription("Search the course catalog by keywords (comma-separated, matched against course titles)."),
			mcp.WithString("keywords", mcp.Description("Comma-separated search keywords"), mcp.Required()),
			mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		),
		mcpSearchCourses(deps),
	)

	s.AddTool(
		mcp.NewTool("generate_skills",
			mcp.WithDescription("Generate a foundation/core/advanced skill taxonomy for a specialization and career goal, merging live job-market data with model knowledge."),
			mcp.WithString("major", mcp.Description("Specialization or field of study"), mcp.Required()),
			mcp.WithString("career_goal", mcp.Description("Target role, e.g. 'Data Scientist'"), mcp.Required()),
		),
		mcpGenerateSkills(deps),
	)

	s.AddTool(
		mcp.NewTool("recommend_path",
			mcp.WithDescription("Recommend catalog courses for a student profile and generate an ordered learning path."),
			mcp.WithString("college", mcp.Description("College name")),
			mcp.WithString("department", mcp.Description("Department name")),
			mcp.WithString("major", mcp.Description("Major or specialization"), mcp.Required()),
			mcp.WithArray("skills", mcp.Description("Skills the student already has")),
			mcp.WithString("career_goal", mcp.Description("Target role")),
		),
		mcpRecommendPath(deps),
	)

	return s
}

func mcpSearchCourses(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := req.RequireString("keywords")
		if err != nil {
			return mcpError("keywords is required"), nil
		}
		var keywords []string
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, k)
			}
		}
		if len(keywords) == 0 {
			return mcpError("keywords must contain at least one non-blank keyword"), nil
		}

		limit := req.GetInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 50 {
			limit = 50
		}

		courses, err := deps.Catalog.SearchCourses(ctx, keywords, limit)
		if err != nil {
			return mcpError(fmt.Sprintf("catalog search failed: %v", err)), nil
		}
		if len(courses) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(courses)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGenerateSkills(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		major, err := req.RequireString("major")
		if err != nil {
			return mcpError("major is required"), nil
		}
		careerGoal, err := req.RequireString("career_goal")
		if err != nil {
			return mcpError("career_goal is required"), nil
		}

		taxonomy := deps.Skills.Synthesize(ctx, major, careerGoal, deps.Country)
		b, err := json.Marshal(taxonomy)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal taxonomy: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRecommendPath(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		major, err := req.RequireString("major")
		if err != nil {
			return mcpError("major is required"), nil
		}

		p := profile.UserProfile{
			College:    req.GetString("college", ""),
			Department: req.GetString("department", ""),
			Major:      major,
			Skills:     req.GetStringSlice("skills", nil),
			CareerGoal: req.GetString("career_goal", ""),
		}

		courses, err := deps.Catalog.SearchCourses(ctx, p.Keywords(), recommendLimit)
		if err != nil {
			return mcpError(fmt.Sprintf("catalog search failed: %v", err)), nil
		}
		if len(courses) == 0 {
			return mcpError("no courses found for this profile"), nil
		}

		raw := deps.Paths.Generate(ctx, p, courses)

		// Return structure when the model cooperated, raw text otherwise.
		result := map[string]any{"recommended_courses": courses}
		if steps, err := pathgen.ParseSteps(raw); err == nil {
			result["learning_path"] = steps
		} else {
			result["learning_path_raw"] = raw
		}

		b, err := json.Marshal(result)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
