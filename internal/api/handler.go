package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/obeidat/learnpath/internal/catalog"
	"github.com/obeidat/learnpath/internal/profile"
	"github.com/obeidat/learnpath/internal/skills"
)

const maxRequestBodySize = 1 << 20 // 1MB

// recommendLimit caps how many catalog rows feed the path generator.
const recommendLimit = 30

// CourseSearcher abstracts the catalog for the API layer.
type CourseSearcher interface {
	SearchCourses(ctx context.Context, keywords []string, limit int) ([]catalog.Course, error)
}

// SkillSynthesizer abstracts the combined-taxonomy generation.
type SkillSynthesizer interface {
	Synthesize(ctx context.Context, specialization, careerGoal, country string) skills.Taxonomy
}

// PathGenerator abstracts learning-path synthesis.
type PathGenerator interface {
	Generate(ctx context.Context, p profile.UserProfile, courses []catalog.Course) string
}

// Deps holds everything the HTTP handlers need.
type Deps struct {
	Catalog CourseSearcher
	Skills  SkillSynthesizer
	Paths   PathGenerator
	Country string
}

// NewHandler returns the HTTP API: health check, skill generation, and
// course recommendation. All origins, methods, and headers are allowed so
// browser frontends can call the API directly.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", handleHealth)
	r.Post("/generate-skills", handleGenerateSkills(deps))
	r.Post("/recommend", handleRecommend(deps))

	return r
}

// requestLogger tags each request with an id and logs its outcome.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request handled",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "learnpath API is running",
	})
}

func handleGenerateSkills(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := decodeProfile(w, r)
		if !ok {
			return
		}

		if strings.TrimSpace(p.Major) == "" || strings.TrimSpace(p.CareerGoal) == "" {
			// Missing fields are reported in the body with a success
			// status; existing clients depend on that shape.
			writeJSON(w, http.StatusOK, map[string]string{
				"error": "Major and career_goal are required to generate skills",
			})
			return
		}

		taxonomy := deps.Skills.Synthesize(r.Context(), p.Major, p.CareerGoal, deps.Country)
		writeJSON(w, http.StatusOK, map[string]skills.Taxonomy{"skills": taxonomy})
	}
}

// recommendResponse is the success payload of POST /recommend.
type recommendResponse struct {
	UserProfile        profile.UserProfile `json:"user_profile"`
	RecommendedCourses []catalog.Course    `json:"recommended_courses"`
	LearningPath       string              `json:"learning_path"`
}

func handleRecommend(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := decodeProfile(w, r)
		if !ok {
			return
		}

		courses, err := deps.Catalog.SearchCourses(r.Context(), p.Keywords(), recommendLimit)
		if err != nil {
			slog.Error("catalog search failed", "error", err)
			httpError(w, http.StatusInternalServerError, "course catalog unavailable")
			return
		}
		if len(courses) == 0 {
			writeJSON(w, http.StatusOK, map[string]string{
				"error": "No courses found for this profile",
			})
			return
		}

		learningPath := deps.Paths.Generate(r.Context(), p, courses)
		writeJSON(w, http.StatusOK, recommendResponse{
			UserProfile:        p,
			RecommendedCourses: courses,
			LearningPath:       learningPath,
		})
	}
}

func decodeProfile(w http.ResponseWriter, r *http.Request) (profile.UserProfile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	var p profile.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return profile.UserProfile{}, false
	}
	return p, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func httpError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
