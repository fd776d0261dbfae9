package profile

import "strings"

// UserProfile describes the requesting student. It exists only for the
// duration of a request and is never persisted.
type UserProfile struct {
	College    string   `json:"college"`
	Department string   `json:"department"`
	Major      string   `json:"major"`
	Skills     []string `json:"skills"`
	CareerGoal string   `json:"career_goal,omitempty"`
}

// Keywords assembles the catalog search keywords from the profile:
// college, department, major, each known skill, and the career goal,
// in that order. Blank fields are skipped.
func (p UserProfile) Keywords() []string {
	var out []string
	add := func(s string) {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	add(p.College)
	add(p.Department)
	add(p.Major)
	for _, s := range p.Skills {
		add(s)
	}
	add(p.CareerGoal)
	return out
}
