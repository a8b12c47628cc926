package profile

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Profile is the single per-user career record: goal inputs, the extracted
// resume text, the AI analysis document and the daily action counters.
type Profile struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	TargetRole      string          `json:"targetRole"`
	ExperienceLevel string          `json:"experienceLevel"` // e.g. "Fresher", "2+ Years"
	ResumeText      string          `json:"resumeText"`
	Analysis        json.RawMessage `json:"analysis,omitempty"` // nil until first upload

	DailyUploadCount   int       `json:"dailyUploadCount"`
	DailyOptimizeCount int       `json:"dailyOptimizeCount"`
	LastActivityDate   time.Time `json:"lastActivityDate"` // calendar date, no time component

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Analysis is the typed form of the stored analysis document. Key names are
// snake_case because they are fixed by the generation prompt contract, not by
// this API.
type Analysis struct {
	MatchScore       int          `json:"match_score"`
	ExecutiveSummary string       `json:"executive_summary"`
	SkillBreakdown   []SkillScore `json:"skill_breakdown"`
	MissingSkills    []string     `json:"missing_skills"`
	Roadmap          []Phase      `json:"roadmap"`
}

type SkillScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// Phase is one stage of the learning roadmap.
type Phase struct {
	Phase       string       `json:"phase"`
	Week        string       `json:"week"`
	Topics      []string     `json:"topics"`
	ActionItems []ActionItem `json:"action_items"`
}

type ActionItem struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}
