package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/llm"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/profile"
)

// ErrUpstream marks a terminal LLM failure. Analysis generation recovers from
// it locally; chat and optimization surface it to the caller.
var ErrUpstream = errors.New("upstream generation error")

const analysisSystemPrompt = `You are an expert Senior Technical Career Coach and AI System Architect.
Your goal is to analyze a candidate's resume against a specific target role and generate a structured JSON analysis.

You must output STRICT JSON. Do not output markdown code blocks. Just the raw JSON object.

The JSON structure must be:
{
    "match_score": <integer 0-100>,
    "executive_summary": "<string: 2 sentence summary of their fit>",
    "skill_breakdown": [
        { "category": "Technical Skills", "score": <integer 0-100> },
        { "category": "System Design", "score": <integer 0-100> },
        { "category": "Communication", "score": <integer 0-100> },
        { "category": "Leadership", "score": <integer 0-100> }
    ],
    "missing_skills": ["<string>", "<string>", ...],
    "roadmap": [
        {
            "phase": "Phase 1: Foundations",
            "week": "Week 1-2",
            "topics": ["<topic1>", "<topic2>"],
            "action_items": [
                { "task": "<specific task 1>", "completed": false },
                { "task": "<specific task 2>", "completed": false }
            ]
        }
    ]
}`

// Generator produces AI content from stored profile fields. All three
// generation concerns share one injected ChatModel.
type Generator struct {
	llm      llm.ChatModel
	maxChars int
}

func NewGenerator(model llm.ChatModel) *Generator {
	return &Generator{llm: model, maxChars: 12_000}
}

// GenerateCareerAnalysis asks the model for a career-fit analysis and learning
// roadmap. It never fails: any generation or parse error degrades to a valid
// default document (score 0, empty roadmap) so the surrounding upload still
// succeeds.
func (g *Generator) GenerateCareerAnalysis(ctx context.Context, resumeText, targetRole, experienceLevel string) profile.Analysis {
	text := g.truncate(resumeText)
	user := fmt.Sprintf(
		"CANDIDATE PROFILE:\nTarget Role: %s\nExperience Level: %s\n\nRESUME TEXT:\n%s\n\nAnalyze this now and provide the JSON output.",
		targetRole, experienceLevel, text,
	)

	raw, err := g.llm.Ask(ctx, analysisSystemPrompt, user)
	if err != nil {
		return fallbackAnalysis(err)
	}

	var a profile.Analysis
	if err := unmarshalLLMJSON(raw, &a); err != nil {
		return fallbackAnalysis(err)
	}
	// Normalize nil slices so the stored document always has the full shape.
	if a.SkillBreakdown == nil {
		a.SkillBreakdown = []profile.SkillScore{}
	}
	if a.MissingSkills == nil {
		a.MissingSkills = []string{}
	}
	if a.Roadmap == nil {
		a.Roadmap = []profile.Phase{}
	}
	return a
}

// fallbackAnalysis is the degenerate document stored when generation fails.
func fallbackAnalysis(cause error) profile.Analysis {
	return profile.Analysis{
		MatchScore:       0,
		ExecutiveSummary: fmt.Sprintf("AI analysis failed: %v", cause),
		SkillBreakdown:   []profile.SkillScore{},
		MissingSkills:    []string{},
		Roadmap:          []profile.Phase{},
	}
}

func (g *Generator) truncate(text string) string {
	text = strings.TrimSpace(text)
	if len(text) > g.maxChars {
		text = text[:g.maxChars]
	}
	return text
}

// unmarshalLLMJSON parses a model reply that should be a bare JSON object but
// may arrive wrapped in prose or a fenced code block.
func unmarshalLLMJSON(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			return json.Unmarshal([]byte(raw[i:j+1]), v)
		}
	}
	return fmt.Errorf("model reply is not JSON")
}
