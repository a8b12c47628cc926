package ai

import (
	"context"
	"fmt"
	"strings"
)

// ChatContext is the slice of the user's profile the mentor is allowed to see.
type ChatContext struct {
	TargetRole      string
	ExperienceLevel string
	MissingSkills   []string
	CurrentTopics   []string // topics of the first roadmap phase
}

// GenerateChatReply answers a user message as a career mentor grounded in the
// profile context. Upstream failures are terminal for the request.
func (g *Generator) GenerateChatReply(ctx context.Context, message string, pctx ChatContext) (string, error) {
	system := fmt.Sprintf(`You are SkillSync, an expert Career Mentor.
You have access to the user's career profile and learning roadmap.

USER PROFILE CONTEXT:
- Target Role: %s
- Experience Level: %s
- Missing Skills: %s
- Current Roadmap Phase 1: %s

Your goal is to answer their questions specifically based on this context.
- If they ask about learning resources, recommend specific ones for their missing skills.
- Be encouraging but realistic.
- Keep answers concise (under 3 paragraphs).`,
		pctx.TargetRole,
		pctx.ExperienceLevel,
		strings.Join(pctx.MissingSkills, ", "),
		strings.Join(pctx.CurrentTopics, ", "),
	)

	reply, err := g.llm.Ask(ctx, system, message)
	if err != nil {
		return "", fmt.Errorf("%w: mentor chat: %v", ErrUpstream, err)
	}
	return strings.TrimSpace(reply), nil
}
