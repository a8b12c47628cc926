package ai

import (
	"context"
	"fmt"
	"strings"
)

// GenerateOptimizedResume rewrites the resume as a LaTeX document, folding the
// user's completed roadmap tasks into the content. Unlike analysis generation
// there is no safe default here: an upstream failure fails the operation.
func (g *Generator) GenerateOptimizedResume(ctx context.Context, originalText, targetRole string, completedTasks []string) (string, error) {
	tasksStr := "No specific roadmap tasks completed yet."
	if len(completedTasks) > 0 {
		tasksStr = "- " + strings.Join(completedTasks, "\n- ")
	}

	system := fmt.Sprintf(`You are an expert LaTeX Resume Developer.
Your goal is to rewrite a candidate's resume into a high-quality, professional LaTeX document.

INSTRUCTIONS:
1. Use a standard, clean article class (e.g., \documentclass{article}).
2. Use \usepackage{geometry} to set 1-inch margins.
3. Use \usepackage{enumitem} for better lists.
4. Do NOT use external icon packages like 'fontawesome' unless standard.
5. Output ONLY the raw LaTeX code starting with \documentclass and ending with \end{document}.
6. Integrate these NEW SKILLS into the content:
%s

7. Optimize bullet points for the role: %s.`, tasksStr, targetRole)

	user := fmt.Sprintf("ORIGINAL CONTENT:\n%s\n\nGENERATE LATEX CODE NOW.", g.truncate(originalText))

	out, err := g.llm.Ask(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("%w: resume optimization: %v", ErrUpstream, err)
	}
	// Strip markdown fences some models wrap the source in.
	out = strings.ReplaceAll(out, "```latex", "")
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out), nil
}
