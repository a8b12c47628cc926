package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/ai"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/profile"
)

// ErrNoProfile means the user has not uploaded a resume yet, so the mentor
// has no context to chat about.
var ErrNoProfile = errors.New("please upload a resume first to start chatting")

// ReplyGenerator is the mentor-LLM port.
type ReplyGenerator interface {
	GenerateChatReply(ctx context.Context, message string, pctx ai.ChatContext) (string, error)
}

// UseCase answers user messages as a career mentor grounded in their profile.
type UseCase interface {
	Respond(ctx context.Context, userID uuid.UUID, message string) (string, error)
}

type service struct {
	profiles  profile.Repository
	generator ReplyGenerator
}

func NewService(profiles profile.Repository, generator ReplyGenerator) UseCase {
	return &service{profiles: profiles, generator: generator}
}

func (s *service) Respond(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", ErrNoProfile
		}
		return "", err
	}

	pctx := ai.ChatContext{
		TargetRole:      p.TargetRole,
		ExperienceLevel: p.ExperienceLevel,
	}
	// Context enrichment is best-effort: a malformed document just yields a
	// thinner mentor context, never an error.
	if doc, err := profile.ParseAnalysis(p.Analysis); err == nil {
		pctx.MissingSkills = doc.MissingSkills
		if len(doc.Roadmap) > 0 {
			pctx.CurrentTopics = doc.Roadmap[0].Topics
		}
	}

	return s.generator.GenerateChatReply(ctx, message, pctx)
}
