package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/ai"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/chat"
	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/profile"
)

type stubProfiles struct {
	p   profile.Profile
	err error
}

func (s *stubProfiles) Create(_ context.Context, p profile.Profile) (profile.Profile, error) {
	return p, nil
}
func (s *stubProfiles) Update(_ context.Context, p profile.Profile) (profile.Profile, error) {
	return p, nil
}
func (s *stubProfiles) GetByUserID(_ context.Context, _ uuid.UUID) (profile.Profile, error) {
	return s.p, s.err
}
func (s *stubProfiles) UpdateAnalysis(_ context.Context, _ uuid.UUID, _ json.RawMessage) error {
	return nil
}
func (s *stubProfiles) UpdateActivity(_ context.Context, _ uuid.UUID, _, _ int, _ time.Time) error {
	return nil
}
func (s *stubProfiles) ResetStaleCounters(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type stubReplier struct {
	pctx    ai.ChatContext
	message string
	err     error
}

func (s *stubReplier) GenerateChatReply(_ context.Context, message string, pctx ai.ChatContext) (string, error) {
	s.message = message
	s.pctx = pctx
	if s.err != nil {
		return "", s.err
	}
	return "Start with the missing skills.", nil
}

func TestRespond_NoProfile(t *testing.T) {
	svc := chat.NewService(&stubProfiles{err: profile.ErrNotFound}, &stubReplier{})
	_, err := svc.Respond(context.Background(), uuid.New(), "hi")
	if !errors.Is(err, chat.ErrNoProfile) {
		t.Errorf("want ErrNoProfile, got %v", err)
	}
}

func TestRespond_BuildsContextFromAnalysis(t *testing.T) {
	doc := profile.Analysis{
		MissingSkills: []string{"Kubernetes"},
		Roadmap: []profile.Phase{
			{Phase: "Phase 1", Topics: []string{"Containers", "Networking"}},
			{Phase: "Phase 2", Topics: []string{"gRPC"}},
		},
	}
	raw, _ := json.Marshal(doc)
	replier := &stubReplier{}
	svc := chat.NewService(&stubProfiles{p: profile.Profile{
		TargetRole:      "Platform Engineer",
		ExperienceLevel: "2+ Years",
		Analysis:        raw,
	}}, replier)

	reply, err := svc.Respond(context.Background(), uuid.New(), "where do I start?")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if reply == "" {
		t.Error("empty reply")
	}
	if replier.message != "where do I start?" {
		t.Errorf("message = %q", replier.message)
	}
	if replier.pctx.TargetRole != "Platform Engineer" {
		t.Errorf("target role = %q", replier.pctx.TargetRole)
	}
	if !reflect.DeepEqual(replier.pctx.MissingSkills, []string{"Kubernetes"}) {
		t.Errorf("missing skills = %v", replier.pctx.MissingSkills)
	}
	// Only the first phase's topics feed the mentor context.
	if !reflect.DeepEqual(replier.pctx.CurrentTopics, []string{"Containers", "Networking"}) {
		t.Errorf("current topics = %v", replier.pctx.CurrentTopics)
	}
}

// A malformed stored document thins the context instead of failing the chat.
func TestRespond_MalformedAnalysisStillChats(t *testing.T) {
	replier := &stubReplier{}
	svc := chat.NewService(&stubProfiles{p: profile.Profile{
		TargetRole: "Backend Engineer",
		Analysis:   json.RawMessage(`{"roadmap": 42}`),
	}}, replier)

	if _, err := svc.Respond(context.Background(), uuid.New(), "hello"); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if len(replier.pctx.MissingSkills) != 0 || len(replier.pctx.CurrentTopics) != 0 {
		t.Errorf("context should be empty for a malformed document: %+v", replier.pctx)
	}
}

func TestRespond_UpstreamFailurePropagates(t *testing.T) {
	wantErr := errors.New("model down")
	svc := chat.NewService(&stubProfiles{p: profile.Profile{TargetRole: "x"}}, &stubReplier{err: wantErr})
	if _, err := svc.Respond(context.Background(), uuid.New(), "hello"); !errors.Is(err, wantErr) {
		t.Errorf("want propagated upstream error, got %v", err)
	}
}
