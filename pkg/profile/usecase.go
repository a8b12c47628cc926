package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisGenerator produces the career-fit analysis document. It must not
// fail: generation errors degrade to a default document inside the generator.
type AnalysisGenerator interface {
	GenerateCareerAnalysis(ctx context.Context, resumeText, targetRole, experienceLevel string) Analysis
}

// ResumeOptimizer rewrites the stored resume for the target role.
type ResumeOptimizer interface {
	GenerateOptimizedResume(ctx context.Context, originalText, targetRole string, completedTasks []string) (string, error)
}

// TextExtractor converts an uploaded PDF into plain text.
type TextExtractor func(data []byte) (string, error)

// MinResumeChars is the shortest extracted text accepted as a real resume.
const MinResumeChars = 50

// UseCase covers the profile lifecycle: upload/analyze, read, roadmap toggle
// and resume optimization.
type UseCase interface {
	Upload(ctx context.Context, userID uuid.UUID, targetRole, experienceLevel string, pdfData []byte) (Profile, error)
	Get(ctx context.Context, userID uuid.UUID) (Profile, error)
	ToggleRoadmapItem(ctx context.Context, userID uuid.UUID, phaseIndex, itemIndex int, completed bool) ([]Phase, error)
	OptimizeResume(ctx context.Context, userID uuid.UUID) (string, error)
}

type service struct {
	repo      Repository
	generator AnalysisGenerator
	optimizer ResumeOptimizer
	extract   TextExtractor
	quotas    Quotas
	now       func() time.Time
}

// NewService returns the default UseCase implementation.
func NewService(repo Repository, gen AnalysisGenerator, opt ResumeOptimizer, extract TextExtractor, quotas Quotas) UseCase {
	return NewServiceWithClock(repo, gen, opt, extract, quotas, time.Now)
}

// NewServiceWithClock is NewService with an injectable clock, which day-rollover
// tests depend on.
func NewServiceWithClock(repo Repository, gen AnalysisGenerator, opt ResumeOptimizer, extract TextExtractor, quotas Quotas, now func() time.Time) UseCase {
	return &service{repo: repo, generator: gen, optimizer: opt, extract: extract, quotas: quotas, now: now}
}

// Upload ingests a resume: rate limit first (cheap), then extraction and
// generation (expensive), then a single write. The profile is created lazily
// on the first successful upload with the upload counter seeded to 1.
func (s *service) Upload(ctx context.Context, userID uuid.UUID, targetRole, experienceLevel string, pdfData []byte) (Profile, error) {
	today := s.now()

	existing, err := s.repo.GetByUserID(ctx, userID)
	exists := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	// Gate before the expensive work. The consumed count reaches storage only
	// with the final write, so a failed extraction does not burn quota.
	if exists {
		if err := s.quotas.CheckAndConsume(&existing, ActionUpload, today); err != nil {
			return Profile{}, err
		}
	}

	text, err := s.extract(pdfData)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrResumeTooShort, err)
	}
	if len(text) < MinResumeChars {
		return Profile{}, ErrResumeTooShort
	}

	// Generation never fails; upstream errors come back as a degraded default
	// document and the upload still succeeds.
	analysis := s.generator.GenerateCareerAnalysis(ctx, text, targetRole, experienceLevel)
	raw, err := json.Marshal(analysis)
	if err != nil {
		return Profile{}, err
	}

	nowTS := today.UTC()
	if exists {
		existing.TargetRole = targetRole
		existing.ExperienceLevel = experienceLevel
		existing.ResumeText = text
		existing.Analysis = raw
		existing.UpdatedAt = nowTS
		return s.repo.Update(ctx, existing)
	}

	p := Profile{
		ID:                 uuid.New(),
		UserID:             userID,
		TargetRole:         targetRole,
		ExperienceLevel:    experienceLevel,
		ResumeText:         text,
		Analysis:           raw,
		DailyUploadCount:   1,
		DailyOptimizeCount: 0,
		LastActivityDate:   dateOnly(today),
		CreatedAt:          nowTS,
		UpdatedAt:          nowTS,
	}
	return s.repo.Create(ctx, p)
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// ToggleRoadmapItem flips one action item's completed flag and persists the
// whole replacement document. The stored document is semi-trusted, so it is
// re-validated on every mutation.
func (s *service) ToggleRoadmapItem(ctx context.Context, userID uuid.UUID, phaseIndex, itemIndex int, completed bool) ([]Phase, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc, err := ParseAnalysis(p.Analysis)
	if err != nil {
		return nil, err
	}
	updated, err := ToggleItem(doc, phaseIndex, itemIndex, completed)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(updated)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAnalysis(ctx, p.ID, raw); err != nil {
		return nil, err
	}
	return updated.Roadmap, nil
}

// OptimizeResume consumes one optimize unit, commits the counter before the
// expensive generation call to narrow the double-spend window, then asks the
// model for the LaTeX rewrite. A generation failure is terminal for the
// request; the consumed unit is not refunded.
func (s *service) OptimizeResume(ctx context.Context, userID uuid.UUID) (string, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := s.quotas.CheckAndConsume(&p, ActionOptimize, s.now()); err != nil {
		return "", err
	}
	if err := s.repo.UpdateActivity(ctx, p.ID, p.DailyUploadCount, p.DailyOptimizeCount, p.LastActivityDate); err != nil {
		return "", err
	}

	// Completed tasks feed the prompt; a missing or malformed document just
	// means there is nothing to fold in.
	var tasks []string
	if doc, err := ParseAnalysis(p.Analysis); err == nil {
		tasks = CompletedTasks(doc)
	}

	return s.optimizer.GenerateOptimizedResume(ctx, p.ResumeText, p.TargetRole, tasks)
}
