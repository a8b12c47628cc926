package profile_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lokesh-manneti/skillsync-ai-v2/pkg/profile"
)

// ── fakes ──────────────────────────────────────────────────────────────────

type fakeRepo struct {
	byUser map[uuid.UUID]profile.Profile
	events *[]string
}

func newFakeRepo(events *[]string) *fakeRepo {
	return &fakeRepo{byUser: map[uuid.UUID]profile.Profile{}, events: events}
}

func (r *fakeRepo) log(ev string) {
	if r.events != nil {
		*r.events = append(*r.events, ev)
	}
}

func (r *fakeRepo) Create(_ context.Context, p profile.Profile) (profile.Profile, error) {
	r.log("create")
	r.byUser[p.UserID] = p
	return p, nil
}

func (r *fakeRepo) Update(_ context.Context, p profile.Profile) (profile.Profile, error) {
	r.log("update")
	r.byUser[p.UserID] = p
	return p, nil
}

func (r *fakeRepo) GetByUserID(_ context.Context, userID uuid.UUID) (profile.Profile, error) {
	p, ok := r.byUser[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (r *fakeRepo) UpdateAnalysis(_ context.Context, id uuid.UUID, analysis json.RawMessage) error {
	r.log("updateAnalysis")
	for uid, p := range r.byUser {
		if p.ID == id {
			p.Analysis = analysis
			r.byUser[uid] = p
			return nil
		}
	}
	return profile.ErrNotFound
}

func (r *fakeRepo) UpdateActivity(_ context.Context, id uuid.UUID, uploads, optimizes int, lastActivity time.Time) error {
	r.log("updateActivity")
	for uid, p := range r.byUser {
		if p.ID == id {
			p.DailyUploadCount = uploads
			p.DailyOptimizeCount = optimizes
			p.LastActivityDate = lastActivity
			r.byUser[uid] = p
			return nil
		}
	}
	return profile.ErrNotFound
}

func (r *fakeRepo) ResetStaleCounters(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeGen struct {
	analysis      profile.Analysis
	optimizeCalls int
	optimizeErr   error
	events        *[]string
}

func (g *fakeGen) GenerateCareerAnalysis(_ context.Context, _, _, _ string) profile.Analysis {
	return g.analysis
}

func (g *fakeGen) GenerateOptimizedResume(_ context.Context, _, _ string, tasks []string) (string, error) {
	g.optimizeCalls++
	if g.events != nil {
		*g.events = append(*g.events, "optimize")
	}
	if g.optimizeErr != nil {
		return "", g.optimizeErr
	}
	return fmt.Sprintf("\\documentclass{article} %% tasks: %s", strings.Join(tasks, "; ")), nil
}

func passthroughExtract(data []byte) (string, error) {
	return string(data), nil
}

const longResume = "Backend engineer with six years of Go, Postgres and Kafka experience across payments platforms."

type fixture struct {
	repo   *fakeRepo
	gen    *fakeGen
	svc    profile.UseCase
	clock  *time.Time
	events []string
	userID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{userID: uuid.New()}
	f.repo = newFakeRepo(&f.events)
	f.gen = &fakeGen{analysis: sampleAnalysis(), events: &f.events}
	start := today
	f.clock = &start
	f.svc = profile.NewServiceWithClock(
		f.repo, f.gen, f.gen, passthroughExtract, profile.DefaultQuotas(),
		func() time.Time { return *f.clock },
	)
	return f
}

func (f *fixture) upload(t *testing.T) (profile.Profile, error) {
	t.Helper()
	return f.svc.Upload(context.Background(), f.userID, "Senior Backend Engineer", "2+ Years", []byte(longResume))
}

// ── Upload ─────────────────────────────────────────────────────────────────

func TestUpload_FirstUploadCreatesProfile(t *testing.T) {
	f := newFixture(t)
	p, err := f.upload(t)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if p.DailyUploadCount != 1 {
		t.Errorf("upload count = %d, want 1 (seeded)", p.DailyUploadCount)
	}
	if !sameDate(p.LastActivityDate, today) {
		t.Errorf("last activity date = %v, want today", p.LastActivityDate)
	}
	doc, err := profile.ParseAnalysis(p.Analysis)
	if err != nil {
		t.Fatalf("stored analysis does not parse: %v", err)
	}
	if doc.MatchScore != sampleAnalysis().MatchScore {
		t.Errorf("stored match score = %d, want %d", doc.MatchScore, sampleAnalysis().MatchScore)
	}
}

func TestUpload_DailyQuotaThenRollover(t *testing.T) {
	f := newFixture(t)

	// 1st and 2nd upload of the day succeed.
	if _, err := f.upload(t); err != nil {
		t.Fatalf("1st upload: %v", err)
	}
	p, err := f.upload(t)
	if err != nil {
		t.Fatalf("2nd upload: %v", err)
	}
	if p.DailyUploadCount != 2 {
		t.Errorf("upload count = %d, want 2", p.DailyUploadCount)
	}

	// 3rd the same day is denied and the stored count stays at the quota.
	_, err = f.upload(t)
	var rl *profile.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("3rd upload: want *RateLimitError, got %v", err)
	}
	stored := f.repo.byUser[f.userID]
	if stored.DailyUploadCount != 2 {
		t.Errorf("stored count after denial = %d, want 2", stored.DailyUploadCount)
	}

	// Day rollover: next upload succeeds with the count reset to 1.
	*f.clock = today.AddDate(0, 0, 1)
	p, err = f.upload(t)
	if err != nil {
		t.Fatalf("upload after rollover: %v", err)
	}
	if p.DailyUploadCount != 1 {
		t.Errorf("upload count after rollover = %d, want 1", p.DailyUploadCount)
	}
}

func TestUpload_ReplacesFieldsOnReupload(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("1st upload: %v", err)
	}
	p, err := f.svc.Upload(context.Background(), f.userID, "Staff Engineer", "5+ Years", []byte(longResume+" Now with leadership experience."))
	if err != nil {
		t.Fatalf("2nd upload: %v", err)
	}
	if p.TargetRole != "Staff Engineer" || p.ExperienceLevel != "5+ Years" {
		t.Errorf("career fields not replaced: %q / %q", p.TargetRole, p.ExperienceLevel)
	}
	if !strings.Contains(p.ResumeText, "leadership") {
		t.Error("resume text not replaced")
	}
}

func TestUpload_ShortTextRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Upload(context.Background(), f.userID, "Backend Engineer", "Fresher", []byte("too short"))
	if !errors.Is(err, profile.ErrResumeTooShort) {
		t.Fatalf("want ErrResumeTooShort, got %v", err)
	}
	if _, ok := f.repo.byUser[f.userID]; ok {
		t.Error("no profile must be created for a rejected upload")
	}
}

// A rejected extraction on an existing profile must not burn persisted quota:
// the consumed unit only reaches storage with the final write.
func TestUpload_FailedExtractionDoesNotPersistQuota(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("1st upload: %v", err)
	}
	if _, err := f.svc.Upload(context.Background(), f.userID, "Backend Engineer", "Fresher", []byte("x")); !errors.Is(err, profile.ErrResumeTooShort) {
		t.Fatalf("want ErrResumeTooShort, got %v", err)
	}
	if got := f.repo.byUser[f.userID].DailyUploadCount; got != 1 {
		t.Errorf("stored upload count = %d, want 1", got)
	}
}

// ── ToggleRoadmapItem ──────────────────────────────────────────────────────

func TestToggleRoadmapItem_PersistsReplacementDocument(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("upload: %v", err)
	}
	roadmap, err := f.svc.ToggleRoadmapItem(context.Background(), f.userID, 0, 0, true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !roadmap[0].ActionItems[0].Completed {
		t.Error("returned roadmap does not reflect the toggle")
	}
	stored, err := profile.ParseAnalysis(f.repo.byUser[f.userID].Analysis)
	if err != nil {
		t.Fatalf("stored analysis does not parse: %v", err)
	}
	if !stored.Roadmap[0].ActionItems[0].Completed {
		t.Error("stored document does not reflect the toggle")
	}
}

func TestToggleRoadmapItem_NoProfile(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.ToggleRoadmapItem(context.Background(), f.userID, 0, 0, true); !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestToggleRoadmapItem_MalformedStoredDocument(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("upload: %v", err)
	}
	p := f.repo.byUser[f.userID]
	p.Analysis = json.RawMessage(`{"roadmap": "not a list"}`)
	f.repo.byUser[f.userID] = p

	if _, err := f.svc.ToggleRoadmapItem(context.Background(), f.userID, 0, 0, true); !errors.Is(err, profile.ErrMalformedRoadmap) {
		t.Errorf("want ErrMalformedRoadmap, got %v", err)
	}
}

func TestToggleRoadmapItem_OutOfBounds(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := f.svc.ToggleRoadmapItem(context.Background(), f.userID, 5, 0, true); !errors.Is(err, profile.ErrInvalidRoadmapIndex) {
		t.Errorf("want ErrInvalidRoadmapIndex, got %v", err)
	}
}

// ── OptimizeResume ─────────────────────────────────────────────────────────

func TestOptimizeResume_NoProfile(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.OptimizeResume(context.Background(), f.userID); !errors.Is(err, profile.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

// The incremented counter must be committed before the generation call runs.
func TestOptimizeResume_CommitsCounterBeforeGeneration(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("upload: %v", err)
	}
	f.events = f.events[:0]
	if _, err := f.svc.OptimizeResume(context.Background(), f.userID); err != nil {
		t.Fatalf("optimize: %v", err)
	}
	want := []string{"updateActivity", "optimize"}
	if len(f.events) != 2 || f.events[0] != want[0] || f.events[1] != want[1] {
		t.Errorf("event order = %v, want %v", f.events, want)
	}
}

func TestOptimizeResume_QuotaSequenceAndNoGenerationWhenDenied(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("upload: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if _, err := f.svc.OptimizeResume(context.Background(), f.userID); err != nil {
			t.Fatalf("optimize %d: %v", i, err)
		}
		if got := f.repo.byUser[f.userID].DailyOptimizeCount; got != i {
			t.Errorf("stored optimize count = %d, want %d", got, i)
		}
	}

	_, err := f.svc.OptimizeResume(context.Background(), f.userID)
	var rl *profile.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("4th optimize: want *RateLimitError, got %v", err)
	}
	if f.gen.optimizeCalls != 3 {
		t.Errorf("generation calls = %d, want 3 (none attempted on the denied call)", f.gen.optimizeCalls)
	}
}

// A consumed unit is not refunded when generation fails.
func TestOptimizeResume_GenerationFailureKeepsConsumedUnit(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("upload: %v", err)
	}
	f.gen.optimizeErr = errors.New("model unavailable")
	if _, err := f.svc.OptimizeResume(context.Background(), f.userID); err == nil {
		t.Fatal("want terminal error from generation")
	}
	if got := f.repo.byUser[f.userID].DailyOptimizeCount; got != 1 {
		t.Errorf("stored optimize count = %d, want 1", got)
	}
}

func TestOptimizeResume_FeedsCompletedTasks(t *testing.T) {
	f := newFixture(t)
	if _, err := f.upload(t); err != nil {
		t.Fatalf("upload: %v", err)
	}
	out, err := f.svc.OptimizeResume(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	// sampleAnalysis has exactly one completed task.
	if !strings.Contains(out, "Read the Kubernetes concepts docs") {
		t.Errorf("optimizer did not receive the completed tasks: %q", out)
	}
}
