package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common errors used by repository/use cases
var (
	ErrNotFound            = errors.New("profile not found")
	ErrInvalidRoadmapIndex = errors.New("invalid roadmap index")
	ErrMalformedRoadmap    = errors.New("malformed roadmap document")
	ErrResumeTooShort      = errors.New("resume content is too short or unreadable")
)

// RateLimitError reports an exhausted daily quota for one action kind.
type RateLimitError struct {
	Action Action
	Quota  int
}

func (e *RateLimitError) Error() string {
	switch e.Action {
	case ActionOptimize:
		return fmt.Sprintf("Daily optimization limit reached (%d/day). Please try again tomorrow.", e.Quota)
	default:
		return fmt.Sprintf("Daily upload limit reached (%d/day). Please try again tomorrow.", e.Quota)
	}
}

// Repository abstracts profile persistence. One row per user; the analysis
// document is always written wholesale, never patched.
type Repository interface {
	Create(ctx context.Context, p Profile) (Profile, error)
	Update(ctx context.Context, p Profile) (Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	// UpdateAnalysis replaces the stored analysis document.
	UpdateAnalysis(ctx context.Context, id uuid.UUID, analysis json.RawMessage) error
	// UpdateActivity persists the daily counters and activity date only.
	UpdateActivity(ctx context.Context, id uuid.UUID, uploads, optimizes int, lastActivity time.Time) error
	// ResetStaleCounters zeroes counters on rows whose activity date is before
	// the given day. Maintenance only; the limiter resets in-request regardless.
	ResetStaleCounters(ctx context.Context, today time.Time) (int64, error)
}
