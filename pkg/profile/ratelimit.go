package profile

import "time"

// Action is a rate-limited action kind.
type Action string

const (
	ActionUpload   Action = "upload"
	ActionOptimize Action = "optimize"
)

// Quotas holds the per-day allowance for each action kind.
type Quotas struct {
	Upload   int
	Optimize int
}

// DefaultQuotas returns the fixed policy values: 2 uploads and 3 optimizations
// per profile per day.
func DefaultQuotas() Quotas {
	return Quotas{Upload: 2, Optimize: 3}
}

// For returns the quota for an action kind. Unknown kinds get 0, which always
// fails the check.
func (q Quotas) For(action Action) int {
	switch action {
	case ActionUpload:
		return q.Upload
	case ActionOptimize:
		return q.Optimize
	default:
		return 0
	}
}

// CheckAndConsume gates one action against the profile's daily counters.
//
// If the profile's last activity date is not today, both counters are reset
// and the date advanced first; the reset sticks even when the quota check then
// fails. On success the counter for the action is incremented. The caller is
// responsible for persisting the mutated profile. Reading, resetting and
// consuming happen in one step so there is no intermediate state where a stale
// count is checked against a new day.
func (q Quotas) CheckAndConsume(p *Profile, action Action, today time.Time) error {
	if !sameDay(p.LastActivityDate, today) {
		p.DailyUploadCount = 0
		p.DailyOptimizeCount = 0
		p.LastActivityDate = dateOnly(today)
	}

	quota := q.For(action)
	switch action {
	case ActionUpload:
		if p.DailyUploadCount >= quota {
			return &RateLimitError{Action: action, Quota: quota}
		}
		p.DailyUploadCount++
	case ActionOptimize:
		if p.DailyOptimizeCount >= quota {
			return &RateLimitError{Action: action, Quota: quota}
		}
		p.DailyOptimizeCount++
	default:
		return &RateLimitError{Action: action, Quota: quota}
	}
	return nil
}

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
