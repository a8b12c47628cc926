package profile

import (
	"encoding/json"
	"fmt"
)

// ParseAnalysis decodes a stored analysis document into its typed form.
//
// The document is produced by an external generator and is only semi-trusted:
// shape violations (wrong types, a non-object document, no document at all)
// are rejected here, at the boundary, so that mutation logic can rely on the
// typed structure. Missing fields and extra keys are tolerated.
func ParseAnalysis(raw json.RawMessage) (Analysis, error) {
	if len(raw) == 0 {
		return Analysis{}, fmt.Errorf("%w: no analysis document", ErrMalformedRoadmap)
	}
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return Analysis{}, fmt.Errorf("%w: %v", ErrMalformedRoadmap, err)
	}
	return a, nil
}

// Clone returns a deep, independent copy of the analysis document.
func (a Analysis) Clone() Analysis {
	out := a
	out.SkillBreakdown = append([]SkillScore(nil), a.SkillBreakdown...)
	out.MissingSkills = append([]string(nil), a.MissingSkills...)
	out.Roadmap = make([]Phase, len(a.Roadmap))
	for i, ph := range a.Roadmap {
		cp := ph
		cp.Topics = append([]string(nil), ph.Topics...)
		cp.ActionItems = append([]ActionItem(nil), ph.ActionItems...)
		out.Roadmap[i] = cp
	}
	return out
}

// ToggleItem sets the completed flag of one roadmap action item.
//
// It operates on a deep copy and never mutates the input document; on failure
// the caller still holds the original, so a partial mutation can never leak
// into persisted state. The caller replaces the stored document wholesale with
// the returned one.
func ToggleItem(a Analysis, phaseIndex, itemIndex int, completed bool) (Analysis, error) {
	if phaseIndex < 0 || phaseIndex >= len(a.Roadmap) {
		return Analysis{}, fmt.Errorf("%w: phase %d of %d", ErrInvalidRoadmapIndex, phaseIndex, len(a.Roadmap))
	}
	items := a.Roadmap[phaseIndex].ActionItems
	if itemIndex < 0 || itemIndex >= len(items) {
		return Analysis{}, fmt.Errorf("%w: item %d of %d in phase %d", ErrInvalidRoadmapIndex, itemIndex, len(items), phaseIndex)
	}
	out := a.Clone()
	out.Roadmap[phaseIndex].ActionItems[itemIndex].Completed = completed
	return out, nil
}

// CompletedTasks lists the tasks the user has marked done, in roadmap order.
// Used to feed the resume optimizer prompt.
func CompletedTasks(a Analysis) []string {
	var tasks []string
	for _, ph := range a.Roadmap {
		for _, item := range ph.ActionItems {
			if item.Completed {
				tasks = append(tasks, item.Task)
			}
		}
	}
	return tasks
}
