package exercises

import "strings"

// Filter is the compound feed predicate. Components combine with AND;
// an unset component matches everything.
type Filter struct {
	// MachineType matches the category exactly, case-insensitively.
	MachineType string
	// Query matches as a case-insensitive substring of the name or of the
	// strengthen/stretch notes.
	Query string
	// Levels is a multi-select: a record matches when its level is in the
	// set, compared case-insensitively.
	Levels []string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return f.MachineType == "" && strings.TrimSpace(f.Query) == "" && len(f.Levels) == 0
}

// Match evaluates the filter against one record. Absent record fields never
// raise; they simply fail the components that need them.
func (f Filter) Match(exercise Exercise) bool {
	if f.MachineType != "" {
		if exercise.MachineType == nil || !strings.EqualFold(*exercise.MachineType, f.MachineType) {
			return false
		}
	}

	if query := strings.ToLower(strings.TrimSpace(f.Query)); query != "" {
		if !containsFold(exercise.Name, query) &&
			!pointerContainsFold(exercise.Strengthen, query) &&
			!pointerContainsFold(exercise.Stretch, query) {
			return false
		}
	}

	if len(f.Levels) > 0 {
		if exercise.Level == nil {
			return false
		}
		level := strings.ToLower(*exercise.Level)
		found := false
		for _, candidate := range f.Levels {
			if strings.ToLower(candidate) == level {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Apply returns the records matching the filter, preserving input order.
func (f Filter) Apply(list []Exercise) []Exercise {
	if f.IsZero() {
		return list
	}
	filtered := make([]Exercise, 0, len(list))
	for _, exercise := range list {
		if f.Match(exercise) {
			filtered = append(filtered, exercise)
		}
	}
	return filtered
}

func containsFold(haystack, loweredNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), loweredNeedle)
}

func pointerContainsFold(haystack *string, loweredNeedle string) bool {
	return haystack != nil && containsFold(*haystack, loweredNeedle)
}
