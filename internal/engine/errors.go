package engine

import (
	"fmt"
	"strings"
)

// Input table names.
const (
	TableMentors = "mentors"
	TableMentees = "mentees"
	TableMatches = "matches"
)

// MissingInputsError is returned by callers that need to surface a process
// request made before all three tables were supplied.
type MissingInputsError struct {
	Missing []string
}

func (e *MissingInputsError) Error() string {
	return fmt.Sprintf("missing input tables: %s\nHint: supply --mentors, --mentees and --matches (or set them in rex.yaml)", strings.Join(e.Missing, ", "))
}

// UnresolvedReferencesError is returned in strict mode when a match row points
// at a mentor or mentee that is not in its roster.
type UnresolvedReferencesError struct {
	Mentors []string
	Mentees []string
}

func (e *UnresolvedReferencesError) Error() string {
	var parts []string
	if len(e.Mentors) > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown mentor id(s): %s", len(e.Mentors), strings.Join(e.Mentors, ", ")))
	}
	if len(e.Mentees) > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown uro number(s): %s", len(e.Mentees), strings.Join(e.Mentees, ", ")))
	}
	return "unresolved references: " + strings.Join(parts, "; ")
}

// CheckStrict returns an UnresolvedReferencesError when stats recorded any
// unresolved reference, and nil otherwise.
func CheckStrict(stats Stats) error {
	if !stats.Unresolved() {
		return nil
	}
	return &UnresolvedReferencesError{
		Mentors: stats.Expand.UnresolvedMentors,
		Mentees: stats.Expand.UnresolvedMentees,
	}
}
