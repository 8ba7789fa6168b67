// Package engine builds the mentor match reports.
//
// The pipeline runs in three synchronous steps: index the mentor and mentee
// rosters, expand the match table into the wide report, and pivot the wide report
// into the long report. Every step is a pure function of its inputs.
package engine

import (
	"slices"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
)

// Result holds both reports of one processing run.
type Result struct {
	Wide  []core.WideRow `json:"wide"`
	Long  []core.LongRow `json:"long"`
	Stats Stats          `json:"stats"`
}

// Stats aggregates the statistics of every pipeline step.
type Stats struct {
	Mentors IndexStats  `json:"mentors"`
	Mentees IndexStats  `json:"mentees"`
	Expand  ExpandStats `json:"expand"`
}

// Unresolved reports whether any mentor id or uro number had no matching record.
func (s Stats) Unresolved() bool {
	return len(s.Expand.UnresolvedMentors) > 0 || len(s.Expand.UnresolvedMentees) > 0
}

// Pipeline is an immutable value holding the three inputs and, once processed,
// the reports built from them. Methods return new values and never mutate the
// receiver. A nil input means that table has not been supplied.
type Pipeline struct {
	mentors []core.MentorRecord
	mentees []core.MenteeRecord
	matches []core.MatchRecord
	result  *Result
}

// New returns a pipeline awaiting all three inputs.
func New() Pipeline {
	return Pipeline{}
}

// WithMentors returns a copy of p holding a snapshot of records as the mentor table.
// Any previously held result is dropped.
func (p Pipeline) WithMentors(records []core.MentorRecord) Pipeline {
	p.mentors = slices.Clone(records)
	p.result = nil
	return p
}

// WithMentees returns a copy of p holding a snapshot of records as the mentee table.
// Any previously held result is dropped.
func (p Pipeline) WithMentees(records []core.MenteeRecord) Pipeline {
	p.mentees = slices.Clone(records)
	p.result = nil
	return p
}

// WithMatches returns a copy of p holding a snapshot of records as the match table.
// Any previously held result is dropped.
func (p Pipeline) WithMatches(records []core.MatchRecord) Pipeline {
	p.matches = slices.Clone(records)
	p.result = nil
	return p
}

// State returns the lifecycle state of p.
func (p Pipeline) State() State {
	switch {
	case p.mentors == nil || p.mentees == nil || p.matches == nil:
		return StateAwaitingInputs
	case p.result == nil:
		return StateReady
	default:
		return StateProcessed
	}
}

// Missing returns the names of the unsupplied tables ("mentors", "mentees", "matches").
func (p Pipeline) Missing() []string {
	var missing []string
	if p.mentors == nil {
		missing = append(missing, TableMentors)
	}
	if p.mentees == nil {
		missing = append(missing, TableMentees)
	}
	if p.matches == nil {
		missing = append(missing, TableMatches)
	}
	return missing
}

// Process runs the full pipeline over the current inputs.
//
// When an input is missing nothing is computed: p is returned unchanged with
// false. Otherwise the returned pipeline is Processed and true is returned.
// Processing an already processed pipeline recomputes everything.
func (p Pipeline) Process() (Pipeline, bool) {
	if p.State() == StateAwaitingInputs {
		return p, false
	}
	res := Run(p.mentors, p.mentees, p.matches)
	p.result = &res
	return p, true
}

// Result returns the reports held by a processed pipeline.
func (p Pipeline) Result() (Result, bool) {
	if p.result == nil {
		return Result{}, false
	}
	return *p.result, true
}

// Run builds both reports from the three tables in one synchronous pass.
func Run(mentors []core.MentorRecord, mentees []core.MenteeRecord, matches []core.MatchRecord) Result {
	mentorIndex := BuildMentorIndex(mentors)
	menteeIndex := BuildMenteeIndex(mentees)

	wide, expandStats := Expand(matches, mentorIndex, menteeIndex)
	long := Pivot(wide)

	return Result{
		Wide: wide,
		Long: long,
		Stats: Stats{
			Mentors: mentorIndex.Stats,
			Mentees: menteeIndex.Stats,
			Expand:  expandStats,
		},
	}
}
