package engine

// expand.go - match table expansion into the wide report

import "github.com/anandkaranubc/rex-data-wrangling/pkg/core"

// ExpandStats contains aggregate statistics about a match expansion.
type ExpandStats struct {
	Matches     int `json:"matches"`
	Assignments int `json:"assignments"`

	// UnresolvedMentors lists mentor ids with no mentor record, first-seen order.
	UnresolvedMentors []string `json:"unresolved_mentors"`
	// UnresolvedMentees lists uro numbers with no mentee record, first-seen order.
	UnresolvedMentees []string `json:"unresolved_mentees"`
}

// IsPopulated reports whether a slot value references a mentee.
// Only the empty string is unpopulated; "0" and whitespace count as references.
func IsPopulated(slot string) bool {
	return slot != ""
}

// Expand produces one WideRow per match record, preserving input order.
//
// Unknown mentor ids keep the row with empty contact fields. Populated slots are
// read in order 1..MaxSlots and compacted, so output slot numbers are dense no
// matter which input positions were empty. Unknown uro numbers keep the uro with
// an empty name and email.
func Expand(matches []core.MatchRecord, mentors *MentorIndex, mentees *MenteeIndex) ([]core.WideRow, ExpandStats) {
	rows := make([]core.WideRow, 0, len(matches))
	stats := ExpandStats{
		Matches:           len(matches),
		UnresolvedMentors: []string{},
		UnresolvedMentees: []string{},
	}
	seenMentors := make(map[string]struct{})
	seenMentees := make(map[string]struct{})

	for _, match := range matches {
		mentor, ok := mentors.Lookup(match.MentorID)
		if !ok {
			if _, seen := seenMentors[match.MentorID]; !seen {
				seenMentors[match.MentorID] = struct{}{}
				stats.UnresolvedMentors = append(stats.UnresolvedMentors, match.MentorID)
			}
		}

		row := core.WideRow{
			MentorID:    match.MentorID,
			MentorFirst: mentor.First,
			MentorLast:  mentor.Last,
			MentorFull:  mentor.Full,
			MentorEmail: mentor.Email,
			Mentees:     make([]core.MenteeSlot, 0, populatedSlots(match)),
		}

		for _, uro := range match.Slots {
			if !IsPopulated(uro) {
				continue
			}
			mentee, ok := mentees.Lookup(uro)
			if !ok {
				if _, seen := seenMentees[uro]; !seen {
					seenMentees[uro] = struct{}{}
					stats.UnresolvedMentees = append(stats.UnresolvedMentees, uro)
				}
			}
			row.Mentees = append(row.Mentees, core.MenteeSlot{
				Name:  mentee.FullName,
				Email: mentee.Email,
				URO:   uro,
			})
		}

		stats.Assignments += len(row.Mentees)
		rows = append(rows, row)
	}

	return rows, stats
}

func populatedSlots(match core.MatchRecord) int {
	n := 0
	for _, uro := range match.Slots {
		if IsPopulated(uro) {
			n++
		}
	}
	return n
}
