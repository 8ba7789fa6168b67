package engine

// pivot.go - wide report to long report

import "github.com/anandkaranubc/rex-data-wrangling/pkg/core"

// Pivot flattens wide rows into one LongRow per mentee slot.
// Output follows wide row order, then slot order. Rows without mentees add nothing.
func Pivot(wide []core.WideRow) []core.LongRow {
	total := 0
	for _, row := range wide {
		total += len(row.Mentees)
	}

	long := make([]core.LongRow, 0, total)
	for _, row := range wide {
		for _, slot := range row.Mentees {
			long = append(long, core.LongRow{
				MentorID:    row.MentorID,
				MentorEmail: row.MentorEmail,
				URO:         slot.URO,
				MenteeName:  slot.Name,
				MenteeEmail: slot.Email,
			})
		}
	}
	return long
}
