// Package report lays the wide and long reports out as exportable tables.
package report

import "github.com/anandkaranubc/rex-data-wrangling/pkg/core"

// Default report names, matching the file names the reports are delivered under.
const (
	DefaultWideName = "output1"
	DefaultLongName = "output2"
)

// WideColumns returns the wide report header for rows with at most k mentees.
func WideColumns(k int) []string {
	cols := make([]string, 0, len(core.WideBaseColumns)+3*k)
	cols = append(cols, core.WideBaseColumns...)
	for i := 1; i <= k; i++ {
		triple := core.SlotColumns(i)
		cols = append(cols, triple[:]...)
	}
	return cols
}

// WideTable lays out wide rows under the given name.
//
// The header is as wide as the row with the most mentees; each row carries only
// the name_i, email_i, uro_i cells of its own mentees.
func WideTable(rows []core.WideRow, name string) core.Table {
	maxSlots := 0
	for _, row := range rows {
		maxSlots = max(maxSlots, len(row.Mentees))
	}

	t := core.Table{
		Name:    name,
		Columns: WideColumns(maxSlots),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		cells := make([]string, 0, len(core.WideBaseColumns)+3*len(row.Mentees))
		cells = append(cells, row.MentorID, row.MentorFirst, row.MentorLast, row.MentorFull, row.MentorEmail)
		for _, slot := range row.Mentees {
			cells = append(cells, slot.Name, slot.Email, slot.URO)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

// LongTable lays out long rows under the given name.
func LongTable(rows []core.LongRow, name string) core.Table {
	t := core.Table{
		Name:    name,
		Columns: append([]string(nil), core.LongColumns...),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{row.MentorID, row.MentorEmail, row.URO, row.MenteeName, row.MenteeEmail})
	}
	return t
}
