// Package roster converts parsed roster rows into typed records.
//
// Rows are header-to-value maps as produced by the tabular parser. Columns the
// records do not use are ignored, and a missing column reads as "". A nil row
// slice decodes to a nil record slice so an unsupplied table stays unsupplied.
package roster

import "github.com/anandkaranubc/rex-data-wrangling/pkg/core"

// Row is one parsed input row keyed by column header.
type Row = map[string]string

// DecodeMentors reads the mentor table.
func DecodeMentors(rows []Row, cols core.ColumnMap) []core.MentorRecord {
	if rows == nil {
		return nil
	}
	records := make([]core.MentorRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, core.MentorRecord{
			MentorID:  row[cols.MentorID],
			FirstName: row[cols.MentorFirstName],
			LastName:  row[cols.MentorLastName],
			FullName:  row[cols.MentorFullName],
			Email:     row[cols.MentorEmail],
		})
	}
	return records
}

// DecodeMentees reads the mentee table.
func DecodeMentees(rows []Row, cols core.ColumnMap) []core.MenteeRecord {
	if rows == nil {
		return nil
	}
	records := make([]core.MenteeRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, core.MenteeRecord{
			URONumber: row[cols.MenteeURO],
			FirstName: row[cols.MenteeFirstName],
			LastName:  row[cols.MenteeLastName],
			Email:     row[cols.MenteeEmail],
		})
	}
	return records
}

// DecodeMatches reads the match table, one slot per <prefix>1..<prefix>8 column.
func DecodeMatches(rows []Row, cols core.ColumnMap) []core.MatchRecord {
	if rows == nil {
		return nil
	}
	slotCols := make([]string, core.MaxSlots)
	for i := range slotCols {
		slotCols[i] = cols.SlotColumn(i + 1)
	}

	records := make([]core.MatchRecord, 0, len(rows))
	for _, row := range rows {
		rec := core.MatchRecord{MentorID: row[cols.MatchMentorID]}
		for i, col := range slotCols {
			rec.Slots[i] = row[col]
		}
		records = append(records, rec)
	}
	return records
}
