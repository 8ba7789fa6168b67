package core

import "strconv"

// ColumnMap names the input columns read from each roster.
// The zero value is not useful; start from DefaultColumns.
type ColumnMap struct {
	MentorID        string `koanf:"mentor_id" json:"mentor_id"`
	MentorFirstName string `koanf:"mentor_first_name" json:"mentor_first_name"`
	MentorLastName  string `koanf:"mentor_last_name" json:"mentor_last_name"`
	MentorFullName  string `koanf:"mentor_full_name" json:"mentor_full_name"`
	MentorEmail     string `koanf:"mentor_email" json:"mentor_email"`

	MenteeURO       string `koanf:"mentee_uro" json:"mentee_uro"`
	MenteeFirstName string `koanf:"mentee_first_name" json:"mentee_first_name"`
	MenteeLastName  string `koanf:"mentee_last_name" json:"mentee_last_name"`
	MenteeEmail     string `koanf:"mentee_email" json:"mentee_email"`

	MatchMentorID   string `koanf:"match_mentor_id" json:"match_mentor_id"`
	MatchSlotPrefix string `koanf:"match_slot_prefix" json:"match_slot_prefix"`
}

// DefaultColumns returns the column names used by the roster exports.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		MentorID:        "Mentor_ID",
		MentorFirstName: "Mentor_First_Name",
		MentorLastName:  "Mentor_Last_Name",
		MentorFullName:  "Mentor_Full_Name",
		MentorEmail:     "Mentor_Email",

		MenteeURO:       "uro_number",
		MenteeFirstName: "first",
		MenteeLastName:  "last",
		MenteeEmail:     "email",

		MatchMentorID:   "mentor_ID",
		MatchSlotPrefix: "uro_",
	}
}

// SlotColumn returns the match-table column for slot i (1-based).
func (c ColumnMap) SlotColumn(i int) string {
	return c.MatchSlotPrefix + strconv.Itoa(i)
}

// WithDefaults fills every empty field from DefaultColumns.
func (c ColumnMap) WithDefaults() ColumnMap {
	d := DefaultColumns()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&c.MentorID, d.MentorID)
	fill(&c.MentorFirstName, d.MentorFirstName)
	fill(&c.MentorLastName, d.MentorLastName)
	fill(&c.MentorFullName, d.MentorFullName)
	fill(&c.MentorEmail, d.MentorEmail)
	fill(&c.MenteeURO, d.MenteeURO)
	fill(&c.MenteeFirstName, d.MenteeFirstName)
	fill(&c.MenteeLastName, d.MenteeLastName)
	fill(&c.MenteeEmail, d.MenteeEmail)
	fill(&c.MatchMentorID, d.MatchMentorID)
	fill(&c.MatchSlotPrefix, d.MatchSlotPrefix)
	return c
}

// Report column names.
const (
	ColMentorID    = "mentor_ID"
	ColMentorFirst = "mentor_first"
	ColMentorLast  = "mentor_last"
	ColMentorFull  = "mentor_full"
	ColMentorEmail = "mentor_email"

	ColURO         = "uro"
	ColMenteeName  = "mentee_name"
	ColMenteeEmail = "mentee_email"
)

// WideBaseColumns are the mentor columns that lead every wide report row.
var WideBaseColumns = []string{ColMentorID, ColMentorFirst, ColMentorLast, ColMentorFull, ColMentorEmail}

// LongColumns are the columns of the long report, in order.
var LongColumns = []string{ColMentorID, ColMentorEmail, ColURO, ColMenteeName, ColMenteeEmail}

// SlotColumns returns the name_i, email_i, uro_i column triple for output slot i (1-based).
func SlotColumns(i int) [3]string {
	n := strconv.Itoa(i)
	return [3]string{"name_" + n, "email_" + n, "uro_" + n}
}
