package core

// MaxSlots is the number of mentee reference columns on a match row.
const MaxSlots = 8

// MentorRecord is one row of the mentor roster.
type MentorRecord struct {
	MentorID  string `json:"mentor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
}

// MenteeRecord is one row of the mentee roster.
type MenteeRecord struct {
	URONumber string `json:"uro_number"`
	FirstName string `json:"first"`
	LastName  string `json:"last"`
	Email     string `json:"email"`
}

// FullName joins first and last name with a single space.
// Empty parts are kept as they are, so an unnamed mentee yields " ".
func (m MenteeRecord) FullName() string {
	return m.FirstName + " " + m.LastName
}

// MatchRecord assigns up to MaxSlots mentees to one mentor.
// Slot position only carries input order; an empty slot holds "".
type MatchRecord struct {
	MentorID string           `json:"mentor_id"`
	Slots    [MaxSlots]string `json:"slots"`
}

// MenteeSlot is one compacted mentee entry of a WideRow.
type MenteeSlot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	URO   string `json:"uro"`
}

// WideRow is the per-mentor report row.
// Mentees holds only populated slots, numbered 1..len(Mentees) on export.
type WideRow struct {
	MentorID    string       `json:"mentor_ID"`
	MentorFirst string       `json:"mentor_first"`
	MentorLast  string       `json:"mentor_last"`
	MentorFull  string       `json:"mentor_full"`
	MentorEmail string       `json:"mentor_email"`
	Mentees     []MenteeSlot `json:"mentees"`
}

// LongRow is the per-assignment report row.
type LongRow struct {
	MentorID    string `json:"mentor_ID"`
	MentorEmail string `json:"mentor_email"`
	URO         string `json:"uro"`
	MenteeName  string `json:"mentee_name"`
	MenteeEmail string `json:"mentee_email"`
}
