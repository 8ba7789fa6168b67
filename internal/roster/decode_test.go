package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
)

func TestDecodeMentors(t *testing.T) {
	rows := []Row{
		{
			"Mentor_ID":         "M1",
			"Mentor_First_Name": "Ann",
			"Mentor_Last_Name":  "Lee",
			"Mentor_Full_Name":  "Ann Lee",
			"Mentor_Email":      "ann@x.com",
			"Notes":             "ignored",
		},
		{"Mentor_ID": "M2"},
	}

	got := DecodeMentors(rows, core.DefaultColumns())
	assert.Equal(t, []core.MentorRecord{
		{MentorID: "M1", FirstName: "Ann", LastName: "Lee", FullName: "Ann Lee", Email: "ann@x.com"},
		{MentorID: "M2"},
	}, got)
}

func TestDecodeMentees(t *testing.T) {
	rows := []Row{{"uro_number": "U1", "first": "Bo", "last": "Kim", "email": "bo@x.com"}}
	got := DecodeMentees(rows, core.DefaultColumns())
	require.Len(t, got, 1)
	assert.Equal(t, "Bo Kim", got[0].FullName())
	assert.Equal(t, "bo@x.com", got[0].Email)
}

func TestDecodeMatches(t *testing.T) {
	rows := []Row{
		{"mentor_ID": "M1", "uro_1": "U1", "uro_2": "", "uro_3": "U2", "uro_9": "U9"},
	}
	got := DecodeMatches(rows, core.DefaultColumns())
	require.Len(t, got, 1)
	assert.Equal(t, "M1", got[0].MentorID)
	assert.Equal(t, [core.MaxSlots]string{"U1", "", "U2"}, got[0].Slots, "columns past slot 8 are ignored")
}

func TestDecodeMatches_CustomColumns(t *testing.T) {
	cols := core.ColumnMap{MatchMentorID: "mentor", MatchSlotPrefix: "mentee"}.WithDefaults()
	got := DecodeMatches([]Row{{"mentor": "M1", "mentee2": "U2"}}, cols)
	require.Len(t, got, 1)
	assert.Equal(t, "M1", got[0].MentorID)
	assert.Equal(t, "U2", got[0].Slots[1])
	assert.Equal(t, "uro_number", cols.MenteeURO, "unset columns fall back to defaults")
}

func TestDecode_NilAndEmpty(t *testing.T) {
	cols := core.DefaultColumns()

	assert.Nil(t, DecodeMentors(nil, cols))
	assert.Nil(t, DecodeMentees(nil, cols))
	assert.Nil(t, DecodeMatches(nil, cols))

	assert.NotNil(t, DecodeMentors([]Row{}, cols))
	assert.NotNil(t, DecodeMentees([]Row{}, cols))
	assert.NotNil(t, DecodeMatches([]Row{}, cols))
}
