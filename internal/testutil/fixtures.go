package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixture CSVs: Ann Lee mentors Bo Kim and Cy Ng, whose match row leaves
// uro_2 empty so Cy compacts into the second output slot.
const (
	MentorsCSV = `Mentor_ID,Mentor_First_Name,Mentor_Last_Name,Mentor_Full_Name,Mentor_Email
M1,Ann,Lee,Ann Lee,ann@x.com
`
	MenteesCSV = `uro_number,first,last,email
U1,Bo,Kim,bo@x.com
U2,Cy,Ng,cy@x.com
`
	MatchesCSV = `mentor_ID,uro_1,uro_2,uro_3,uro_4,uro_5,uro_6,uro_7,uro_8
M1,U1,,U2,,,,,
`
	// UnresolvedMatchesCSV references an unknown mentor and an unknown mentee.
	UnresolvedMatchesCSV = `mentor_ID,uro_1,uro_2
M1,U1,U9
M7,U2,
`
)

// Inputs are the paths of fixture files written by WriteInputs.
type Inputs struct {
	Dir     string
	Mentors string
	Mentees string
	Matches string
}

// WriteInputs writes the fixture CSVs into a fresh temp directory.
func WriteInputs(t testing.TB) Inputs {
	t.Helper()
	return WriteInputsWith(t, MatchesCSV)
}

// WriteInputsWith writes the fixture rosters with the given match table.
func WriteInputsWith(t testing.TB, matches string) Inputs {
	t.Helper()
	dir := t.TempDir()
	in := Inputs{
		Dir:     dir,
		Mentors: filepath.Join(dir, "mentors.csv"),
		Mentees: filepath.Join(dir, "mentees.csv"),
		Matches: filepath.Join(dir, "matches.csv"),
	}
	write(t, in.Mentors, MentorsCSV)
	write(t, in.Mentees, MenteesCSV)
	write(t, in.Matches, matches)
	return in
}

func write(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
