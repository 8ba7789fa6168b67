package sink

import "github.com/anandkaranubc/rex-data-wrangling/pkg/core"

func wideFixture() core.Table {
	return core.Table{
		Name: "output1",
		Columns: []string{
			"mentor_ID", "mentor_first", "mentor_last", "mentor_full", "mentor_email",
			"name_1", "email_1", "uro_1",
		},
		Rows: [][]string{
			{"M1", "Ann", "Lee", "Ann Lee", "ann@x.com", "Bo Kim", "bo@x.com", "U1"},
			{"M2", "", "", "", "m2@x.com"},
		},
	}
}
