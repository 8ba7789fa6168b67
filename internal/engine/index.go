package engine

// index.go - key-indexed lookups over the two reference rosters

import "github.com/anandkaranubc/rex-data-wrangling/pkg/core"

// MentorInfo is the contact data indexed under a mentor id.
type MentorInfo struct {
	First string
	Last  string
	Full  string
	Email string
}

// MenteeInfo is the contact data indexed under a uro number.
type MenteeInfo struct {
	FullName string
	Email    string
}

// IndexStats contains aggregate statistics about an index build.
type IndexStats struct {
	Records    int `json:"records"`
	Unique     int `json:"unique"`
	Duplicates int `json:"duplicates"`
}

// MentorIndex provides lookup of mentor contact data by mentor id.
type MentorIndex struct {
	byID  map[string]MentorInfo
	Stats IndexStats
}

// MenteeIndex provides lookup of mentee contact data by uro number.
type MenteeIndex struct {
	byURO map[string]MenteeInfo
	Stats IndexStats
}

// BuildMentorIndex indexes mentor records by MentorID in one pass.
// A repeated id replaces the earlier entry (last write wins).
func BuildMentorIndex(records []core.MentorRecord) *MentorIndex {
	index := &MentorIndex{
		byID: make(map[string]MentorInfo, len(records)),
	}

	for _, rec := range records {
		if _, exists := index.byID[rec.MentorID]; exists {
			index.Stats.Duplicates++
		}
		index.byID[rec.MentorID] = MentorInfo{
			First: rec.FirstName,
			Last:  rec.LastName,
			Full:  rec.FullName,
			Email: rec.Email,
		}
	}

	index.Stats.Records = len(records)
	index.Stats.Unique = len(index.byID)
	return index
}

// BuildMenteeIndex indexes mentee records by URONumber in one pass.
// The full name is computed here; a repeated uro replaces the earlier entry.
func BuildMenteeIndex(records []core.MenteeRecord) *MenteeIndex {
	index := &MenteeIndex{
		byURO: make(map[string]MenteeInfo, len(records)),
	}

	for _, rec := range records {
		if _, exists := index.byURO[rec.URONumber]; exists {
			index.Stats.Duplicates++
		}
		index.byURO[rec.URONumber] = MenteeInfo{
			FullName: rec.FullName(),
			Email:    rec.Email,
		}
	}

	index.Stats.Records = len(records)
	index.Stats.Unique = len(index.byURO)
	return index
}

// Lookup returns the mentor indexed under id.
func (i *MentorIndex) Lookup(id string) (MentorInfo, bool) {
	info, ok := i.byID[id]
	return info, ok
}

// Len returns the number of distinct mentor ids.
func (i *MentorIndex) Len() int {
	return len(i.byID)
}

// Lookup returns the mentee indexed under uro.
func (i *MenteeIndex) Lookup(uro string) (MenteeInfo, bool) {
	info, ok := i.byURO[uro]
	return info, ok
}

// Len returns the number of distinct uro numbers.
func (i *MenteeIndex) Len() int {
	return len(i.byURO)
}
