// Package source reads header-labelled tabular text into row maps.
package source

import (
	"io"
)

// ParseWarning represents a non-fatal issue encountered while parsing.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseResult contains the parsed records alongside any warnings.
type ParseResult struct {
	Headers  []string            `json:"headers"`
	Records  []map[string]string `json:"records"`
	Warnings []ParseWarning      `json:"warnings"`
}

// Rows returns the parsed records, or nil for a nil result.
func (r *ParseResult) Rows() []map[string]string {
	if r == nil {
		return nil
	}
	return r.Records
}

// Parser turns a header-labelled table into row maps.
type Parser interface {
	Parse(r io.Reader) (*ParseResult, error)
}
