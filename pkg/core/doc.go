// Package core defines the shared language of the rex system.
//
// This package contains:
//   - Input records (MentorRecord, MenteeRecord, MatchRecord)
//   - Derived report rows (WideRow, MenteeSlot, LongRow)
//   - Column naming (ColumnMap, report column names)
//   - The tabular hand-off type used by sinks (Table)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
