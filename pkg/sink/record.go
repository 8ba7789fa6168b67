package sink

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/anandkaranubc/rex-data-wrangling/pkg/core"
)

// Record is one table row keyed by column name, in column order.
// Cells a ragged row does not carry are left out.
type Record struct {
	Keys   []string
	Values []string
}

// Records converts a table into keyed rows. The result is never nil.
func Records(t core.Table) []Record {
	out := make([]Record, 0, len(t.Rows))
	for r := range t.Rows {
		var rec Record
		for c, col := range t.Columns {
			v, ok := t.Cell(r, c)
			if !ok {
				break
			}
			rec.Keys = append(rec.Keys, col)
			rec.Values = append(rec.Values, v)
		}
		out = append(out, rec)
	}
	return out
}

// Get returns the value for key.
func (r Record) Get(key string) (string, bool) {
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i], true
		}
	}
	return "", false
}

// MarshalJSON writes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML writes the record as a mapping with keys in column order.
// Every value is tagged as a string so "0" or "true" survive a round trip.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, k := range r.Keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Values[i]},
		)
	}
	return node, nil
}
