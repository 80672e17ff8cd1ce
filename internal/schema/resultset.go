package schema

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
)

// ResultSet is the tabular block used by the older stats endpoints: a
// header row plus positional rows.
type ResultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (r ResultSet) validate(path string, known map[string][]string) error {
	if want, ok := known[r.Name]; ok && !slices.Equal(r.Headers, want) {
		return fmt.Errorf("%s headers %v, want %v", path, r.Headers, want)
	}
	for i, row := range r.RowSet {
		if len(row) != len(r.Headers) {
			return fmt.Errorf("%s.rowSet[%d] has %d values for %d headers", path, i, len(row), len(r.Headers))
		}
	}
	return nil
}

// Rows returns every row keyed by header.
func (r ResultSet) Rows() []map[string]any {
	out := make([]map[string]any, 0, len(r.RowSet))
	for _, row := range r.RowSet {
		m := make(map[string]any, len(r.Headers))
		for i, h := range r.Headers {
			if i < len(row) {
				m[h] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

func findResultSet(sets []ResultSet, name string) (ResultSet, bool) {
	for _, s := range sets {
		if s.Name == name {
			return s, true
		}
	}
	return ResultSet{}, false
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func cellInt(v any) int64 {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(x)
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	}
	return 0
}
