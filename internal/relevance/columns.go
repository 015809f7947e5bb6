package relevance

import "strings"

// NormalizeColumns trims and lowercases every header name.
func NormalizeColumns(columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return out
}

// ResolveSearchTermColumn returns the index of search_term after
// normalisation. When several headers normalise to it, the first wins.
func ResolveSearchTermColumn(columns []string) (int, error) {
	for i, col := range NormalizeColumns(columns) {
		if col == SearchTermColumn {
			return i, nil
		}
	}
	return -1, &SchemaError{Column: SearchTermColumn}
}

// Normalize returns t with normalised headers, or a *SchemaError when
// search_term is absent. Rows are shared, not copied.
func Normalize(t Table) (Table, error) {
	if _, err := ResolveSearchTermColumn(t.Columns); err != nil {
		return Table{}, err
	}
	return Table{Columns: NormalizeColumns(t.Columns), Rows: t.Rows}, nil
}
