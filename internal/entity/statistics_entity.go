package entity

// StatRecord is one row pulled from the statistics warehouse. Columns
// preserves the select order because user-facing rendering shows the
// first N columns of a table.
type StatRecord struct {
	SourceDB    string
	SourceTable string
	Columns     []string
	Values      map[string]any
	IsSample    bool
}

// Get returns the value for a column, nil when absent.
func (r StatRecord) Get(column string) any {
	if r.Values == nil {
		return nil
	}
	return r.Values[column]
}
