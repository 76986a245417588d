package model

import "fmt"

// Table is a named collection of columns. Column order is declaration order
// and is significant: the outbound translator maps it onto spreadsheet
// columns deterministically.
type Table struct {
	Name    string
	Columns []*Column

	index map[string]*Column
}

// NewTable returns an empty table with the given name.
func NewTable(name string) *Table {
	return &Table{Name: name, index: make(map[string]*Column)}
}

// AddColumn appends a column, rejecting duplicates.
func (t *Table) AddColumn(c *Column) error {
	if t.index == nil {
		t.index = make(map[string]*Column)
	}
	if _, ok := t.index[c.Name]; ok {
		return fmt.Errorf("table %q: duplicate column %q", t.Name, c.Name)
	}
	t.Columns = append(t.Columns, c)
	t.index[c.Name] = c
	return nil
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) *Column {
	return t.index[name]
}

// RowCount returns the table's row count, defined by its literal columns.
// All literal columns must agree; a table of only derived columns has the
// row count of whichever derived column was computed first, or zero.
func (t *Table) RowCount() (int, error) {
	n := -1
	for _, c := range t.Columns {
		if c.IsDerived() && c.Values == nil {
			continue
		}
		if n == -1 {
			n = len(c.Values)
			continue
		}
		if len(c.Values) != n {
			return 0, fmt.Errorf("table %q: column %q has %d rows, want %d",
				t.Name, c.Name, len(c.Values), n)
		}
	}
	if n == -1 {
		n = 0
	}
	return n, nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable(t.Name)
	for _, c := range t.Columns {
		// AddColumn cannot fail here: source names are already unique.
		_ = out.AddColumn(c.Clone())
	}
	return out
}
