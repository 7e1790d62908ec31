package columnar

import (
	json "github.com/goccy/go-json"

	"github.com/ajitpratap0/csvtable/pkg/errors"
)

// Field is one resolved schema entry.
type Field struct {
	Name  string `json:"name"`
	DType DType  `json:"-"`
}

// fieldJSON is the wire shape for a schema entry.
type fieldJSON struct {
	Name  string `json:"name"`
	DType string `json:"dtype"`
}

// Schema is the ordered set of column names and dtypes. Names are unique
// after mangling and the length is fixed once resolved.
type Schema struct {
	Fields []Field
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.Fields) }

// Names returns the column names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// FieldIndex returns the position of the named column, or -1.
func (s *Schema) FieldIndex(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// MarshalJSON renders the schema as a list of {name, dtype} objects.
func (s *Schema) MarshalJSON() ([]byte, error) {
	out := make([]fieldJSON, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = fieldJSON{Name: f.Name, DType: f.DType.String()}
	}
	return json.Marshal(out)
}

// Table is the terminal parse artifact: a schema plus one column per entry,
// all columns of equal length.
type Table struct {
	Schema  Schema
	Columns []Column

	// IndexCol is the position of the index column, or -1 when none is set.
	// The index column participates in parsing like any other; it is only
	// excluded from DataColumns.
	IndexCol int
}

// NewTable creates an empty table with one column builder per schema field.
func NewTable(schema Schema) *Table {
	cols := make([]Column, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = NewColumn(f.DType)
	}
	return &Table{Schema: schema, Columns: cols, IndexCol: -1}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Column returns the named column, or nil.
func (t *Table) Column(name string) Column {
	i := t.Schema.FieldIndex(name)
	if i < 0 {
		return nil
	}
	return t.Columns[i]
}

// DataColumns returns all columns except the index column.
func (t *Table) DataColumns() []Column {
	if t.IndexCol < 0 {
		return t.Columns
	}
	cols := make([]Column, 0, len(t.Columns)-1)
	for i, c := range t.Columns {
		if i != t.IndexCol {
			cols = append(cols, c)
		}
	}
	return cols
}

// Concat appends the rows of each subsequent table to the first, in order.
// All tables must share an identical schema. The inputs are consumed; the
// first table is returned.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errors.New(errors.ErrorTypeInternal, "no tables to concatenate")
	}

	head := tables[0]
	for _, t := range tables[1:] {
		if t.Schema.Len() != head.Schema.Len() {
			return nil, errors.Newf(errors.ErrorTypeSchema,
				"cannot concatenate: %d columns vs %d", t.Schema.Len(), head.Schema.Len())
		}
		for i, f := range t.Schema.Fields {
			hf := head.Schema.Fields[i]
			if f.Name != hf.Name || f.DType != hf.DType {
				return nil, errors.Newf(errors.ErrorTypeSchema,
					"cannot concatenate: column %d is %s/%s vs %s/%s",
					i, f.Name, f.DType, hf.Name, hf.DType)
			}
			if err := head.Columns[i].appendSame(t.Columns[i]); err != nil {
				return nil, err
			}
		}
	}
	return head, nil
}

// RowValues returns row i as a name-keyed map. Intended for previews and
// tests, not for bulk access.
func (t *Table) RowValues(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(t.Columns))
	for c, col := range t.Columns {
		row[t.Schema.Fields[c].Name] = col.Value(i)
	}
	return row
}

// MarshalJSON renders the table as {schema, num_rows, index_col}.
// Cell data is intentionally not included; tables can be large.
func (t *Table) MarshalJSON() ([]byte, error) {
	index := ""
	if t.IndexCol >= 0 {
		index = t.Schema.Fields[t.IndexCol].Name
	}
	return json.Marshal(struct {
		Schema   *Schema `json:"schema"`
		NumRows  int     `json:"num_rows"`
		IndexCol string  `json:"index_col,omitempty"`
	}{Schema: &t.Schema, NumRows: t.Len(), IndexCol: index})
}
