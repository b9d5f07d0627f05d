package grid

import "gridsearch/internal/domain/search"

// Filter widgets the grid offers per column.
const (
	TextColumnFilter   = "agTextColumnFilter"
	NumberColumnFilter = "agNumberColumnFilter"
	DateColumnFilter   = "agDateColumnFilter"
	SetColumnFilter    = "agSetColumnFilter"
)

// ColumnDef tells the widget which filter widget to attach to a field.
// The widget choice decides which native filter states come back.
type ColumnDef struct {
	Field     string            `json:"field"`
	Filter    string            `json:"filter,omitempty"`
	Sortable  bool              `json:"sortable"`
	Nullable  bool              `json:"nullable"`
	Operators []search.Operator `json:"operators"`
}

// Columns derives one column per descriptor, keeping descriptor order.
func Columns(descriptors []search.FieldDescriptor) []ColumnDef {
	cols := make([]ColumnDef, 0, len(descriptors))
	for _, d := range descriptors {
		cols = append(cols, ColumnDef{
			Field:     d.Key,
			Filter:    filterWidget(d.FieldType),
			Sortable:  true,
			Nullable:  d.Nullable,
			Operators: d.AvailableOperators,
		})
	}
	return cols
}

// ColumnsForRow lays out one column per row field. Fields with a descriptor get
// its filter widget; the rest are shown without filter and sorting.
// Descriptors naming no row field are appended at the end.
func ColumnsForRow(fields []string, descriptors []search.FieldDescriptor) []ColumnDef {
	byKey := make(map[string]ColumnDef, len(descriptors))
	for _, col := range Columns(descriptors) {
		byKey[col.Field] = col
	}

	cols := make([]ColumnDef, 0, len(fields)+len(descriptors))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[f] = true
		if col, ok := byKey[f]; ok {
			cols = append(cols, col)
			continue
		}
		cols = append(cols, ColumnDef{Field: f})
	}
	for _, d := range descriptors {
		if !seen[d.Key] {
			cols = append(cols, byKey[d.Key])
		}
	}
	return cols
}

func filterWidget(t search.FieldType) string {
	switch t {
	case search.FieldNumber:
		return NumberColumnFilter
	case search.FieldDate:
		return DateColumnFilter
	case search.FieldBoolean:
		return SetColumnFilter
	default:
		return TextColumnFilter
	}
}
