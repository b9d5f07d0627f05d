// Package search holds the query model shared by the grid adapter and the search backend client.
package search

// Operator is a filter comparison, serialized with the backend's exact wire strings.
type Operator string

const (
	Equals      Operator = "equals"
	NotEquals   Operator = "notEquals"
	LessThan    Operator = "lessThan"
	GreaterThan Operator = "greaterThan"
	Contains    Operator = "contains"
	NotContains Operator = "notContains"
	StartsWith  Operator = "startsWith"
	EndsWith    Operator = "endsWith"
	In          Operator = "in"
	NotIn       Operator = "notIn"
	Between     Operator = "between" // needs value and valueTo
	Blank       Operator = "blank"   // no value
	NotBlank    Operator = "notBlank"
)

// Operators lists the full enumeration in wire order.
var Operators = []Operator{
	Equals, NotEquals, LessThan, GreaterThan,
	Contains, NotContains, StartsWith, EndsWith,
	In, NotIn, Between, Blank, NotBlank,
}

// Valid reports whether op belongs to the enumeration.
func (op Operator) Valid() bool {
	switch op {
	case Equals, NotEquals, LessThan, GreaterThan,
		Contains, NotContains, StartsWith, EndsWith,
		In, NotIn, Between, Blank, NotBlank:
		return true
	}
	return false
}

// NeedsValue reports whether a condition with this operator must carry a value.
func (op Operator) NeedsValue() bool {
	return op != Blank && op != NotBlank
}

// IsRange reports whether op expects a lower and an upper bound.
func (op Operator) IsRange() bool {
	return op == Between
}

// IsList reports whether op expects a list of values.
func (op Operator) IsList() bool {
	return op == In || op == NotIn
}

// IsTextual reports whether op only makes sense on text fields.
func (op Operator) IsTextual() bool {
	switch op {
	case Contains, NotContains, StartsWith, EndsWith:
		return true
	}
	return false
}

// IsOrdered reports whether op compares by ordering.
func (op Operator) IsOrdered() bool {
	switch op {
	case LessThan, GreaterThan, Between:
		return true
	}
	return false
}
