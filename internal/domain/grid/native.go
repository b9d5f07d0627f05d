// Package grid models the data-grid widget side of the search contract: its native
// per-column filter state, its row-window requests, and the mapping into search.Query terms.
package grid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"gridsearch/internal/domain/search"
)

// Kind is the condition type a native filter widget reports.
type Kind string

const (
	KindEquals      Kind = "equals"
	KindNotEqual    Kind = "notEqual"
	KindLessThan    Kind = "lessThan"
	KindGreaterThan Kind = "greaterThan"
	KindContains    Kind = "contains"
	KindNotContains Kind = "notContains"
	KindStartsWith  Kind = "startsWith"
	KindEndsWith    Kind = "endsWith"
	KindBlank       Kind = "blank"
	KindNotBlank    Kind = "notBlank"
	KindInRange     Kind = "inRange"
)

// kindOperators is the native kind -> wire operator table.
var kindOperators = map[Kind]search.Operator{
	KindEquals:      search.Equals,
	KindNotEqual:    search.NotEquals,
	KindLessThan:    search.LessThan,
	KindGreaterThan: search.GreaterThan,
	KindContains:    search.Contains,
	KindNotContains: search.NotContains,
	KindStartsWith:  search.StartsWith,
	KindEndsWith:    search.EndsWith,
	KindBlank:       search.Blank,
	KindNotBlank:    search.NotBlank,
	KindInRange:     search.Between,
}

// Operator returns the wire operator for k.
func (k Kind) Operator() (search.Operator, bool) {
	op, ok := kindOperators[k]
	return op, ok
}

// NativeFilter is one column's filter state. The set of variants is closed:
// ValueFilter, DateFilter, SetFilter and Unrecognized.
type NativeFilter interface {
	nativeFilter()
}

// ValueFilter is a text or number condition using the generic filter/filterTo pair.
type ValueFilter struct {
	FilterType string
	Kind       Kind
	Value      any
	ValueTo    any
}

// DateFilter is a date condition using the dateFrom/dateTo pair.
type DateFilter struct {
	Kind Kind
	From any
	To   any
}

// SetFilter is a pick-list of accepted values.
type SetFilter struct {
	Values []any
}

// TypeMalformed marks an Unrecognized state whose fields have the wrong JSON types.
const TypeMalformed = "malformed"

// Unrecognized is a state whose kind has no operator mapping, including
// combined (AND/OR) conditions and entries with mistyped fields.
type Unrecognized struct {
	FilterType string
	Type       string
}

func (ValueFilter) nativeFilter()  {}
func (DateFilter) nativeFilter()   {}
func (SetFilter) nativeFilter()    {}
func (Unrecognized) nativeFilter() {}

// FilterModel maps column keys to their native filter state.
type FilterModel map[string]NativeFilter

// Keys returns the column keys in sorted order.
func (m FilterModel) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalJSON decodes the widget's raw filter model. Null entries are kept as
// cleared (nil) states; a mistyped entry becomes Unrecognized without affecting the others.
func (m *FilterModel) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(FilterModel, len(raw))
	for key, msg := range raw {
		f, err := ParseFilter(msg)
		if err != nil {
			return fmt.Errorf("filter %s: %w", key, err)
		}
		out[key] = f
	}
	*m = out
	return nil
}

type rawFilter struct {
	FilterType string            `json:"filterType"`
	Type       string            `json:"type"`
	Filter     json.RawMessage   `json:"filter"`
	FilterTo   json.RawMessage   `json:"filterTo"`
	DateFrom   json.RawMessage   `json:"dateFrom"`
	DateTo     json.RawMessage   `json:"dateTo"`
	Values     []json.RawMessage `json:"values"`
	Operator   string            `json:"operator"`
	Conditions json.RawMessage   `json:"conditions"`
}

// ParseFilter decodes one native filter state. An absent or null state yields nil.
// Only syntactically invalid JSON is an error; well-formed JSON of the wrong shape
// is reported as Unrecognized.
func ParseFilter(data json.RawMessage) (NativeFilter, error) {
	if isNull(data) {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid filter JSON: %s", bytes.TrimSpace(data))
	}
	var r rawFilter
	if err := json.Unmarshal(data, &r); err != nil {
		return malformed(data), nil
	}

	if r.Operator != "" && len(r.Conditions) > 0 {
		return Unrecognized{FilterType: r.FilterType, Type: r.Operator + " combination"}, nil
	}
	if r.Type == "" && r.FilterType == "set" {
		values := make([]any, 0, len(r.Values))
		for _, v := range r.Values {
			if s := scalar(v); s != nil {
				values = append(values, s)
			}
		}
		return SetFilter{Values: values}, nil
	}

	kind := Kind(r.Type)
	if _, ok := kind.Operator(); !ok {
		return Unrecognized{FilterType: r.FilterType, Type: r.Type}, nil
	}

	if r.FilterType == "date" || len(r.DateFrom) > 0 || len(r.DateTo) > 0 {
		return DateFilter{
			Kind: kind,
			From: firstPresent(r.DateFrom, r.Filter),
			To:   firstPresent(r.DateTo, r.FilterTo),
		}, nil
	}
	return ValueFilter{
		FilterType: r.FilterType,
		Kind:       kind,
		Value:      scalar(r.Filter),
		ValueTo:    scalar(r.FilterTo),
	}, nil
}

// malformed keeps the entry's filterType, when it is a string, for diagnostics.
func malformed(data json.RawMessage) Unrecognized {
	u := Unrecognized{Type: TypeMalformed}
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) == nil {
		if s, ok := scalar(fields["filterType"]).(string); ok {
			u.FilterType = s
		}
	}
	return u
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// firstPresent returns the first value that is neither null nor an empty string.
func firstPresent(candidates ...json.RawMessage) any {
	for _, c := range candidates {
		v := scalar(c)
		if v == nil || v == "" {
			continue
		}
		return v
	}
	return nil
}

// scalar converts a raw JSON value: strings stay strings, numbers become
// search.Number, booleans stay booleans, null is nil. Anything else is kept verbatim.
func scalar(data json.RawMessage) any {
	if isNull(data) {
		return nil
	}
	trimmed := bytes.TrimSpace(data)
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err == nil {
			return b
		}
	case '{', '[':
		return json.RawMessage(trimmed)
	default:
		if n, err := search.NewNumber(string(trimmed)); err == nil {
			return n
		}
	}
	return json.RawMessage(trimmed)
}
