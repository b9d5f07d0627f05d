// Package metadata derives grid column metadata from Go row types.
package metadata

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"gridsearch/internal/domain/search"
)

// RowDef describes the fields a row type exposes to a grid.
type RowDef struct {
	Name   string     `json:"name"`
	Fields []FieldDef `json:"fields"`

	typ reflect.Type
}

// FieldDef describes one field of a row.
type FieldDef struct {
	Name     string           `json:"name"`
	Label    string           `json:"label"`
	Type     search.FieldType `json:"type"`
	ReadOnly bool             `json:"readOnly,omitempty"`

	index []int
}

var timeType = reflect.TypeOf(time.Time{})

// Inspect analyzes a struct (or pointer to struct) and returns its RowDef.
// Fields tagged json:"-" and unexported fields are skipped; embedded structs are flattened.
func Inspect(row any, name string) RowDef {
	t := reflect.TypeOf(row)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name == "" {
		name = t.Name()
	}

	def := RowDef{Name: name, typ: t}
	inspectStruct(t, nil, &def)
	return def
}

func inspectStruct(t reflect.Type, parent []int, def *RowDef) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			inspectStruct(field.Type, index, def)
			continue
		}
		if field.PkgPath != "" {
			continue
		}

		name := jsonName(field)
		if name == "-" {
			continue
		}

		def.Fields = append(def.Fields, FieldDef{
			Name:     name,
			Label:    guessLabel(field.Name),
			Type:     mapFieldType(field),
			ReadOnly: isReadOnly(field),
			index:    index,
		})
	}
}

// Keys returns the JSON names of all fields in declaration order.
func (d RowDef) Keys() []string {
	keys := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		keys[i] = f.Name
	}
	return keys
}

// Labels returns the human readable field labels in declaration order.
func (d RowDef) Labels() []string {
	labels := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		labels[i] = f.Label
	}
	return labels
}

// Field looks a field up by its JSON name.
func (d RowDef) Field(name string) (FieldDef, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// Unknown returns the descriptor keys that name no field of the row.
func (d RowDef) Unknown(descriptors []search.FieldDescriptor) []string {
	var unknown []string
	for _, desc := range descriptors {
		if _, ok := d.Field(desc.Key); !ok {
			unknown = append(unknown, desc.Key)
		}
	}
	return unknown
}

// Values formats every field of row as display text, in declaration order.
// row must be of the inspected type (or a pointer to it).
func (d RowDef) Values(row any) ([]string, error) {
	v := reflect.ValueOf(row)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Type() != d.typ {
		return nil, fmt.Errorf("row %s: got %s", d.Name, v.Type())
	}

	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = formatValue(v.FieldByIndex(f.index))
	}
	return out, nil
}

func formatValue(v reflect.Value) string {
	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return ""
		}
		return t.Format(time.DateOnly)
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits())
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return ""
		}
		return formatValue(v.Elem())
	default:
		return fmt.Sprint(v.Interface())
	}
}

func mapFieldType(field reflect.StructField) search.FieldType {
	t := field.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == timeType {
		return search.FieldDate
	}

	switch t.Kind() {
	case reflect.String:
		// Dates travel as ISO strings on the wire.
		if strings.HasSuffix(field.Name, "Date") {
			return search.FieldDate
		}
		return search.FieldString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return search.FieldNumber
	case reflect.Bool:
		return search.FieldBoolean
	default:
		return search.FieldString
	}
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			return parts[0]
		}
	}
	runes := []rune(field.Name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func isReadOnly(field reflect.StructField) bool {
	return field.Name == "ID"
}

// guessLabel splits a CamelCase Go name into words: ReleaseDate -> "Release date".
// Acronyms stay upper case.
func guessLabel(name string) string {
	runes := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prevLower := unicode.IsLower(runes[i-1])
		nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if unicode.IsUpper(runes[i]) && (prevLower || (unicode.IsUpper(runes[i-1]) && nextLower)) {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	words = append(words, string(runes[start:]))

	for i := 1; i < len(words); i++ {
		if strings.ToUpper(words[i]) != words[i] {
			words[i] = strings.ToLower(words[i])
		}
	}
	return strings.Join(words, " ")
}
