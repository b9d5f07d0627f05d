package search

import (
	"errors"
	"fmt"
	"strings"
)

// FieldType is the value type of a filterable field.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
)

// Valid reports whether t is one of the four known types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldString, FieldNumber, FieldDate, FieldBoolean:
		return true
	}
	return false
}

// Permits reports whether op is consistent with the field type.
// Text operators only apply to strings, ordered operators never to strings.
func (t FieldType) Permits(op Operator) bool {
	if !op.Valid() {
		return false
	}
	if op.IsTextual() {
		return t == FieldString
	}
	if op.IsOrdered() {
		return t != FieldString
	}
	return true
}

// FieldDescriptor is the metadata of one filterable field.
type FieldDescriptor struct {
	Key                string     `json:"key"`
	FieldType          FieldType  `json:"fieldType"`
	Nullable           bool       `json:"nullable"`
	AvailableOperators []Operator `json:"availableOperators"`
}

// Validate checks the descriptor against the operator enumeration and its field type.
func (d FieldDescriptor) Validate() error {
	if strings.TrimSpace(d.Key) == "" {
		return errors.New("descriptor key is empty")
	}
	if !d.FieldType.Valid() {
		return fmt.Errorf("descriptor %s: unknown field type %q", d.Key, d.FieldType)
	}
	if len(d.AvailableOperators) == 0 {
		return fmt.Errorf("descriptor %s: no available operators", d.Key)
	}
	for _, op := range d.AvailableOperators {
		if !d.FieldType.Permits(op) {
			return fmt.Errorf("descriptor %s: operator %q not allowed on %s fields", d.Key, op, d.FieldType)
		}
	}
	return nil
}
