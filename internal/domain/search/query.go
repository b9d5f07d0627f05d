package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FilterCondition is one column predicate.
type FilterCondition struct {
	Key      string   `json:"key"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
	ValueTo  any      `json:"valueTo,omitempty"` // upper bound, between only
	Values   []any    `json:"values,omitempty"`  // in / notIn only
}

// Validate checks the value requirements of the operator.
func (c FilterCondition) Validate() error {
	if strings.TrimSpace(c.Key) == "" {
		return errors.New("filter key is empty")
	}
	if !c.Operator.Valid() {
		return fmt.Errorf("filter %s: unknown operator %q", c.Key, c.Operator)
	}
	switch {
	case !c.Operator.NeedsValue():
		return nil
	case c.Operator.IsList():
		if len(c.Values) == 0 {
			return fmt.Errorf("filter %s: %s requires values", c.Key, c.Operator)
		}
	case c.Operator.IsRange():
		if c.Value == nil || c.ValueTo == nil {
			return fmt.Errorf("filter %s: %s requires value and valueTo", c.Key, c.Operator)
		}
	default:
		if c.Value == nil {
			return fmt.Errorf("filter %s: %s requires a value", c.Key, c.Operator)
		}
	}
	return nil
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection accepts "asc" or "desc" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", fmt.Errorf("invalid sort direction %q", s)
}

// SortSpec is one column sort; position in Query.Sorts is the tie-break priority.
type SortSpec struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// PageSpec is one zero-based row window.
type PageSpec struct {
	Number int `json:"number"`
	Size   int `json:"size"`
}

// Validate checks Size > 0 and Number >= 0.
func (p PageSpec) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("page size must be positive, got %d", p.Size)
	}
	if p.Number < 0 {
		return fmt.Errorf("page number must not be negative, got %d", p.Number)
	}
	return nil
}

// FullText is a free-text query over all searchable text fields.
type FullText struct {
	Query string `json:"query"`
}

// Query is one complete search request.
type Query struct {
	Filters  []FilterCondition `json:"filters"`
	Sorts    []SortSpec        `json:"sorts,omitempty"`
	FullText *FullText         `json:"fullText,omitempty"`
	Page     *PageSpec         `json:"page,omitempty"`
}

// MarshalJSON always emits a filters array, empty when there are no conditions.
func (q Query) MarshalJSON() ([]byte, error) {
	type plain Query
	if q.Filters == nil {
		q.Filters = []FilterCondition{}
	}
	return json.Marshal(plain(q))
}

// Validate checks every condition and the page.
func (q Query) Validate() error {
	var errs []error
	for _, f := range q.Filters {
		if err := f.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, s := range q.Sorts {
		if s.Direction != Asc && s.Direction != Desc {
			errs = append(errs, fmt.Errorf("sort %s: invalid direction %q", s.Key, s.Direction))
		}
	}
	if q.Page != nil {
		if err := q.Page.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
