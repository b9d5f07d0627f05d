package search

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Number is an exact decimal filter value. It marshals as a bare JSON number,
// so values such as 0.1 or 1e21 reach the backend without binary float rounding.
// A number parsed from a JSON literal is written back as that literal, never expanded.
type Number struct {
	decimal.Decimal

	literal string
}

// NewNumber parses a decimal literal.
func NewNumber(s string) (Number, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Number{}, err
	}
	return Number{Decimal: d, literal: jsonLiteral([]byte(s))}, nil
}

// MarshalJSON writes the number unquoted.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.literal != "" {
		return []byte(n.literal), nil
	}
	return []byte(n.Decimal.String()), nil
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (n *Number) UnmarshalJSON(data []byte) error {
	if err := n.Decimal.UnmarshalJSON(data); err != nil {
		return err
	}
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(s)
	}
	n.literal = jsonLiteral(raw)
	return nil
}

// jsonLiteral returns s when it is a valid JSON number, "" otherwise.
func jsonLiteral(s []byte) string {
	s = bytes.TrimSpace(s)
	if len(s) == 0 || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) || !json.Valid(s) {
		return ""
	}
	return string(s)
}
