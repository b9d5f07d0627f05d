package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name    string
		desc    FieldDescriptor
		wantErr string
	}{
		{
			name: "string with text operators",
			desc: FieldDescriptor{Key: "name", FieldType: FieldString, AvailableOperators: []Operator{Equals, Contains, StartsWith, In}},
		},
		{
			name: "date with range",
			desc: FieldDescriptor{Key: "releaseDate", FieldType: FieldDate, AvailableOperators: []Operator{Equals, LessThan, GreaterThan, Between}},
		},
		{
			name: "boolean as advertised by backend",
			desc: FieldDescriptor{Key: "lts", FieldType: FieldBoolean, AvailableOperators: []Operator{Equals, NotEquals, GreaterThan, LessThan, In, NotIn, Between}},
		},
		{
			name:    "text operator on number",
			desc:    FieldDescriptor{Key: "usages", FieldType: FieldNumber, AvailableOperators: []Operator{Contains}},
			wantErr: "not allowed on number",
		},
		{
			name:    "range on string",
			desc:    FieldDescriptor{Key: "name", FieldType: FieldString, AvailableOperators: []Operator{Between}},
			wantErr: "not allowed on string",
		},
		{
			name:    "operator outside enumeration",
			desc:    FieldDescriptor{Key: "name", FieldType: FieldString, AvailableOperators: []Operator{"regex"}},
			wantErr: "not allowed",
		},
		{
			name:    "unknown field type",
			desc:    FieldDescriptor{Key: "blob", FieldType: "binary", AvailableOperators: []Operator{Equals}},
			wantErr: "unknown field type",
		},
		{
			name:    "empty operators",
			desc:    FieldDescriptor{Key: "name", FieldType: FieldString},
			wantErr: "no available operators",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFieldDescriptor_Unmarshal(t *testing.T) {
	var d FieldDescriptor
	require.NoError(t, json.Unmarshal([]byte(`{"key":"usages","fieldType":"number","nullable":true,"availableOperators":["equals","between"]}`), &d))

	assert.Equal(t, FieldNumber, d.FieldType)
	assert.True(t, d.Nullable)
	assert.Equal(t, []Operator{Equals, Between}, d.AvailableOperators)
	assert.NoError(t, d.Validate())
}

func TestOperator_Enumeration(t *testing.T) {
	assert.Len(t, Operators, 13)
	for _, op := range Operators {
		assert.True(t, op.Valid(), op)
	}
	assert.False(t, Operator("like").Valid())
}

func TestTechnology(t *testing.T) {
	assert.Equal(t, "/jpa", JPA.PathSegment())
	assert.Equal(t, "", TechnologyNone.PathSegment())

	_, err := ParseTechnology("../admin")
	assert.Error(t, err)

	tech, err := ParseTechnology("elastic")
	require.NoError(t, err)
	assert.Equal(t, Elastic, tech)
}

func TestNumber_RoundTrip(t *testing.T) {
	var n Number
	require.NoError(t, json.Unmarshal([]byte(`1e21`), &n))

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "1e21", string(data))
	assert.Equal(t, "1000000000000000000000", n.String())

	require.NoError(t, json.Unmarshal([]byte(`"12.50"`), &n))
	assert.Equal(t, "12.5", n.String())
	data, err = json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "12.50", string(data))

	n, err = NewNumber("42")
	require.NoError(t, err)
	data, err = json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))
}

func TestNumber_HugeExponentKeepsLiteral(t *testing.T) {
	for _, lit := range []string{"1e-20000000", "-7E+20000000"} {
		t.Run(lit, func(t *testing.T) {
			n, err := NewNumber(lit)
			require.NoError(t, err)

			data, err := json.Marshal(Query{Filters: []FilterCondition{{Key: "usages", Operator: Equals, Value: n}}})
			require.NoError(t, err)
			assert.Less(t, len(data), 200)
			assert.Contains(t, string(data), `"value":`+lit)
		})
	}
}

func TestNewNumber_NonJSONLiteralFallsBackToDecimal(t *testing.T) {
	n, err := NewNumber("05")
	require.NoError(t, err)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "5", string(data))
}
