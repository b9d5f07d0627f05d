package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridsearch/internal/domain/search"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want NativeFilter
	}{
		{
			name: "null is cleared",
			raw:  `null`,
			want: nil,
		},
		{
			name: "text condition",
			raw:  `{"filterType":"text","type":"contains","filter":"ubu"}`,
			want: ValueFilter{FilterType: "text", Kind: KindContains, Value: "ubu"},
		},
		{
			name: "date condition with dateFrom",
			raw:  `{"filterType":"date","type":"equals","dateFrom":"2023-09-30 00:00:00","dateTo":null}`,
			want: DateFilter{Kind: KindEquals, From: "2023-09-30 00:00:00"},
		},
		{
			name: "date condition with filter pair",
			raw:  `{"filterType":"date","type":"inRange","filter":"2023-01-01T00:00:00","filterTo":"2023-12-31T00:00:00"}`,
			want: DateFilter{Kind: KindInRange, From: "2023-01-01T00:00:00", To: "2023-12-31T00:00:00"},
		},
		{
			name: "dateFrom without filterType",
			raw:  `{"type":"lessThan","dateFrom":"2020-01-01"}`,
			want: DateFilter{Kind: KindLessThan, From: "2020-01-01"},
		},
		{
			name: "blank has no value",
			raw:  `{"filterType":"text","type":"blank"}`,
			want: ValueFilter{FilterType: "text", Kind: KindBlank},
		},
		{
			name: "set filter",
			raw:  `{"filterType":"set","values":["Linux",null,"BSD"]}`,
			want: SetFilter{Values: []any{"Linux", "BSD"}},
		},
		{
			name: "unknown kind",
			raw:  `{"filterType":"text","type":"regex","filter":"^a"}`,
			want: Unrecognized{FilterType: "text", Type: "regex"},
		},
		{
			name: "inRange filter pair without date marker",
			raw:  `{"type":"inRange","filter":"2023-01-01T00:00:00","filterTo":"2023-12-31T00:00:00"}`,
			want: ValueFilter{Kind: KindInRange, Value: "2023-01-01T00:00:00", ValueTo: "2023-12-31T00:00:00"},
		},
		{
			name: "mistyped type field",
			raw:  `{"filterType":"number","type":7}`,
			want: Unrecognized{FilterType: "number", Type: TypeMalformed},
		},
		{
			name: "mistyped set values",
			raw:  `{"filterType":"set","values":"x"}`,
			want: Unrecognized{FilterType: "set", Type: TypeMalformed},
		},
		{
			name: "entry is not an object",
			raw:  `"contains"`,
			want: Unrecognized{Type: TypeMalformed},
		},
		{
			name: "combined conditions",
			raw:  `{"filterType":"text","operator":"OR","conditions":[{"type":"equals","filter":"a"}]}`,
			want: Unrecognized{FilterType: "text", Type: "OR combination"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilter_NumberValue(t *testing.T) {
	got, err := ParseFilter(json.RawMessage(`{"filterType":"number","type":"inRange","filter":10,"filterTo":20.5}`))
	require.NoError(t, err)

	vf, ok := got.(ValueFilter)
	require.True(t, ok)
	assert.Equal(t, KindInRange, vf.Kind)

	from, ok := vf.Value.(search.Number)
	require.True(t, ok)
	assert.Equal(t, "10", from.String())
	to, ok := vf.ValueTo.(search.Number)
	require.True(t, ok)
	assert.Equal(t, "20.5", to.String())
}

func TestParseFilter_NumberLiteralNotExpanded(t *testing.T) {
	got, err := ParseFilter(json.RawMessage(`{"filterType":"number","type":"equals","filter":1e-20000000}`))
	require.NoError(t, err)

	data, err := json.Marshal(got.(ValueFilter).Value)
	require.NoError(t, err)
	assert.Equal(t, "1e-20000000", string(data))
}

func TestParseFilter_Malformed(t *testing.T) {
	_, err := ParseFilter(json.RawMessage(`{"type":`))
	assert.Error(t, err)
}

func TestFilterModel_UnmarshalJSON(t *testing.T) {
	var model FilterModel
	err := json.Unmarshal([]byte(`{
		"version": {"filterType":"text","type":"startsWith","filter":"22"},
		"name": {"filterType":"text","type":"equals","filter":"Ubuntu"},
		"kernel": null
	}`), &model)
	require.NoError(t, err)

	assert.Len(t, model, 3)
	assert.Nil(t, model["kernel"])
	assert.Equal(t, []string{"kernel", "name", "version"}, model.Keys())
}

func TestFilterModel_UnmarshalJSON_MistypedEntryKeepsOthers(t *testing.T) {
	var model FilterModel
	err := json.Unmarshal([]byte(`{"name":{"type":"contains","filter":"lin"},"usages":{"type":7}}`), &model)
	require.NoError(t, err)

	assert.Equal(t, ValueFilter{Kind: KindContains, Value: "lin"}, model["name"])
	assert.Equal(t, Unrecognized{Type: TypeMalformed}, model["usages"])
}

func TestKind_Operator(t *testing.T) {
	op, ok := KindNotEqual.Operator()
	assert.True(t, ok)
	assert.Equal(t, search.NotEquals, op)

	op, ok = KindInRange.Operator()
	assert.True(t, ok)
	assert.Equal(t, search.Between, op)

	_, ok = Kind("fuzzy").Operator()
	assert.False(t, ok)
}
