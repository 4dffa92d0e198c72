package formdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := New()
	m.Set("z", 1)
	m.Set("a", 2)
	m.Set("m", 3)

	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	// Re-setting an existing key keeps its position.
	m.Set("a", 99)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
	assert.Equal(t, 99, m.Get("a"))
}

func TestMapRoundTrip(t *testing.T) {
	in := `{"viz_type":"area","metrics":["count"],"nested":{"b":1,"a":2},"flag":true,"empty":null}`

	m, err := Parse(in)
	require.NoError(t, err)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, in, string(out), "key order must survive a round trip")
}

func TestMapNestedObjectsDecodeAsMap(t *testing.T) {
	m, err := Parse(`{"granularity_sqla":{"label":"ds","sqlExpression":"ds_col"}}`)
	require.NoError(t, err)

	nested := m.GetMap("granularity_sqla")
	require.NotNil(t, nested)
	assert.Equal(t, "ds", nested.GetString("label"))
	assert.Equal(t, "ds_col", nested.GetString("sqlExpression"))
}

func TestMapNumbersSurviveRoundTrip(t *testing.T) {
	m, err := Parse(`{"row_limit":10000,"ratio":0.5}`)
	require.NoError(t, err)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"row_limit":10000,"ratio":0.5}`, string(out))
	assert.Equal(t, json.Number("10000"), m.Get("row_limit"))
}

func TestTryParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"malformed JSON", `{"a":`},
		{"not an object", `[1,2,3]`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := TryParse(tt.input)
			require.NotNil(t, m)
			assert.Equal(t, 0, m.Len())
		})
	}

	m := TryParse(`{"a":1}`)
	assert.Equal(t, 1, m.Len())
}

func TestDeepCopyIsIndependent(t *testing.T) {
	m, err := Parse(`{"outer":{"inner":[1,2]},"list":["x"]}`)
	require.NoError(t, err)

	cp := m.DeepCopy()
	cp.GetMap("outer").Set("inner", "changed")
	cp.Set("list", append(cp.Get("list").([]any), "y"))

	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, m.GetMap("outer").Get("inner"))
	assert.Len(t, m.Get("list").([]any), 1)
}

func TestPopAndDelete(t *testing.T) {
	m := New()
	m.Set("a", 1)
	m.Set("b", 2)

	assert.Equal(t, 1, m.Pop("a"))
	assert.Nil(t, m.Pop("a"), "second pop returns nil")
	assert.False(t, m.Has("a"))
	assert.Equal(t, []string{"b"}, m.Keys())

	m.Delete("missing") // no-op
	m.Delete("b")
	assert.Equal(t, 0, m.Len())
}

func TestStringRendersCompactJSON(t *testing.T) {
	m := New()
	m.Set("viz_type", "treemap_v2")
	assert.Equal(t, `{"viz_type":"treemap_v2"}`, m.String())
	assert.Equal(t, "{}", New().String())
}
