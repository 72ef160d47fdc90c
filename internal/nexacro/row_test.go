package nexacro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRow_NumericCoercion(t *testing.T) {
	row := Row{
		"int":      "42",
		"float":    "3.75",
		"grouped":  "1,234",
		"padded":   "  7 ",
		"empty":    "",
		"garbage":  "A+",
		"wholeDec": "18.0",
	}

	val, ok := row.Int("int")
	assert.True(t, ok)
	assert.Equal(t, int64(42), val)

	val, ok = row.Int("grouped")
	assert.True(t, ok)
	assert.Equal(t, int64(1234), val)

	val, ok = row.Int("padded")
	assert.True(t, ok)
	assert.Equal(t, int64(7), val)

	val, ok = row.Int("wholeDec")
	assert.True(t, ok)
	assert.Equal(t, int64(18), val)

	_, ok = row.Int("float")
	assert.False(t, ok)

	for _, col := range []string{"empty", "garbage", "missing"} {
		_, ok := row.Int(col)
		assert.False(t, ok, col)
		_, ok = row.Float(col)
		assert.False(t, ok, col)
	}

	fl, ok := row.Float("float")
	assert.True(t, ok)
	assert.Equal(t, 3.75, fl)

	assert.Equal(t, "", row.Get("missing"))
}

func TestRows_AtAndSlice(t *testing.T) {
	rows := Rows{{"i": "0"}, {"i": "1"}, {"i": "2"}}

	assert.Equal(t, Row{"i": "0"}, rows.At(0))
	assert.Nil(t, rows.At(3))
	assert.Nil(t, rows.At(-1))

	assert.Equal(t, Rows{{"i": "1"}, {"i": "2"}}, rows.Slice(1, 3))
	assert.Equal(t, Rows{{"i": "1"}, {"i": "2"}}, rows.Slice(1, 10))
	assert.Empty(t, rows.Slice(5, 10))
	assert.Empty(t, Rows{}.Slice(1, 3))
}

func TestParameters_Precedence(t *testing.T) {
	params := ParametersOf("stdNo", "1", "rType", "Tab1", "sRes", "Y")
	params.Merge(ParametersOf("JSESSIONID", "abc"))
	params.Merge(ParametersOf("rType", "B1", "extra", "x"))
	params.Merge(nil)

	assert.Equal(t, []string{"stdNo", "rType", "sRes", "JSESSIONID", "extra"}, params.Keys())
	val, ok := params.Get("rType")
	assert.True(t, ok)
	assert.Equal(t, "B1", val)
	assert.Equal(t, 5, params.Len())

	var nilParams *Parameters
	assert.Equal(t, 0, nilParams.Len())
	_, ok = nilParams.Get("x")
	assert.False(t, ok)

	trailing := ParametersOf("a", "1", "b")
	val, ok = trailing.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "", val)
}
