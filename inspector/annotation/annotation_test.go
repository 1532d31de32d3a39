package annotation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/luabind/inspector/annotation"
)

func TestParser_Parse(t *testing.T) {
	testCases := []struct {
		name        string
		master      string
		text        string
		expectValid bool
		expect      map[string]string
		expectLen   int
	}{
		{
			name:        "symbol and version",
			text:        "lua/symbol:foo/available:1.0",
			expectValid: true,
			expect:      map[string]string{"symbol": "foo", "available": "1.0"},
			expectLen:   2,
		},
		{
			name:        "equals separator and trailing delimiter",
			text:        "lua/symbol=PositioningFrame/available=0.8/",
			expectValid: true,
			expect:      map[string]string{"symbol": "PositioningFrame", "available": "0.8"},
			expectLen:   2,
		},
		{
			name:        "duplicate tag later wins",
			text:        "lua/symbol:a/symbol:b",
			expectValid: true,
			expect:      map[string]string{"symbol": "b"},
			expectLen:   1,
		},
		{
			name:        "flag without value",
			text:        "lua/constructor/available:0.8",
			expectValid: true,
			expect:      map[string]string{"constructor": "", "available": "0.8"},
			expectLen:   2,
		},
		{
			name:        "hyphenated names normalized",
			text:        "lua/symbol=Float/template-variant=float",
			expectValid: true,
			expect:      map[string]string{"template_variant": "float", "template-variant": "float"},
			expectLen:   2,
		},
		{
			name:        "value keeps colons after first separator",
			text:        "lua/parameter_type:std::int32_t/symbol:x",
			expectValid: true,
			expect:      map[string]string{"parameter_type": "std::int32_t", "symbol": "x"},
			expectLen:   2,
		},
		{
			name:      "foreign master tag",
			text:      "other/symbol:foo",
			expectLen: 0,
		},
		{
			name:        "custom master tag",
			master:      "py",
			text:        "py/symbol:foo",
			expectValid: true,
			expect:      map[string]string{"symbol": "foo"},
			expectLen:   1,
		},
		{
			name:      "empty",
			text:      "",
			expectLen: 0,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			set := annotation.New(testCase.master).Parse(testCase.text)
			assert.Equal(t, testCase.expectValid, set.Valid())
			assert.Equal(t, testCase.expectLen, set.Len())
			for name, value := range testCase.expect {
				assert.True(t, set.Has(name), name)
				assert.Equal(t, value, set.Value(name), name)
			}
		})
	}
}

func TestSet_Missing(t *testing.T) {
	set := annotation.Parse("lua/symbol:foo")
	assert.False(t, set.Has(annotation.TagGetter))
	assert.Equal(t, "", set.Value(annotation.TagGetter))
	_, ok := set.Lookup(annotation.TagGetter)
	assert.False(t, ok)
	assert.Equal(t, []annotation.Tag{{Name: "symbol", Value: "foo"}}, set.Tags())
}
