package cxx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/luabind/inspector/graph"
	"go.uber.org/zap/zaptest"
)

const pointHeader = `#include <libKestrel/lua/scripting.hpp>
#define lua_api(_name, _version) ScriptingAnnotation(_name)

namespace lua_use_namespace kestrel
{
    // lua_api(Ignored, Available_0_8)
    struct lua_api(Point, Available_0_8) point
    {
    public:
        has_constructable_lua_api(point);

        luatool_type_fix(const kestrel::point&, origin)
        lua_constructor(Available_0_8) point(const point& origin);

        lua_getter(x, Available_0_8) auto x() const -> int;
        lua_setter(x,
                   Available_0_8) auto set_x(int x) -> void;

        lua_fix_parameter_type(const kestrel::point&, other)
        lua_function(distance, Available_0_9) auto distance(const point& other) const -> double;
    };

    enum class lua_api(Axis, Available_0_8) axis
    {
        horizontal lua_case(Horizontal, Available_0_8) = 0x01,
        vertical lua_case(Vertical, Undocumented) = 0x02,
    };
}
`

func TestExpansion_Expand(t *testing.T) {
	var testCases = []struct {
		description string
		src         string
		expect      string
	}{
		{
			description: "symbol with version",
			src:         `struct lua_api(Point, Available_0_8) point {};`,
			expect:      `struct [[clang::annotate("lua/symbol:Point/available:0.8/")]] point {};`,
		},
		{
			description: "deprecated and undocumented",
			src:         `lua_function(move, Deprecated_1_2 Undocumented) void move();`,
			expect:      `[[clang::annotate("lua/symbol:move/deprecated:1.2/undocumented/")]] void move();`,
		},
		{
			description: "namespace marker",
			src:         `namespace lua_use_namespace kestrel {}`,
			expect:      `namespace [[clang::annotate("lua/namespace/")]] kestrel {}`,
		},
		{
			description: "parameter type fix with nested template",
			src:         `lua_fix_parameter_type(std::map<int, float>, table)`,
			expect:      `[[clang::annotate("lua/symbol:table/parameter_type:std::map<int, float>/")]]`,
		},
		{
			description: "enrollment declaration absorbs terminator",
			src:         "has_lua_api;\nint x;",
			expect:      `[[clang::annotate("lua/enrollment/")]] static auto enroll_object_api_in_state(const std::shared_ptr<kestrel::lua::runtime>& runtime) -> void;` + "\nint x;",
		},
		{
			description: "named enrollment with reference",
			src:         `has_named_constructable_lua_api(vec<T>);`,
			expect: `[[clang::annotate("lua/enrollment/enrollment_name/reference:lua_reference/")]] ` +
				`static auto enroll_object_api_in_state(const std::string& name, const std::shared_ptr<kestrel::lua::runtime>& runtime) -> void; ` +
				`typedef luabridge::RefCountedPtr<vec<T>> lua_reference;`,
		},
		{
			description: "custom enrollment definition",
			src:         `construct_custom_lua_api(files) {}`,
			expect:      `auto files::enroll_object_api_in_state(const std::shared_ptr<kestrel::lua::runtime>& runtime) -> void {}`,
		},
		{
			description: "multi line invocation keeps line count",
			src:         "lua_getter(x,\n  Available_0_8) auto x() const -> int;",
			expect:      `[[clang::annotate("lua/getter/symbol:x/available:0.8/")]]` + "\n" + ` auto x() const -> int;`,
		},
		{
			description: "directive and comment untouched",
			src:         "#define lua_api(_n, _v) X\n// lua_api(Point, Available_0_8)\n",
			expect:      "#define lua_api(_n, _v) X\n// lua_api(Point, Available_0_8)\n",
		},
		{
			description: "identifier containing macro name",
			src:         `void my_lua_api_helper(int a, int b);`,
			expect:      `void my_lua_api_helper(int a, int b);`,
		},
		{
			description: "missing arguments",
			src:         `int lua_api;`,
			expect:      `int lua_api;`,
		},
	}

	expansion := &expansion{master: "lua", enrollmentName: DefaultEnrollmentName}
	for _, testCase := range testCases {
		actual := string(expansion.expand([]byte(testCase.src)))
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestInspector_InspectSource_Macros(t *testing.T) {
	project := graph.NewProject("kestrel")
	inspector := NewInspector(project, WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, inspector.InspectSource(context.Background(), "point.hpp", []byte(pointHeader)))

	namespace, ok := project.Definition("kestrel").(*graph.Namespace)
	require.True(t, ok)
	assert.Equal(t, "kestrel", namespace.Symbol().ScriptingName())

	class, ok := project.Definition("kestrel::point").(*graph.Class)
	require.True(t, ok)
	assert.Equal(t, "kestrel.Point", class.Symbol().ScriptingResolved())
	assert.Equal(t, "0.8", class.Symbol().Introduced.String())
	assert.Equal(t, "point.hpp:7:5", class.Location())

	enrollment := class.Enrollment()
	require.NotNil(t, enrollment)
	assert.Equal(t, "kestrel::point::enroll_object_api_in_state", enrollment.Symbol.Resolved())
	assert.Equal(t, "lua_reference", enrollment.Reference)
	assert.True(t, enrollment.RequiresRuntime)
	assert.False(t, enrollment.HandWritten)

	require.NotNil(t, class.Constructor)
	require.Len(t, class.Constructor.Parameters, 1)
	assert.Equal(t, "const kestrel::point&", class.Constructor.Parameters[0].Type)

	property := class.Property("x")
	require.NotNil(t, property)
	assert.False(t, property.IsReadOnly())

	require.Len(t, class.Functions, 1)
	distance := class.Functions[0]
	assert.Equal(t, "distance", distance.Symbol().ScriptingName())
	assert.Equal(t, "0.9", distance.Symbol().Introduced.String())
	require.Len(t, distance.Parameters, 1)
	assert.Equal(t, "const kestrel::point&", distance.Parameters[0].Type)

	enum, ok := project.Definition("kestrel::axis").(*graph.Enum)
	require.True(t, ok)
	require.Len(t, enum.Cases, 2)
	assert.Equal(t, "Horizontal", enum.Cases[0].Symbol().ScriptingName())
	assert.True(t, enum.Cases[1].Undocumented())
}
