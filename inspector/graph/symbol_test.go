package graph_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/luabind/inspector/graph"
)

func TestSplitName(t *testing.T) {
	testCases := []struct {
		name   string
		expect []string
	}{
		{name: "a::b::c", expect: []string{"a", "b", "c"}},
		{name: "a", expect: []string{"a"}},
		{name: "a::b<std::string>::c", expect: []string{"a", "b<std::string>", "c"}},
		{name: "::a", expect: []string{"a"}},
		{name: "", expect: nil},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expect, graph.SplitName(testCase.name), testCase.name)
	}
}

func TestSymbol_Scripting(t *testing.T) {
	project := graph.NewProject("test")
	namespace := project.SymbolNamed("kestrel")
	namespace.SetScripting("Kestrel")
	require.NoError(t, project.AddDefinition(graph.NewNamespace(namespace, "")))

	class := project.SymbolNamed("kestrel::ui::frame")
	class.SetScripting("Frame")
	require.NoError(t, project.AddDefinition(graph.NewClass(class, "")))

	method := project.SymbolNamed("kestrel::ui::frame::position_entity")
	method.SetScripting("positionEntity")

	explicit := project.SymbolNamed("kestrel::grid_item")
	explicit.SetScripting("Widget.GridItem")

	unregistered := project.SymbolNamed("other::free")

	assert.Equal(t, "Kestrel.Frame", class.ScriptingResolved())
	assert.Equal(t, "Kestrel.Frame.positionEntity", method.ScriptingResolved())
	assert.Equal(t, []string{"Widget"}, explicit.ScriptingNamespace())
	assert.Equal(t, "Widget.GridItem", explicit.ScriptingResolved())
	assert.Equal(t, "free", unregistered.ScriptingResolved())
	assert.Equal(t, "positionEntity", method.DisplayName())
}

func TestSymbol_BaseName(t *testing.T) {
	project := graph.NewProject("test")
	symbol := project.SymbolNamed("ns::vec<T>")
	assert.Equal(t, "vec", symbol.BaseName())
	assert.Equal(t, "vec", symbol.ScriptingName())
}

func TestSymbol_FlatName(t *testing.T) {
	testCases := []struct {
		name   string
		expect string
	}{
		{name: "kestrel::event_type", expect: "kestrel_event_type"},
		{name: "math::vec<T>::axis", expect: "math_vec_axis"},
		{name: "math::grid<std::map<int, T>>::cell<U>", expect: "math_grid_cell"},
		{name: "top", expect: "top"},
	}
	for _, testCase := range testCases {
		project := graph.NewProject("test")
		assert.Equal(t, testCase.expect, project.SymbolNamed(testCase.name).FlatName(), testCase.name)
	}
}

func TestProperty_StaticMismatchOnSharedSymbol(t *testing.T) {
	project := graph.NewProject("test")
	symbol := project.SymbolNamed("kestrel::frame::value")
	symbol.IsStatic = true
	getter := graph.NewFunction(symbol, "", "int")
	symbol.IsStatic = false
	setter := graph.NewFunction(symbol, "", "void")
	assert.True(t, getter.IsStatic())
	assert.False(t, setter.IsStatic())

	property := graph.NewProperty(project.PropertySymbol(project.SymbolNamed("kestrel::frame"), "value"), "")
	require.NoError(t, property.SetGetter(getter))
	err := property.SetSetter(setter)
	require.Error(t, err)
	assert.True(t, errors.Is(err, graph.ErrIllegalProperty))
}

func TestSymbol_Documentation(t *testing.T) {
	project := graph.NewProject("test")
	symbol := project.SymbolNamed("ns::fn")
	symbol.SetDocumentation("/// Moves entity.\n/// @param x horizontal offset")
	assert.Equal(t, "Moves entity.", symbol.Documentation().Brief)
	symbol.SetDocumentation("// Other")
	assert.Equal(t, "Other", symbol.Documentation().Brief)
}
