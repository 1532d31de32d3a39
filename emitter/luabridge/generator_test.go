package luabridge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/luabind/emitter/enrollment"
	"github.com/viant/luabind/emitter/luabridge"
	"github.com/viant/luabind/inspector/graph"
	"go.uber.org/zap/zaptest"
)

type fixture struct {
	t       *testing.T
	project *graph.Project
}

func (f *fixture) add(definition graph.Definition) {
	require.NoError(f.t, f.project.AddDefinition(definition))
}

func (f *fixture) function(owner *graph.Members, resolved, scripting string, static bool) *graph.Function {
	symbol := f.project.SymbolNamed(resolved)
	symbol.SetScripting(scripting)
	symbol.IsStatic = static
	fn := graph.NewFunction(symbol, "", "void")
	f.add(fn)
	if owner != nil {
		owner.AddFunction(fn)
	}
	return fn
}

func (f *fixture) property(owner *graph.Members, name string, getter, setter *graph.Function) {
	segments := graph.SplitName(name)
	ownerSymbol := f.project.SymbolNamed(strings.Join(segments[:len(segments)-1], graph.SourceSeparator))
	property := graph.NewProperty(f.project.PropertySymbol(ownerSymbol, segments[len(segments)-1]), "")
	property.Symbol().SetScripting(property.Symbol().Name)
	if getter != nil {
		require.NoError(f.t, property.SetGetter(getter))
	}
	if setter != nil {
		require.NoError(f.t, property.SetSetter(setter))
	}
	f.add(property)
	owner.AddProperty(property)
}

func newProject(t *testing.T) *graph.Project {
	f := &fixture{t: t, project: graph.NewProject("kestrel")}
	f.project.AddFile("include/kestrel/frame.hpp")
	f.project.AddFile("src/frame.cpp")
	f.project.IncludePaths = []string{"include"}

	kestrel := graph.NewNamespace(f.project.SymbolNamed("kestrel"), "")
	kestrel.Symbol().SetScripting("Kestrel")
	kestrel.SetEnrollment(&graph.Enrollment{Symbol: f.project.SymbolNamed("kestrel::enroll_object_api_in_state"), RequiresRuntime: true, Synthesized: true})
	f.add(kestrel)
	for _, name := range []string{"log", "warn", "version"} {
		f.function(&kestrel.Members, "kestrel::"+name, "", true)
	}
	f.property(&kestrel.Members, "kestrel::time", f.function(nil, "kestrel::current_time", "", true), nil)
	f.property(&kestrel.Members, "kestrel::scale",
		f.function(nil, "kestrel::get_scale", "", true),
		f.function(nil, "kestrel::set_scale", "", true))
	variable := graph.NewVariable(f.project.SymbolNamed("kestrel::build"), "", "const int", false)
	f.add(variable)
	kestrel.AddVariable(variable)

	frame := graph.NewClass(f.project.SymbolNamed("kestrel::frame"), "")
	frame.Symbol().SetScripting("Frame")
	frame.SetEnrollment(&graph.Enrollment{Symbol: f.project.SymbolNamed("kestrel::frame::enroll_object_api_in_state"), RequiresRuntime: true})
	f.add(frame)
	constructor := graph.NewConstructor(f.project.SymbolNamed("kestrel::frame::frame"), "")
	for _, name := range []string{"width", "height"} {
		param := graph.NewParameter(f.project.SymbolNamed("kestrel::frame::frame::"+name), "", "std::int32_t")
		constructor.AddParameter(param)
	}
	require.NoError(t, frame.SetConstructor(constructor))
	count := graph.NewVariable(f.project.SymbolNamed("kestrel::frame::count"), "", "const int", false)
	f.add(count)
	frame.AddVariable(count)
	f.property(&frame.Members, "kestrel::frame::width",
		f.function(nil, "kestrel::frame::get_width", "", false),
		f.function(nil, "kestrel::frame::set_width", "", false))
	f.function(&frame.Members, "kestrel::frame::create", "create", true)

	vec := graph.NewClass(f.project.SymbolNamed("math::vec<T>"), "")
	vec.Symbol().SetScripting("Vec")
	vec.TemplateParameters = []string{"T"}
	vec.AddVariant("Float", "float")
	vec.AddVariant("Int", "int")
	vec.SetEnrollment(&graph.Enrollment{Symbol: f.project.SymbolNamed("math::vec<T>::enroll"), RequiresRuntime: true, RequiresName: true, Reference: "math::vec_ref<T>"})
	f.add(vec)
	f.function(&vec.Members, "math::vec<T>::length", "length", false)

	files := graph.NewNamespace(f.project.SymbolNamed("files"), "")
	files.SetEnrollment(&graph.Enrollment{Symbol: f.project.SymbolNamed("files::enroll"), RequiresRuntime: true, HandWritten: true})
	f.add(files)

	enum := graph.NewEnum(f.project.SymbolNamed("kestrel::event_type"), "")
	enum.Symbol().SetScripting("EventType")
	enum.SetEnrollment(&graph.Enrollment{Symbol: f.project.SymbolNamed("kestrel::event_type::enroll_enum_api"), RequiresRuntime: true, Synthesized: true})
	f.add(enum)
	for i, name := range []string{"none", "key_down"} {
		symbol := f.project.SymbolNamed("kestrel::event_type::" + name)
		enumCase := graph.NewEnumCase(symbol, "", []string{"0", "4"}[i])
		f.add(enumCase)
		enum.AddCase(enumCase)
	}
	enum.Cases[1].Symbol().SetScripting("KeyDown")
	return f.project
}

func generate(t *testing.T, project *graph.Project) string {
	generator := luabridge.New(&luabridge.Config{Includes: []string{"libKestrel/lua/runtime/runtime.hpp"}}, enrollment.New(), zaptest.NewLogger(t).Sugar())
	documents, err := generator.Emit(project)
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, graph.KindAPI, documents[0].Kind)
	assert.Equal(t, luabridge.DefaultOutput, documents[0].Path)
	assert.NotZero(t, documents[0].Hash)
	return string(documents[0].Content)
}

// leaf returns body of generated function whose header starts with prefix
func leaf(t *testing.T, source, prefix string) string {
	start := strings.Index(source, prefix)
	require.NotEqual(t, -1, start, prefix)
	end := strings.Index(source[start:], "\n}\n")
	require.NotEqual(t, -1, end)
	return source[start : start+end+3]
}

func TestGenerator_NamespaceRegistration(t *testing.T) {
	source := generate(t, newProject(t))
	body := leaf(t, source, "auto kestrel::enroll_object_api_in_state(")

	assert.Equal(t, 3, strings.Count(body, ".addFunction("))
	assert.Equal(t, 2, strings.Count(body, ".addProperty("))
	withSetter := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(line, ".addProperty(") && strings.Count(line, "&") == 2 {
			withSetter++
		}
	}
	assert.Equal(t, 1, withSetter)
	assert.Contains(t, body, `.addProperty("scale", &kestrel::get_scale, &kestrel::set_scale)`)
	assert.Contains(t, body, `.addProperty("time", &kestrel::current_time)`)
	assert.Contains(t, body, `.addVariable("build", &kestrel::build, false)`)
	assert.Equal(t, 1, strings.Count(body, ".beginNamespace("))
	assert.Equal(t, 1, strings.Count(body, ".endNamespace()"))
	assert.Contains(t, source, "namespace kestrel { auto enroll_object_api_in_state(const std::shared_ptr<kestrel::lua::runtime>& runtime) -> void; }\n")
}

func TestGenerator_ClassRegistration(t *testing.T) {
	source := generate(t, newProject(t))
	expect := `auto kestrel::frame::enroll_object_api_in_state(const std::shared_ptr<kestrel::lua::runtime>& runtime) -> void
{
    runtime->global_namespace()
        .beginNamespace("Kestrel")
            .beginClass<kestrel::frame>("Frame")
                .addConstructor<auto(*)(std::int32_t, std::int32_t)->void, luabridge::RefCountedPtr<kestrel::frame>>()
                .addData("count", &kestrel::frame::count, false)
                .addProperty("width", &kestrel::frame::get_width, &kestrel::frame::set_width)
                .addStaticFunction("create", &kestrel::frame::create)
            .endClass()
        .endNamespace();
}
`
	assert.Equal(t, expect, leaf(t, source, "auto kestrel::frame::enroll_object_api_in_state("))

	vec := leaf(t, source, "template<typename T>\nauto math::vec<T>::enroll(")
	assert.Contains(t, vec, "auto math::vec<T>::enroll(const std::string& name, const std::shared_ptr<kestrel::lua::runtime>& runtime) -> void")
	assert.Contains(t, vec, ".beginClass<math::vec<T>>(name.c_str())")
	assert.Contains(t, vec, `.addFunction("length", &math::vec<T>::length)`)
}

func TestGenerator_EnumRegistration(t *testing.T) {
	source := generate(t, newProject(t))
	body := leaf(t, source, "auto kestrel_event_type_enroll_enum_api(")
	assert.Contains(t, body, "    static auto kestrel_event_type_key_down = static_cast<std::int64_t>(kestrel::event_type::key_down);\n")
	assert.Contains(t, body, `.addVariable("KeyDown", &kestrel_event_type_key_down, false)`)
	assert.Contains(t, body, `.beginNamespace("Kestrel")`)
	assert.Contains(t, body, `.beginNamespace("EventType")`)
	assert.Equal(t, 2, strings.Count(body, ".endNamespace()"))
}

func TestGenerator_RootEnrollment(t *testing.T) {
	source := generate(t, newProject(t))
	root := leaf(t, source, "auto enroll_all(")
	assert.Equal(t, `auto enroll_all(const std::shared_ptr<kestrel::lua::runtime>& runtime) -> void
{
    ::kestrel::enroll_object_api_in_state(runtime);
    ::kestrel::frame::enroll_object_api_in_state(runtime);
    ::math::vec<float>::enroll("Float", runtime);
    ::math::vec<int>::enroll("Int", runtime);
    ::files::enroll(runtime);
    ::kestrel_event_type_enroll_enum_api(runtime);
}
`, root)
	assert.Contains(t, source, "namespace luabind\n{\nauto enroll_all(")
	assert.NotContains(t, source, "auto files::enroll(")
	assert.True(t, strings.HasPrefix(source, "// Lua API auto-generated by luabind.\n"))
	assert.Contains(t, source, "#include <libKestrel/lua/runtime/runtime.hpp>\n#include <kestrel/frame.hpp>\n")
	assert.NotContains(t, source, "frame.cpp")
}

func TestGenerator_TemplateVariantInvocations(t *testing.T) {
	project := newProject(t)
	plans := enrollment.New().Synthesize(project)
	plan := plans.Lookup("math::vec<T>")
	require.NotNil(t, plan)
	require.Len(t, plan.Invocations, 2)
	var names []string
	for _, invocation := range plan.Invocations {
		require.Len(t, invocation.Arguments, 2)
		names = append(names, invocation.Arguments[0])
	}
	assert.Equal(t, []string{`"Float"`, `"Int"`}, names)
}

func TestGenerator_TemplateNestedEnum(t *testing.T) {
	f := &fixture{t: t, project: graph.NewProject("math")}
	vec := graph.NewClass(f.project.SymbolNamed("math::vec<T>"), "")
	vec.Symbol().SetScripting("Vec")
	vec.TemplateParameters = []string{"T"}
	vec.AddVariant("Float", "float")
	vec.AddVariant("Int", "int")
	f.add(vec)
	axis := graph.NewEnum(f.project.SymbolNamed("math::vec<T>::axis"), "")
	axis.Symbol().SetScripting("Axis")
	axis.SetEnrollment(&graph.Enrollment{Symbol: f.project.SymbolNamed("math::vec<T>::axis::enroll_enum_api"), RequiresRuntime: true, Synthesized: true})
	f.add(axis)
	for i, name := range []string{"x", "y"} {
		enumCase := graph.NewEnumCase(f.project.SymbolNamed("math::vec<T>::axis::"+name), "", []string{"0", "1"}[i])
		f.add(enumCase)
		axis.AddCase(enumCase)
	}

	source := generate(t, f.project)
	body := leaf(t, source, "auto math_vec_axis_enroll_enum_api(")
	assert.Contains(t, body, "    static auto math_vec_axis_x = static_cast<std::int64_t>(math::vec<float>::axis::x);\n")
	assert.Contains(t, body, `.addVariable("y", &math_vec_axis_y, false)`)
	assert.Contains(t, source, "    ::math_vec_axis_enroll_enum_api(runtime);\n")
	assert.NotContains(t, source, "<T>_")
	assert.NotContains(t, source, "vec<T>::axis")
}

func TestGenerator_PropertySharesMemberName(t *testing.T) {
	f := &fixture{t: t, project: graph.NewProject("kestrel")}
	frame := graph.NewClass(f.project.SymbolNamed("kestrel::frame"), "")
	frame.Symbol().SetScripting("Frame")
	frame.SetEnrollment(&graph.Enrollment{Symbol: f.project.SymbolNamed("kestrel::frame::enroll_object_api_in_state"), RequiresRuntime: true})
	f.add(frame)
	f.function(&frame.Members, "kestrel::frame::size", "resize", false)
	f.property(&frame.Members, "kestrel::frame::size", f.function(nil, "kestrel::frame::get_size", "", false), nil)

	body := leaf(t, generate(t, f.project), "auto kestrel::frame::enroll_object_api_in_state(")
	assert.Contains(t, body, `.addFunction("resize", &kestrel::frame::size)`)
	assert.Contains(t, body, `.addProperty("size", &kestrel::frame::get_size)`)
}
