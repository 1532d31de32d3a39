package docs_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/luabind/emitter/docs"
	"github.com/viant/luabind/inspector/graph"
	"github.com/viant/luabind/inspector/resource"
	"go.uber.org/zap/zaptest"
)

const frameDocumentation = `/// A drawable frame.
///
/// Frames own a surface.
/// @warning Frames are not thread safe.
/// @example
/// local f = Kestrel.Frame(10, 20)`

const descriptionSchema = `types:
  - code: "dësc"
    name: Description
    fields:
      - name: kind
        values:
          - name: kind
            type: DWRD
            symbols:
              - {name: none, value: "0", documentation: "No description."}
              - {name: ship, value: "1"}
      - name: text
        values:
          - name: text
            type: CSTR
`

func newProject(t *testing.T) *graph.Project {
	project := graph.NewProject("kestrel")
	add := func(definition graph.Definition) {
		require.NoError(t, project.AddDefinition(definition))
	}

	kestrel := graph.NewNamespace(project.SymbolNamed("kestrel"), "include/kestrel/frame.hpp:3")
	kestrel.Symbol().SetScripting("Kestrel")
	kestrel.Symbol().SetDocumentation("/// Core engine API.")
	introduced, err := graph.ParseVersion("0.8")
	require.NoError(t, err)
	kestrel.Symbol().Introduced = introduced
	add(kestrel)
	log := graph.NewFunction(project.SymbolNamed("kestrel::log"), "", "void")
	log.SetUndocumented(true)
	add(log)
	kestrel.AddFunction(log)

	frame := graph.NewClass(project.SymbolNamed("kestrel::frame"), "")
	frame.Symbol().SetScripting("Frame")
	frame.Symbol().SetDocumentation(frameDocumentation)
	frame.Symbol().IncludePath = "kestrel/frame.hpp"
	add(frame)
	constructor := graph.NewConstructor(project.SymbolNamed("kestrel::frame::frame"), "")
	for _, name := range []string{"width", "height"} {
		constructor.AddParameter(graph.NewParameter(project.SymbolNamed("kestrel::frame::frame::"+name), "", "std::int32_t"))
	}
	require.NoError(t, frame.SetConstructor(constructor))

	count := graph.NewVariable(project.SymbolNamed("kestrel::frame::count"), "", "int", true)
	add(count)
	frame.AddVariable(count)

	width := graph.NewProperty(project.SymbolNamed("kestrel::frame::width"), "")
	require.NoError(t, width.SetGetter(graph.NewFunction(project.SymbolNamed("kestrel::frame::get_width"), "", "int")))
	require.NoError(t, width.SetSetter(graph.NewFunction(project.SymbolNamed("kestrel::frame::set_width"), "", "void")))
	add(width)
	frame.AddProperty(width)

	createSymbol := project.SymbolNamed("kestrel::frame::create")
	createSymbol.IsStatic = true
	createSymbol.SetDocumentation("/// Creates a frame.\n/// @param name frame name\n/// @return frame handle")
	create := graph.NewFunction(createSymbol, "", "int")
	create.AddParameter(graph.NewParameter(project.SymbolNamed("kestrel::frame::create::name"), "", "const std::string&"))
	add(create)
	frame.AddFunction(create)

	enum := graph.NewEnum(project.SymbolNamed("kestrel::event_type"), "")
	enum.Symbol().SetScripting("EventType")
	add(enum)
	for i, name := range []string{"none", "key_down"} {
		enumCase := graph.NewEnumCase(project.SymbolNamed("kestrel::event_type::"+name), "", []string{"0", "4"}[i])
		add(enumCase)
		enum.AddCase(enumCase)
	}
	enum.Cases[1].Symbol().SetScripting("KeyDown")
	enum.Cases[1].Symbol().SetDocumentation("/// Key pressed.")

	inspector := resource.NewInspector(project, resource.WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, inspector.InspectSource(context.Background(), "description.yaml", []byte(descriptionSchema)))
	return project
}

func emit(t *testing.T, config *docs.Config) graph.Documents {
	documents, err := docs.New(config, zaptest.NewLogger(t).Sugar()).Emit(newProject(t))
	require.NoError(t, err)
	return documents
}

func page(t *testing.T, documents graph.Documents, path string) string {
	document := documents.Lookup(path)
	require.NotNil(t, document, path)
	return string(document.Content)
}

func TestGenerator_Emit_Pages(t *testing.T) {
	documents := emit(t, &docs.Config{Format: docs.FormatMarkdown})

	assert.ElementsMatch(t, []string{
		"index.md",
		"kestrel.md",
		"kestrel/frame.md",
		"kestrel/frame/count.md",
		"kestrel/frame/width.md",
		"kestrel/frame/create.md",
		"kestrel/event_type.md",
		"dësc.md",
		"dësc/kind.md",
		"dësc/text.md",
	}, documents.Paths())
	assert.Equal(t, 9, documents.Count(graph.KindPage))
	assert.Equal(t, 1, documents.Count(graph.KindIndex))
	for _, document := range documents {
		assert.NotZero(t, document.Hash, document.Path)
	}
}

func TestGenerator_Emit_Markdown(t *testing.T) {
	documents := emit(t, &docs.Config{Format: docs.FormatMarkdown})

	var testCases = []struct {
		description string
		path        string
		expect      []string
		absent      []string
	}{
		{
			description: "namespace",
			path:        "kestrel.md",
			expect: []string{
				"# Kestrel\n\n",
				"| Available | 0.8 |",
				"Core engine API.\n\n",
				"## Classes\n\n- [Frame](kestrel/frame.md)\n\n",
				"## Enums\n\n- [EventType](kestrel/event_type.md)\n\n",
			},
			absent: []string{"## Functions", "log"},
		},
		{
			description: "class",
			path:        "kestrel/frame.md",
			expect: []string{
				"# Kestrel.Frame\n\n",
				"| Aspect | Value |\n| --- | --- |\n| File | `kestrel/frame.hpp` |\n| C++ Symbol | `kestrel::frame` |\n| Available | Unknown |\n\n",
				"A drawable frame.\n\nFrames own a surface.\n\n",
				"## Warning\n\nFrames are not thread safe.\n\n",
				"## Example\n\n```lua\nlocal f = Kestrel.Frame(10, 20)\n```\n\n",
				"## Constructor\n\n`new(std::int32_t width, std::int32_t height)`\n\n",
				"## Variables\n\n- [count](frame/count.md)\n\n",
				"## Properties\n\n- [width](frame/width.md)\n\n",
				"## Functions\n\n- [create](frame/create.md)\n\n",
			},
		},
		{
			description: "function",
			path:        "kestrel/frame/create.md",
			expect: []string{
				"# Kestrel.Frame.create\n\n",
				"`create(const std::string& name) -> int`",
				"| `name` | `const std::string&` | frame name |",
				"## Returns\n\n`int` frame handle\n\n",
			},
		},
		{
			description: "property",
			path:        "kestrel/frame/width.md",
			expect: []string{
				"| Type | `int` |",
				"| Access | read-write |",
				"| Scope | instance |",
				"| Setter | `kestrel::frame::set_width` |",
			},
		},
		{
			description: "enum",
			path:        "kestrel/event_type.md",
			expect: []string{
				"## Cases\n\n| Name | Value | Description |\n| --- | --- | --- |\n| `none` | 0 |  |\n| `KeyDown` | 4 | Key pressed. |\n\n",
			},
		},
		{
			description: "resource type",
			path:        "dësc.md",
			expect: []string{
				"# Description\n\n",
				"| Resource Type Code | `dësc` |",
				"## Fields\n\n- [kind](dësc/kind.md)\n- [text](dësc/text.md)\n\n",
				"| 0 | 2 | `DWRD` | kind | kind |\n| 2 | var | `CSTR` | text | text |\n",
			},
			absent: []string{"C++ Symbol"},
		},
		{
			description: "resource field",
			path:        "dësc/kind.md",
			expect: []string{
				"# Description.kind\n\n",
				"| `kind` | `DWRD` |  |",
				"### kind Symbols\n\n",
				"| `none` | 0 | No description. |\n| `ship` | 1 |  |\n",
			},
			absent: []string{"C++ Symbol", "Resource Type Code"},
		},
		{
			description: "index",
			path:        "index.md",
			expect: []string{
				"# API Reference\n\n",
				"## Namespaces\n\n- [Kestrel](kestrel.md)\n\n",
				"## Classes\n\n- [Kestrel.Frame](kestrel/frame.md)\n\n",
				"## Enums\n\n- [Kestrel.EventType](kestrel/event_type.md)\n\n",
				"## Resource Types\n\n- [Description](dësc.md)\n\n",
			},
		},
	}

	for _, testCase := range testCases {
		content := page(t, documents, testCase.path)
		for _, expect := range testCase.expect {
			assert.Contains(t, content, expect, testCase.description)
		}
		for _, absent := range testCase.absent {
			assert.NotContains(t, content, absent, testCase.description)
		}
	}
}

func TestGenerator_Emit_Root(t *testing.T) {
	documents := emit(t, &docs.Config{Format: docs.FormatMarkdown, Root: "https://docs.example.com/api/", Title: "Kestrel"})

	assert.Contains(t, page(t, documents, "kestrel/frame.md"), "- [count](https://docs.example.com/api/kestrel/frame/count.md)\n")
	index := page(t, documents, "index.md")
	assert.True(t, strings.HasPrefix(index, "# Kestrel\n\n"))
	assert.Contains(t, index, "[Kestrel.Frame](https://docs.example.com/api/kestrel/frame.md)")
}

func TestGenerator_Emit_HTML(t *testing.T) {
	documents := emit(t, &docs.Config{Format: docs.FormatHTML})
	assert.Equal(t, 10, len(documents))
	assert.NotNil(t, documents.Lookup("index.html"))

	content := page(t, documents, "kestrel/frame.html")
	assert.True(t, strings.HasPrefix(content, "<!DOCTYPE html>"))
	assert.Contains(t, content, "<title>Kestrel.Frame</title>")
	assert.Contains(t, content, `<h1 class="class symbol">Kestrel.Frame</h1>`)
	assert.Contains(t, content, "<td><code>kestrel::frame</code></td>")
	assert.Contains(t, content, `<li class="variable"><a href="frame/count.html">count</a></li>`)
	assert.Contains(t, content, `<pre><code class="language-lua">local f = Kestrel.Frame(10, 20)</code></pre>`)
}

func TestGenerator_Emit_UnsupportedFormat(t *testing.T) {
	_, err := docs.New(&docs.Config{Format: "pdf"}, nil).Emit(graph.NewProject("empty"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, docs.ErrUnsupportedFormat))
}

func TestGenerator_Emit_Empty(t *testing.T) {
	documents, err := docs.New(nil, nil).Emit(graph.NewProject("empty"))
	require.NoError(t, err)
	require.Len(t, documents, 1)
	assert.Equal(t, "index.md", documents[0].Path)
	assert.Equal(t, "# API Reference\n\n", string(documents[0].Content))
}

func TestGenerator_Emit_PropertySharesMemberName(t *testing.T) {
	project := graph.NewProject("kestrel")
	frame := graph.NewClass(project.SymbolNamed("kestrel::frame"), "")
	require.NoError(t, project.AddDefinition(frame))
	resizeSymbol := project.SymbolNamed("kestrel::frame::size")
	resizeSymbol.SetScripting("resize")
	resize := graph.NewFunction(resizeSymbol, "", "void")
	require.NoError(t, project.AddDefinition(resize))
	frame.AddFunction(resize)
	size := graph.NewProperty(project.PropertySymbol(frame.Symbol(), "size"), "")
	require.NoError(t, size.SetGetter(graph.NewFunction(project.SymbolNamed("kestrel::frame::get_size"), "", "int")))
	require.NoError(t, project.AddDefinition(size))
	frame.AddProperty(size)

	documents, err := docs.New(&docs.Config{Format: docs.FormatMarkdown}, zaptest.NewLogger(t).Sugar()).Emit(project)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"index.md",
		"kestrel/frame.md",
		"kestrel/frame/size.md",
		"kestrel/frame/size_property.md",
	}, documents.Paths())
	assert.Contains(t, page(t, documents, "kestrel/frame/size.md"), "resize")
	assert.Contains(t, page(t, documents, "kestrel/frame.md"), "(frame/size_property.md)")
}

func TestGenerator_Emit_RepeatLimit(t *testing.T) {
	project := graph.NewProject("kestrel")
	resourceType := graph.NewResourceType(project.SymbolNamed("stär"), "", "stär")
	require.NoError(t, project.AddDefinition(resourceType))
	point := graph.NewResourceField(project.SymbolNamed("stär::point"), "", &graph.Repeat{Count: graph.MaxRepeatCount + 1})
	point.AddValue(graph.NewResourceValue(project.SymbolNamed("stär::point::x"), "", "DWRD"))
	resourceType.AddField(point)

	_, err := docs.New(&docs.Config{Format: docs.FormatMarkdown}, zaptest.NewLogger(t).Sugar()).Emit(project)
	require.Error(t, err)
	assert.True(t, errors.Is(err, graph.ErrRepeatLimit))
}
