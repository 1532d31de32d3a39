package luabridge

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/luabind/emitter/enrollment"
	"github.com/viant/luabind/inspector/graph"
	"go.uber.org/zap"
)

const indentation = "    "

const (
	// Backend names LuaBridge registration dialect
	Backend = "luabridge"
	// DefaultOutput is default registration source name
	DefaultOutput = "lua_api.cpp"
	// DefaultGlobalNamespace opens global scripting namespace
	DefaultGlobalNamespace = "runtime->global_namespace()"
	// DefaultRootFunction names root enrollment function
	DefaultRootFunction = "luabind::enroll_all"
	// DefaultReferenceType wraps constructed objects
	DefaultReferenceType = "luabridge::RefCountedPtr"
)

// DefaultIncludes are system includes of every generated source
var DefaultIncludes = []string{"cstdint", "memory", "string"}

var headerExtensions = map[string]bool{".h": true, ".hh": true, ".hpp": true, ".hxx": true}

// Config represents registration source settings
type Config struct {
	Output          string
	Includes        []string
	GlobalNamespace string
	RootFunction    string
	ReferenceType   string
}

// Generator emits LuaBridge registration source
type Generator struct {
	config      *Config
	synthesizer *enrollment.Synthesizer
	logger      *zap.SugaredLogger
}

// New creates a generator
func New(config *Config, synthesizer *enrollment.Synthesizer, logger *zap.SugaredLogger) *Generator {
	ret := &Config{}
	if config != nil {
		*ret = *config
	}
	if ret.Output == "" {
		ret.Output = DefaultOutput
	}
	if ret.GlobalNamespace == "" {
		ret.GlobalNamespace = DefaultGlobalNamespace
	}
	if ret.RootFunction == "" {
		ret.RootFunction = DefaultRootFunction
	}
	if ret.ReferenceType == "" {
		ret.ReferenceType = DefaultReferenceType
	}
	if synthesizer == nil {
		synthesizer = enrollment.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Generator{config: ret, synthesizer: synthesizer, logger: logger}
}

// Emit generates registration source document
func (g *Generator) Emit(project *graph.Project) (graph.Documents, error) {
	plans := g.synthesizer.Synthesize(project)
	content := g.Generate(project, plans)
	var result graph.Documents
	result.Append(&graph.Document{Kind: graph.KindAPI, Path: g.config.Output, Name: g.config.RootFunction, Content: content})
	g.logger.Infow("generated registration source", "path", g.config.Output, "definitions", len(plans), "invocations", len(plans.Invocations()))
	return result, nil
}

// Generate renders registration source of plans
func (g *Generator) Generate(project *graph.Project, plans enrollment.Plans) []byte {
	builder := &strings.Builder{}
	builder.WriteString("// Lua API auto-generated by luabind.\n")
	builder.WriteString("// Do not edit or commit this file into source control.\n\n")
	g.includes(builder, project)
	g.declarations(builder, plans)
	for _, plan := range plans {
		if !plan.Generate {
			continue
		}
		g.leaf(builder, plan)
	}
	g.root(builder, plans)
	return []byte(builder.String())
}

func (g *Generator) includes(builder *strings.Builder, project *graph.Project) {
	seen := map[string]bool{}
	include := func(path string) {
		if path == "" || seen[path] {
			return
		}
		seen[path] = true
		builder.WriteString("#include <" + path + ">\n")
	}
	for _, path := range DefaultIncludes {
		include(path)
	}
	for _, path := range g.config.Includes {
		include(path)
	}
	for _, file := range project.Files {
		if headerExtensions[strings.ToLower(filepath.Ext(file))] {
			include(project.IncludePath(file))
		}
	}
	builder.WriteString("\n")
}

func (g *Generator) declarations(builder *strings.Builder, plans enrollment.Plans) {
	count := 0
	for _, plan := range plans {
		if !plan.Declare {
			continue
		}
		count++
		g.declare(builder, plan.Function, plan.TemplateClause(), plan.Signature())
	}
	if count > 0 {
		builder.WriteString("\n")
	}
}

// declare writes function declaration nested in the namespaces of a qualified name
func (g *Generator) declare(builder *strings.Builder, function, template, signature string) {
	segments := graph.SplitName(function)
	for _, name := range segments[:len(segments)-1] {
		builder.WriteString("namespace " + name + " { ")
	}
	if template != "" {
		builder.WriteString(template + " ")
	}
	builder.WriteString(fmt.Sprintf("auto %v(%v) -> void;", segments[len(segments)-1], signature))
	for range segments[:len(segments)-1] {
		builder.WriteString(" }")
	}
	builder.WriteString("\n")
}

func (g *Generator) signature(plan *enrollment.Plan) string {
	header := fmt.Sprintf("auto %v(%v) -> void\n", plan.Function, plan.Signature())
	if clause := plan.TemplateClause(); clause != "" {
		header = clause + "\n" + header
	}
	return header
}

func (g *Generator) leaf(builder *strings.Builder, plan *enrollment.Plan) {
	builder.WriteString(g.signature(plan))
	builder.WriteString("{\n")
	lua := &chain{builder: builder, indent: 1}
	switch actual := plan.Definition.(type) {
	case *graph.Namespace:
		g.namespace(lua, actual)
	case *graph.Class:
		g.class(lua, plan, actual)
	case *graph.Enum:
		g.enum(builder, lua, plan, actual)
	}
	lua.flush()
	builder.WriteString("}\n\n")
}

func (g *Generator) root(builder *strings.Builder, plans enrollment.Plans) {
	segments := graph.SplitName(g.config.RootFunction)
	for _, name := range segments[:len(segments)-1] {
		builder.WriteString("namespace " + name + "\n{\n")
	}
	builder.WriteString(fmt.Sprintf("auto %v(%v %v) -> void\n{\n", segments[len(segments)-1], g.synthesizer.RuntimeParameterType(), enrollment.RuntimeArgument))
	for _, invocation := range plans.Invocations() {
		builder.WriteString(indentation + qualify(invocation.Function) + "(" + strings.Join(invocation.Arguments, ", ") + ");\n")
	}
	builder.WriteString("}\n")
	for range segments[:len(segments)-1] {
		builder.WriteString("}\n")
	}
}

// qualify anchors a qualified name at global scope, root function may live in a namespace
func qualify(name string) string {
	return "::" + name
}

func (g *Generator) namespace(lua *chain, namespace *graph.Namespace) {
	symbol := namespace.Symbol()
	lua.begin("%v", g.config.GlobalNamespace)
	lua.namespaces(append(append([]string{}, symbol.ScriptingNamespace()...), symbol.ScriptingName()), func() {
		for _, variable := range namespace.Variables {
			lua.call(".addVariable(%q, &%v, %v)", variable.Symbol().ScriptingName(), variable.Symbol().Resolved(), variable.Mutable)
		}
		for _, property := range namespace.Properties {
			lua.call(".addProperty(%q, %v)", property.Symbol().ScriptingName(), accessors(property))
		}
		for _, function := range namespace.Functions {
			lua.call(".addFunction(%q, &%v)", function.Symbol().ScriptingName(), function.Symbol().Resolved())
		}
	})
}

func (g *Generator) class(lua *chain, plan *enrollment.Plan, class *graph.Class) {
	symbol := class.Symbol()
	classType := symbol.Resolved()
	lua.begin("%v", g.config.GlobalNamespace)
	lua.namespaces(symbol.ScriptingNamespace(), func() {
		lua.begin(".beginClass<%v>(%v)", classType, plan.Name())
		if class.Constructor != nil {
			reference := plan.Enrollment.Reference
			if reference == "" {
				reference = g.config.ReferenceType + "<" + classType + ">"
			}
			var params []string
			for _, param := range class.Constructor.Parameters {
				params = append(params, param.Type)
			}
			lua.call(".addConstructor<auto(*)(%v)->void, %v>()", strings.Join(params, ", "), reference)
		}
		for _, variable := range class.Variables {
			call := ".addData"
			if variable.Symbol().IsStatic {
				call = ".addStaticData"
			}
			lua.call("%v(%q, &%v, %v)", call, variable.Symbol().ScriptingName(), variable.Symbol().Resolved(), variable.Mutable)
		}
		for _, property := range class.Properties {
			call := ".addProperty"
			if property.IsStatic() {
				call = ".addStaticProperty"
			}
			lua.call("%v(%q, %v)", call, property.Symbol().ScriptingName(), accessors(property))
		}
		for _, function := range class.Functions {
			call := ".addFunction"
			if function.IsStatic() {
				call = ".addStaticFunction"
			}
			lua.call("%v(%q, &%v)", call, function.Symbol().ScriptingName(), function.Symbol().Resolved())
		}
		lua.end(".endClass()")
	})
}

func (g *Generator) enum(builder *strings.Builder, lua *chain, plan *enrollment.Plan, enum *graph.Enum) {
	symbol := enum.Symbol()
	prefix := symbol.FlatName()
	for _, enumCase := range enum.Cases {
		source := plan.Qualified + graph.SourceSeparator + enumCase.Symbol().Name
		builder.WriteString(fmt.Sprintf("%vstatic auto %v_%v = static_cast<std::int64_t>(%v);\n", indentation, prefix, enumCase.Symbol().Name, source))
	}
	lua.begin("%v", g.config.GlobalNamespace)
	lua.namespaces(append(append([]string{}, symbol.ScriptingNamespace()...), symbol.ScriptingName()), func() {
		for _, enumCase := range enum.Cases {
			lua.call(".addVariable(%q, &%v_%v, false)", enumCase.Symbol().ScriptingName(), prefix, enumCase.Symbol().Name)
		}
	})
}

// accessors returns getter and optional setter pointers of property
func accessors(property *graph.Property) string {
	getter := "nullptr"
	if property.Getter != nil {
		getter = "&" + property.Getter.Symbol().Resolved()
	}
	if property.Setter == nil {
		return getter
	}
	return getter + ", &" + property.Setter.Symbol().Resolved()
}
