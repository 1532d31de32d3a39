package enrollment

import (
	"strconv"
	"strings"

	"github.com/viant/luabind/inspector/graph"
)

// Parameter represents leaf enrollment function parameter
type Parameter struct {
	Name string
	Type string
}

// Invocation represents one call of a leaf enrollment function from the root function
type Invocation struct {
	Function  string
	Arguments []string
}

// String returns invocation statement without terminator
func (i *Invocation) String() string {
	return i.Function + "(" + strings.Join(i.Arguments, ", ") + ")"
}

// Plan represents registration function contract of a definition
type Plan struct {
	Definition  graph.Definition
	Enrollment  *graph.Enrollment
	Function    string      // qualified leaf function name, template parameters included
	Qualified   string      // source name of enrolled enum, enclosing templates instantiated
	Template    []string    // template parameters of a generic leaf
	Member      bool        // leaf is declared inside its namespace or class
	Declare     bool        // synthesized namespace member, declared ahead of its definition
	Generate    bool        // leaf body is generated
	Parameters  []Parameter // leaf parameters
	Invocations []*Invocation
}

// Name returns C++ expression of the scripting name registered by the leaf
func (p *Plan) Name() string {
	if p.Enrollment.RequiresName {
		return NameArgument + ".c_str()"
	}
	return strconv.Quote(p.Definition.Symbol().ScriptingName())
}

// Signature returns leaf parameter list
func (p *Plan) Signature() string {
	params := make([]string, 0, len(p.Parameters))
	for _, param := range p.Parameters {
		params = append(params, param.Type+" "+param.Name)
	}
	return strings.Join(params, ", ")
}

// TemplateClause returns template header of a generic leaf or empty string
func (p *Plan) TemplateClause() string {
	if len(p.Template) == 0 {
		return ""
	}
	params := make([]string, 0, len(p.Template))
	for _, name := range p.Template {
		params = append(params, "typename "+name)
	}
	return "template<" + strings.Join(params, ", ") + ">"
}

// Plans represents ordered enrollment plans
type Plans []*Plan

// Lookup returns plan for resolved definition name or nil
func (p Plans) Lookup(resolved string) *Plan {
	for _, plan := range p {
		if plan.Definition.Symbol().Resolved() == resolved {
			return plan
		}
	}
	return nil
}

// Invocations returns root invocations in plan order
func (p Plans) Invocations() []*Invocation {
	var result []*Invocation
	for _, plan := range p {
		result = append(result, plan.Invocations...)
	}
	return result
}
