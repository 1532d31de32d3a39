package enrollment

import (
	"strconv"
	"strings"

	"github.com/viant/luabind/inspector/graph"
	"go.uber.org/zap"
)

const (
	// DefaultEnrollmentName names synthesized enrollment functions
	DefaultEnrollmentName = "enroll_object_api_in_state"
	// DefaultRuntimeType is scripting runtime handle type
	DefaultRuntimeType = "kestrel::lua::runtime"
	// RuntimeArgument names runtime handle in generated code
	RuntimeArgument = "runtime"
	// NameArgument names registered scripting name in generated code
	NameArgument = "name"
)

// Synthesizer derives registration function contracts for namespace, class and enum definitions
type Synthesizer struct {
	runtimeType string
	logger      *zap.SugaredLogger
}

// Option represents synthesizer option
type Option func(s *Synthesizer)

// WithRuntimeType sets scripting runtime handle type
func WithRuntimeType(runtimeType string) Option {
	return func(s *Synthesizer) {
		if runtimeType != "" {
			s.runtimeType = runtimeType
		}
	}
}

// WithLogger sets logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Synthesizer) {
		s.logger = logger
	}
}

// New creates a synthesizer
func New(options ...Option) *Synthesizer {
	ret := &Synthesizer{
		runtimeType: DefaultRuntimeType,
		logger:      zap.NewNop().Sugar(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// RuntimeParameterType returns runtime handle parameter type
func (s *Synthesizer) RuntimeParameterType() string {
	return "const std::shared_ptr<" + s.runtimeType + ">&"
}

// Synthesize returns plans of project definitions in discovery order
func (s *Synthesizer) Synthesize(project *graph.Project) Plans {
	var result Plans
	for _, definition := range project.Definitions() {
		if plan := s.Plan(definition); plan != nil {
			result = append(result, plan)
		}
	}
	return result
}

// Plan returns registration plan of definition, nil when definition is not enrolled
func (s *Synthesizer) Plan(definition graph.Definition) *Plan {
	switch actual := definition.(type) {
	case *graph.Namespace:
		if actual.Enrollment() == nil {
			return nil
		}
		return s.namespace(actual)
	case *graph.Class:
		if actual.Enrollment() == nil {
			return nil
		}
		return s.class(actual)
	case *graph.Enum:
		if actual.Enrollment() == nil {
			return nil
		}
		return s.enum(actual)
	}
	return nil
}

func (s *Synthesizer) newPlan(definition graph.Definition) *Plan {
	enrollment := definition.Enrollment()
	plan := &Plan{Definition: definition, Enrollment: enrollment, Generate: !enrollment.HandWritten}
	if enrollment.RequiresName {
		plan.Parameters = append(plan.Parameters, Parameter{Name: NameArgument, Type: "const std::string&"})
	}
	if enrollment.RequiresRuntime {
		plan.Parameters = append(plan.Parameters, Parameter{Name: RuntimeArgument, Type: s.RuntimeParameterType()})
	}
	return plan
}

func (s *Synthesizer) arguments(enrollment *graph.Enrollment, name string) []string {
	var args []string
	if enrollment.RequiresName {
		args = append(args, strconv.Quote(name))
	}
	if enrollment.RequiresRuntime {
		args = append(args, RuntimeArgument)
	}
	return args
}

func (s *Synthesizer) namespace(namespace *graph.Namespace) *Plan {
	plan := s.newPlan(namespace)
	plan.Member = true
	plan.Declare = plan.Enrollment.Synthesized
	plan.Function = namespace.Symbol().Resolved() + graph.SourceSeparator + plan.Enrollment.Symbol.Name
	plan.Invocations = []*Invocation{{Function: plan.Function, Arguments: s.arguments(plan.Enrollment, namespace.Symbol().ScriptingName())}}
	return plan
}

func (s *Synthesizer) class(class *graph.Class) *Plan {
	plan := s.newPlan(class)
	symbol := class.Symbol()
	name := plan.Enrollment.Symbol.Name
	plan.Template = class.TemplateParameters
	if plan.Enrollment.Synthesized {
		// synthesized functions cannot be class members, they are emitted as free functions
		plan.Function = flatten(symbol) + "_" + name
	} else {
		plan.Member = true
		plan.Function = symbol.Resolved() + graph.SourceSeparator + name
	}
	if !class.IsTemplate() {
		plan.Invocations = []*Invocation{{Function: plan.Function, Arguments: s.arguments(plan.Enrollment, symbol.ScriptingName())}}
		return plan
	}
	if len(class.Variants) == 0 {
		s.logger.Warnw("template class without variants is not enrolled", "symbol", symbol.Resolved())
		return plan
	}
	for _, variant := range class.Variants {
		function := plan.Function
		if plan.Member {
			function = instantiate(symbol, variant.Type) + graph.SourceSeparator + name
		} else {
			function += "<" + variant.Type + ">"
		}
		plan.Invocations = append(plan.Invocations, &Invocation{Function: function, Arguments: s.arguments(plan.Enrollment, variant.Name)})
	}
	return plan
}

func (s *Synthesizer) enum(enum *graph.Enum) *Plan {
	plan := s.newPlan(enum)
	symbol := enum.Symbol()
	plan.Function = flatten(symbol) + "_" + plan.Enrollment.Symbol.Name
	source, ok := qualified(symbol)
	if !ok {
		s.logger.Warnw("enum nested in template class without variants is not enrolled", "symbol", symbol.Resolved())
		plan.Generate = false
		return plan
	}
	plan.Qualified = source
	plan.Invocations = []*Invocation{{Function: plan.Function, Arguments: s.arguments(plan.Enrollment, symbol.ScriptingName())}}
	return plan
}

// flatten joins source scopes of symbol with underscore, template arguments excluded
func flatten(symbol *graph.Symbol) string {
	return symbol.FlatName()
}

// qualified returns resolved source name with enclosing template classes instantiated by their first variant
func qualified(symbol *graph.Symbol) (string, bool) {
	segments := []string{symbol.Name}
	for parent := symbol.Parent(); parent != nil; parent = parent.Parent() {
		name := parent.Name
		if class, ok := parent.Definition().(*graph.Class); ok && class.IsTemplate() {
			if len(class.Variants) == 0 {
				return "", false
			}
			name = parent.BaseName() + "<" + class.Variants[0].Type + ">"
		}
		segments = append([]string{name}, segments...)
	}
	return strings.Join(segments, graph.SourceSeparator), true
}

// instantiate returns resolved source name with template arguments replaced by args
func instantiate(symbol *graph.Symbol, args string) string {
	name := symbol.BaseName() + "<" + args + ">"
	if len(symbol.Path) == 0 {
		return name
	}
	return strings.Join(symbol.Path, graph.SourceSeparator) + graph.SourceSeparator + name
}
