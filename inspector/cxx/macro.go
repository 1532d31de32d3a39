package cxx

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/luabind/inspector/annotation"
)

const (
	macroRuntimeType  = "kestrel::lua::runtime"
	macroReferenceTag = "lua_reference"
)

// expansion carries settings macros expand with
type expansion struct {
	master         string
	enrollmentName string
}

// macro expands one annotation macro invocation, args holds arity arguments
type macro struct {
	arity  int
	expand func(e *expansion, args []string) string
}

var versionExpr = regexp.MustCompile(`^(Available|Deprecated)_([0-9][0-9_]*)$`)

var macros = map[string]macro{
	"lua_api":                {arity: 2, expand: symbolMacro},
	"lua_function":           {arity: 2, expand: symbolMacro},
	"lua_case":               {arity: 2, expand: symbolMacro},
	"luatool_type_fix":       {arity: 2, expand: typeFixMacro},
	"lua_fix_parameter_type": {arity: 2, expand: typeFixMacro},
	"lua_use_namespace": {expand: func(e *expansion, _ []string) string {
		return e.annotate(flag(annotation.TagNamespace))
	}},
	"lua_declare_named": {arity: 2, expand: func(e *expansion, args []string) string {
		return e.annotate(pair(annotation.TagSymbol, args[0]) + pair(annotation.TagTemplateVariant, args[1]))
	}},
	"lua_getter": {arity: 2, expand: func(e *expansion, args []string) string {
		return e.annotate(flag(annotation.TagGetter) + pair(annotation.TagSymbol, args[0]) + versionTags(args[1]))
	}},
	"lua_setter": {arity: 2, expand: func(e *expansion, args []string) string {
		return e.annotate(flag(annotation.TagSetter) + pair(annotation.TagSymbol, args[0]) + versionTags(args[1]))
	}},
	"lua_data": {arity: 3, expand: func(e *expansion, args []string) string {
		return e.annotate(pair(annotation.TagSymbol, args[0]) + pair(annotation.TagMutability, args[1]) + versionTags(args[2]))
	}},
	"lua_constructor": {arity: 1, expand: func(e *expansion, args []string) string {
		return e.annotate(flag(annotation.TagConstructor) + versionTags(args[0]))
	}},
	"has_lua_api": {expand: func(e *expansion, _ []string) string {
		return e.annotate(flag(annotation.TagEnrollment)) + " " + e.declaration(false)
	}},
	"has_constructable_lua_api": {arity: 1, expand: func(e *expansion, args []string) string {
		return e.annotate(flag(annotation.TagEnrollment)+pair(annotation.TagReference, macroReferenceTag)) + " " +
			e.declaration(false) + " " + referenceTypedef(args[0])
	}},
	"has_named_constructable_lua_api": {arity: 1, expand: func(e *expansion, args []string) string {
		return e.annotate(flag(annotation.TagEnrollment)+flag(annotation.TagEnrollmentName)+pair(annotation.TagReference, macroReferenceTag)) + " " +
			e.declaration(true) + " " + referenceTypedef(args[0])
	}},
	"construct_custom_lua_api": {arity: 1, expand: func(e *expansion, args []string) string {
		return "auto " + args[0] + "::" + e.enrollmentName + "(const std::shared_ptr<" + macroRuntimeType + ">& runtime) -> void"
	}},
	"luatool_no_implementation": {expand: func(_ *expansion, _ []string) string { return "" }},
}

var macroExpr = func() *regexp.Regexp {
	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return regexp.MustCompile(`\b(` + strings.Join(names, "|") + `)\b`)
}()

func (e *expansion) annotate(components string) string {
	return `[[clang::annotate(` + strconv.Quote(e.master+annotation.Delimiter+components) + `)]]`
}

func (e *expansion) declaration(named bool) string {
	params := "const std::shared_ptr<" + macroRuntimeType + ">& runtime"
	if named {
		params = "const std::string& name, " + params
	}
	return "static auto " + e.enrollmentName + "(" + params + ") -> void;"
}

func referenceTypedef(typeName string) string {
	return "typedef luabridge::RefCountedPtr<" + typeName + "> " + macroReferenceTag + ";"
}

func flag(name string) string {
	return name + annotation.Delimiter
}

func pair(name, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return name + ":" + value + annotation.Delimiter
}

func symbolMacro(e *expansion, args []string) string {
	return e.annotate(pair(annotation.TagSymbol, args[0]) + versionTags(args[1]))
}

func typeFixMacro(e *expansion, args []string) string {
	return e.annotate(pair(annotation.TagSymbol, args[1]) + pair(annotation.TagParameterType, args[0]))
}

// versionTags maps Available_0_8, Deprecated_0_9 and Undocumented tokens to tags
func versionTags(arg string) string {
	var builder strings.Builder
	for _, token := range strings.Fields(arg) {
		if token == "Undocumented" {
			builder.WriteString(flag(annotation.TagUndocumented))
			continue
		}
		match := versionExpr.FindStringSubmatch(token)
		if match == nil {
			continue
		}
		builder.WriteString(pair(strings.ToLower(match[1]), strings.ReplaceAll(match[2], "_", ".")))
	}
	return builder.String()
}

// expand replaces annotation macro invocations with annotate attributes and the declarations they stand for.
// Preprocessor lines and line comments are left untouched, line count is preserved.
func (e *expansion) expand(src []byte) []byte {
	matches := macroExpr.FindAllIndex(src, -1)
	if len(matches) == 0 {
		return src
	}
	var builder strings.Builder
	last := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		if start < last || inDirectiveOrComment(src, start) {
			continue
		}
		definition := macros[string(src[start:end])]
		var args []string
		if definition.arity > 0 {
			var ok bool
			if args, end, ok = macroArguments(src, end); !ok || len(args) != definition.arity {
				continue
			}
		}
		text := definition.expand(e, args)
		if strings.HasSuffix(text, ";") {
			// declaration macros carry their own terminator
			next := end
			for next < len(src) && (src[next] == ' ' || src[next] == '\t') {
				next++
			}
			if next < len(src) && src[next] == ';' {
				end = next + 1
			}
		}
		builder.Write(src[last:start])
		builder.WriteString(text)
		builder.WriteString(strings.Repeat("\n", strings.Count(string(src[start:end]), "\n")))
		last = end
	}
	builder.Write(src[last:])
	return []byte(builder.String())
}

func inDirectiveOrComment(src []byte, pos int) bool {
	lineStart := pos
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	line := string(src[lineStart:pos])
	return strings.HasPrefix(strings.TrimSpace(line), "#") || strings.Contains(line, "//")
}

// macroArguments splits parenthesized arguments at top level commas, returns position after closing parenthesis
func macroArguments(src []byte, pos int) ([]string, int, bool) {
	for pos < len(src) && isSpace(src[pos]) {
		pos++
	}
	if pos >= len(src) || src[pos] != '(' {
		return nil, pos, false
	}
	var args []string
	depth, start := 0, pos+1
	for i := pos; i < len(src); i++ {
		switch src[i] {
		case '(', '<', '[', '{':
			depth++
		case ')', '>', ']', '}':
			depth--
			if depth == 0 && src[i] == ')' {
				return append(args, strings.TrimSpace(string(src[start:i]))), i + 1, true
			}
		case ',':
			if depth == 1 {
				args = append(args, strings.TrimSpace(string(src[start:i])))
				start = i + 1
			}
		}
	}
	return nil, pos, false
}
