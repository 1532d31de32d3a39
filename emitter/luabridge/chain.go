package luabridge

import (
	"fmt"
	"strings"
)

// chain renders a LuaBridge call chain with one call per line
type chain struct {
	builder *strings.Builder
	indent  int
	lines   []string
	depth   int
}

func (c *chain) call(format string, args ...interface{}) {
	c.lines = append(c.lines, strings.Repeat(indentation, c.indent+c.depth)+fmt.Sprintf(format, args...))
}

func (c *chain) begin(format string, args ...interface{}) {
	c.call(format, args...)
	c.depth++
}

func (c *chain) end(call string) {
	c.depth--
	c.call("%v", call)
}

// namespaces opens path, runs fn and closes every opened namespace
func (c *chain) namespaces(path []string, fn func()) {
	for _, name := range path {
		c.begin(".beginNamespace(%q)", name)
	}
	fn()
	for range path {
		c.end(".endNamespace()")
	}
}

// flush writes chain terminated by semicolon
func (c *chain) flush() {
	if len(c.lines) == 0 {
		return
	}
	c.lines[len(c.lines)-1] += ";"
	for _, line := range c.lines {
		c.builder.WriteString(line)
		c.builder.WriteString("\n")
	}
	c.lines = nil
}
