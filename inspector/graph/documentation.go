package graph

import (
	"strings"
)

// Documentation represents parsed documentation comment
type Documentation struct {
	Raw         string
	Brief       string
	Description []string
	Returns     string
	Warning     string
	Example     string
	Parameters  []ParameterDoc
}

// ParameterDoc represents @param entry
type ParameterDoc struct {
	Name        string
	Description string
}

// IsEmpty returns true if no documentation text was found
func (d *Documentation) IsEmpty() bool {
	return d == nil || (d.Brief == "" && len(d.Description) == 0 && d.Returns == "" && d.Warning == "" && d.Example == "" && len(d.Parameters) == 0)
}

// Parameter returns @param description for name
func (d *Documentation) Parameter(name string) string {
	if d == nil {
		return ""
	}
	for _, param := range d.Parameters {
		if param.Name == name {
			return param.Description
		}
	}
	return ""
}

// Text returns brief followed by description paragraphs
func (d *Documentation) Text() string {
	if d == nil {
		return ""
	}
	var paragraphs []string
	if d.Brief != "" {
		paragraphs = append(paragraphs, d.Brief)
	}
	paragraphs = append(paragraphs, d.Description...)
	return strings.Join(paragraphs, "\n\n")
}

const (
	sectionText = iota
	sectionBrief
	sectionParam
	sectionReturn
	sectionWarning
	sectionExample
)

// ParseDocumentation parses doxygen style comment text
func ParseDocumentation(raw string) *Documentation {
	doc := &Documentation{Raw: raw}
	section := sectionText
	var paragraph []string
	var example []string

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		text := strings.Join(paragraph, " ")
		paragraph = nil
		switch section {
		case sectionBrief:
			doc.Brief = joinText(doc.Brief, text)
		case sectionParam:
			last := &doc.Parameters[len(doc.Parameters)-1]
			last.Description = joinText(last.Description, text)
		case sectionReturn:
			doc.Returns = joinText(doc.Returns, text)
		case sectionWarning:
			doc.Warning = joinText(doc.Warning, text)
		default:
			if doc.Brief == "" {
				doc.Brief = text
			} else {
				doc.Description = append(doc.Description, text)
			}
		}
	}

	for _, line := range commentLines(raw) {
		trimmed := strings.TrimSpace(line)
		if command, rest, ok := docCommand(trimmed); ok {
			flush()
			switch command {
			case "brief", "short":
				section = sectionBrief
			case "param":
				section = sectionParam
				name, description, _ := strings.Cut(strings.TrimSpace(rest), " ")
				doc.Parameters = append(doc.Parameters, ParameterDoc{Name: strings.TrimSuffix(name, ":")})
				rest = description
			case "return", "returns":
				section = sectionReturn
			case "warning", "note":
				section = sectionWarning
			case "example", "code":
				section = sectionExample
				continue
			case "endcode":
				section = sectionText
				continue
			default:
				section = sectionText
			}
			if rest = strings.TrimSpace(rest); rest != "" {
				paragraph = append(paragraph, rest)
			}
			continue
		}
		if section == sectionExample {
			example = append(example, line)
			continue
		}
		if trimmed == "" {
			flush()
			if section != sectionText {
				section = sectionText
			}
			continue
		}
		paragraph = append(paragraph, trimmed)
	}
	flush()
	doc.Example = strings.Trim(strings.Join(example, "\n"), "\n")
	return doc
}

func joinText(prev, text string) string {
	if prev == "" {
		return text
	}
	return prev + " " + text
}

func docCommand(line string) (string, string, bool) {
	if len(line) < 2 || (line[0] != '@' && line[0] != '\\') {
		return "", "", false
	}
	command, rest, _ := strings.Cut(line[1:], " ")
	return strings.ToLower(command), rest, true
}

// commentLines strips C/C++ comment markers
func commentLines(raw string) []string {
	var result []string
	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "///"), strings.HasPrefix(trimmed, "//!"):
			line = trimmed[3:]
		case strings.HasPrefix(trimmed, "//"):
			line = trimmed[2:]
		case strings.HasPrefix(trimmed, "/**"), strings.HasPrefix(trimmed, "/*!"):
			line = trimmed[3:]
		case strings.HasPrefix(trimmed, "/*"):
			line = trimmed[2:]
		case strings.HasPrefix(trimmed, "*") && !strings.HasPrefix(trimmed, "*/"):
			line = trimmed[1:]
		}
		line = strings.TrimSuffix(strings.TrimRight(line, " \t"), "*/")
		if strings.TrimSpace(line) == "*/" || strings.TrimSpace(line) == "" {
			line = ""
		}
		result = append(result, strings.TrimPrefix(line, " "))
	}
	return result
}
