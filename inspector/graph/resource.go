package graph

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// MaxRepeatCount limits expansion of repeated fields in binary layouts
const MaxRepeatCount = 1024

// ResourceType represents DSL resource type
type ResourceType struct {
	Base
	Code   string
	Fields []*ResourceField
}

func (r *ResourceType) Kind() Kind {
	return KindResourceType
}

// AddField appends field
func (r *ResourceType) AddField(field *ResourceField) {
	r.Fields = append(r.Fields, field)
}

// NewResourceType creates a resource type
func NewResourceType(symbol *Symbol, location, code string) *ResourceType {
	return &ResourceType{Base: newBase(symbol, location), Code: code}
}

// Repeat represents repeat-count metadata of a field
type Repeat struct {
	Count int `yaml:"count"`
	Lower int `yaml:"lower"`
	Upper int `yaml:"upper"`
}

// Validate checks repeat count is within [0, MaxRepeatCount]
func (r *Repeat) Validate() error {
	if r == nil {
		return nil
	}
	if r.Count < 0 || r.Count > MaxRepeatCount {
		return errors.Wrapf(ErrRepeatLimit, "count %d, expected 0..%d", r.Count, MaxRepeatCount)
	}
	return nil
}

// ResourceField represents resource field
type ResourceField struct {
	Base
	Repeat *Repeat
	Values []*ResourceValue
}

func (r *ResourceField) Kind() Kind {
	return KindResourceField
}

// AddValue appends value
func (r *ResourceField) AddValue(value *ResourceValue) {
	r.Values = append(r.Values, value)
}

// NewResourceField creates a resource field
func NewResourceField(symbol *Symbol, location string, repeat *Repeat) *ResourceField {
	return &ResourceField{Base: newBase(symbol, location), Repeat: repeat}
}

// ResourceValue represents binary value of a field
type ResourceValue struct {
	Base
	Type    string
	Symbols []*ResourceValueSymbol
}

func (r *ResourceValue) Kind() Kind {
	return KindResourceValue
}

// AddSymbol appends value symbol
func (r *ResourceValue) AddSymbol(symbol *ResourceValueSymbol) {
	r.Symbols = append(r.Symbols, symbol)
}

// NewResourceValue creates a resource value
func NewResourceValue(symbol *Symbol, location, typeCode string) *ResourceValue {
	return &ResourceValue{Base: newBase(symbol, location), Type: typeCode}
}

// ResourceValueSymbol represents named constant of a value
type ResourceValueSymbol struct {
	Base
	Value string
}

func (r *ResourceValueSymbol) Kind() Kind {
	return KindResourceValueSymbol
}

// NewResourceValueSymbol creates a resource value symbol
func NewResourceValueSymbol(symbol *Symbol, location, value string) *ResourceValueSymbol {
	return &ResourceValueSymbol{Base: newBase(symbol, location), Value: value}
}

// LayoutEntry represents one value in binary layout
type LayoutEntry struct {
	Offset int // -1 once a variable sized value was laid out
	Size   int // -1 for variable sized value
	Type   string
	Field  string
	Value  string
}

// OffsetText returns offset or "+var"
func (l LayoutEntry) OffsetText() string {
	if l.Offset < 0 {
		return "+var"
	}
	return strconv.Itoa(l.Offset)
}

// SizeText returns size or "var"
func (l LayoutEntry) SizeText() string {
	if l.Size < 0 {
		return "var"
	}
	return strconv.Itoa(l.Size)
}

var valueSizes = map[string]int{
	"DBYT": 1, "HBYT": 1, "CHAR": 1, "BOOL": 1,
	"DWRD": 2, "HWRD": 2,
	"DLNG": 4, "HLNG": 4, "FLOT": 4,
	"DQWD": 8, "HQWD": 8, "RECT": 8, "DBLE": 8,
	"PSTR": -1, "CSTR": -1, "HEXD": -1, "LSTR": -1,
}

// ValueSize returns byte size of binary type code, -1 when variable sized
func ValueSize(typeCode string) int {
	code := strings.ToUpper(strings.TrimSpace(typeCode))
	if size, ok := valueSizes[code]; ok {
		return size
	}
	if len(code) == 4 && (code[0] == 'C' || code[0] == 'P' || code[0] == 'H') {
		if size, err := strconv.ParseInt(code[1:], 16, 32); err == nil {
			return int(size)
		}
	}
	return -1
}

// Layout returns binary layout of fields, repeated fields are expanded by repeat count
func (r *ResourceType) Layout() ([]LayoutEntry, error) {
	var result []LayoutEntry
	offset := 0
	for _, field := range r.Fields {
		if err := field.Repeat.Validate(); err != nil {
			return nil, errors.Wrapf(err, "field %v", field.Symbol().Resolved())
		}
		count := 1
		if field.Repeat != nil && field.Repeat.Count > 1 {
			count = field.Repeat.Count
		}
		for i := 0; i < count; i++ {
			fieldName := field.Symbol().ScriptingName()
			if count > 1 {
				fieldName += "[" + strconv.Itoa(i) + "]"
			}
			for _, value := range field.Values {
				size := ValueSize(value.Type)
				result = append(result, LayoutEntry{Offset: offset, Size: size, Type: value.Type, Field: fieldName, Value: value.Symbol().ScriptingName()})
				if offset < 0 || size < 0 {
					offset = -1
					continue
				}
				offset += size
			}
		}
	}
	return result, nil
}
