// Package schema declares the output shapes the analysis pipeline expects from
// the model and checks decoded values against them. The same Schema drives both
// the decode-time constraint handed to the model runtime and the post-hoc
// validator, so the two can never drift apart.
package schema

import (
	"fmt"
	"strings"
)

// Kind enumerates the value kinds a field can hold.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Field describes one schema node: its name, kind, and constraints.
type Field struct {
	Name        string
	Kind        Kind
	Description string

	// String constraints.
	NonEmpty bool
	Enum     []string

	// Integer constraints, inclusive. Applied when HasRange is true.
	HasRange bool
	Min, Max int

	// Object fields, in declaration order. All are required.
	Fields []Field

	// Array element shape and cardinality. ExactItems of 0 means unconstrained.
	Elem       *Field
	MinItems   int
	ExactItems int
}

// Schema is a named root object shape.
type Schema struct {
	Name string
	Root Field
}

// Object is a convenience constructor for a root schema.
func Object(name string, fields ...Field) *Schema {
	return &Schema{
		Name: name,
		Root: Field{Name: name, Kind: KindObject, Fields: fields},
	}
}

// Instruction renders the schema as a compact prompt-ready description of the
// required JSON shape. Model runtimes without native structured output append
// this to the system prompt; runtimes with native support translate the Schema
// directly and ignore it.
func (s *Schema) Instruction() string {
	var b strings.Builder
	b.WriteString("Respond with a single JSON object, no prose and no markdown fences, shaped exactly as:\n")
	writeFieldSkeleton(&b, s.Root, 0)
	return b.String()
}

func writeFieldSkeleton(b *strings.Builder, f Field, depth int) {
	indent := strings.Repeat("  ", depth)
	switch f.Kind {
	case KindObject:
		b.WriteString("{\n")
		for i, child := range f.Fields {
			b.WriteString(indent + "  ")
			fmt.Fprintf(b, "%q: ", child.Name)
			writeFieldSkeleton(b, child, depth+1)
			if i < len(f.Fields)-1 {
				b.WriteString(",")
			}
			if hint := child.hint(); hint != "" {
				b.WriteString("  // " + hint)
			}
			b.WriteString("\n")
		}
		b.WriteString(indent + "}")
	case KindArray:
		b.WriteString("[")
		if f.Elem != nil {
			writeFieldSkeleton(b, *f.Elem, depth)
			b.WriteString(", ...")
		}
		b.WriteString("]")
	case KindString:
		b.WriteString(`"..."`)
	case KindInt:
		b.WriteString("0")
	case KindBool:
		b.WriteString("true")
	}
}

func (f Field) hint() string {
	parts := make([]string, 0, 3)
	if f.Description != "" {
		parts = append(parts, f.Description)
	}
	if len(f.Enum) > 0 {
		parts = append(parts, "one of: "+strings.Join(f.Enum, "|"))
	}
	if f.HasRange {
		parts = append(parts, fmt.Sprintf("%d-%d", f.Min, f.Max))
	}
	if f.ExactItems > 0 {
		parts = append(parts, fmt.Sprintf("exactly %d items", f.ExactItems))
	} else if f.MinItems > 0 {
		parts = append(parts, fmt.Sprintf("at least %d item(s)", f.MinItems))
	}
	if f.NonEmpty {
		parts = append(parts, "non-empty")
	}
	return strings.Join(parts, "; ")
}
