package schema

import (
	"fmt"
	"math"
	"strings"
)

// Error codes attached to field errors. The retry layer dispatches corrective
// guidance on these codes, never on message wording.
const (
	CodeMissing     = "missing"
	CodeWrongType   = "wrong_type"
	CodeEmptyString = "empty_string"
	CodeEmptyArray  = "empty_array"
	CodeEnum        = "enum"
	CodeRange       = "range"
	CodeItemCount   = "item_count"
)

// FieldError describes one schema violation at a dotted path.
type FieldError struct {
	Path    string
	Code    string
	Message string
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// JoinFieldErrors renders errors as "path: message" lines joined by "; ".
func JoinFieldErrors(errs []FieldError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// Validate checks a decoded JSON value (map[string]any / []any / string /
// float64 / bool trees, as produced by encoding/json) against the schema.
// It returns nil when the value conforms.
func (s *Schema) Validate(value any) []FieldError {
	return validateField(s.Root, value, "$")
}

func validateField(f Field, value any, path string) []FieldError {
	switch f.Kind {
	case KindObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return []FieldError{{Path: path, Code: CodeWrongType,
				Message: fmt.Sprintf("expected object, got %s", typeName(value))}}
		}
		var errs []FieldError
		for _, child := range f.Fields {
			childPath := path + "." + child.Name
			childValue, present := obj[child.Name]
			if !present || childValue == nil {
				errs = append(errs, FieldError{Path: childPath, Code: CodeMissing,
					Message: "required field is missing"})
				continue
			}
			errs = append(errs, validateField(child, childValue, childPath)...)
		}
		return errs

	case KindArray:
		arr, ok := value.([]any)
		if !ok {
			return []FieldError{{Path: path, Code: CodeWrongType,
				Message: fmt.Sprintf("expected array, got %s", typeName(value))}}
		}
		var errs []FieldError
		if len(arr) == 0 && (f.MinItems > 0 || f.ExactItems > 0) {
			errs = append(errs, FieldError{Path: path, Code: CodeEmptyArray,
				Message: "array must not be empty"})
			return errs
		}
		if f.ExactItems > 0 && len(arr) != f.ExactItems {
			errs = append(errs, FieldError{Path: path, Code: CodeItemCount,
				Message: fmt.Sprintf("expected exactly %d items, got %d", f.ExactItems, len(arr))})
		} else if f.MinItems > 0 && len(arr) < f.MinItems {
			errs = append(errs, FieldError{Path: path, Code: CodeItemCount,
				Message: fmt.Sprintf("expected at least %d items, got %d", f.MinItems, len(arr))})
		}
		if f.Elem != nil {
			for i, item := range arr {
				errs = append(errs, validateField(*f.Elem, item, fmt.Sprintf("%s[%d]", path, i))...)
			}
		}
		return errs

	case KindString:
		str, ok := value.(string)
		if !ok {
			return []FieldError{{Path: path, Code: CodeWrongType,
				Message: fmt.Sprintf("expected string, got %s", typeName(value))}}
		}
		if f.NonEmpty && strings.TrimSpace(str) == "" {
			return []FieldError{{Path: path, Code: CodeEmptyString,
				Message: "string must not be empty"}}
		}
		if len(f.Enum) > 0 && !contains(f.Enum, str) {
			return []FieldError{{Path: path, Code: CodeEnum,
				Message: fmt.Sprintf("value %q is not one of %s", str, strings.Join(f.Enum, "|"))}}
		}
		return nil

	case KindInt:
		num, ok := value.(float64)
		if !ok || num != math.Trunc(num) {
			return []FieldError{{Path: path, Code: CodeWrongType,
				Message: fmt.Sprintf("expected integer, got %s", typeName(value))}}
		}
		n := int(num)
		if f.HasRange && (n < f.Min || n > f.Max) {
			return []FieldError{{Path: path, Code: CodeRange,
				Message: fmt.Sprintf("value %d outside range %d-%d", n, f.Min, f.Max)}}
		}
		return nil

	case KindBool:
		if _, ok := value.(bool); !ok {
			return []FieldError{{Path: path, Code: CodeWrongType,
				Message: fmt.Sprintf("expected boolean, got %s", typeName(value))}}
		}
		return nil
	}
	return nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
