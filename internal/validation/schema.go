package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FieldType is the JSON type a schema field expects.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeArray  FieldType = "array"
	FieldTypeObject FieldType = "object"
)

// Field describes one key of a decoded JSON object.
type Field struct {
	Name     string
	Type     FieldType
	Required bool

	// String bounds, counted in runes. Zero means unbounded.
	MinLength int
	MaxLength int

	// Array bounds. Zero means unbounded.
	MinItems int
	MaxItems int

	Enum []string

	// Children are the keys of an object, or the keys of every element of an
	// array of objects.
	Children []Field
}

// Schema is a named list of top-level fields.
type Schema struct {
	Name   string
	Fields []Field
}

// Validate checks a decoded JSON value and returns every violation, each
// prefixed with the dotted path of the offending field.
func (s Schema) Validate(value any) []string {
	obj, ok := value.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s configuration must be a JSON object", s.Name)}
	}
	return validateObject("", obj, s.Fields)
}

func validateObject(prefix string, obj map[string]any, fields []Field) []string {
	var errs []string
	for _, field := range fields {
		path := joinPath(prefix, field.Name)
		value, present := obj[field.Name]
		if !present || value == nil {
			if field.Required {
				errs = append(errs, fmt.Sprintf("%s: field required", path))
			}
			continue
		}
		errs = append(errs, validateField(path, value, field)...)
	}
	return errs
}

func validateField(path string, value any, field Field) []string {
	switch field.Type {
	case FieldTypeString:
		s, ok := value.(string)
		if !ok {
			return []string{fmt.Sprintf("%s: expected string", path)}
		}
		return validateString(path, s, field)
	case FieldTypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("%s: expected object", path)}
		}
		return validateObject(path, obj, field.Children)
	case FieldTypeArray:
		items, ok := value.([]any)
		if !ok {
			return []string{fmt.Sprintf("%s: expected array", path)}
		}
		return validateArray(path, items, field)
	default:
		return []string{fmt.Sprintf("%s: unsupported field type %q", path, field.Type)}
	}
}

func validateString(path, s string, field Field) []string {
	var errs []string
	length := utf8.RuneCountInString(s)
	switch {
	case field.MinLength == 1 && length == 0:
		errs = append(errs, fmt.Sprintf("%s: must not be empty", path))
	case field.MinLength > 0 && length < field.MinLength:
		errs = append(errs, fmt.Sprintf("%s: must be at least %d characters (got %d)", path, field.MinLength, length))
	}
	if field.MaxLength > 0 && length > field.MaxLength {
		errs = append(errs, fmt.Sprintf("%s: must be at most %d characters (got %d)", path, field.MaxLength, length))
	}
	if len(field.Enum) > 0 && !containsString(field.Enum, s) {
		errs = append(errs, fmt.Sprintf("%s: must be one of %s (got %q)", path, strings.Join(field.Enum, ", "), s))
	}
	return errs
}

func validateArray(path string, items []any, field Field) []string {
	var errs []string
	if field.MinItems > 0 && len(items) < field.MinItems {
		errs = append(errs, fmt.Sprintf("%s: must contain at least %d item(s) (got %d)", path, field.MinItems, len(items)))
	}
	if field.MaxItems > 0 && len(items) > field.MaxItems {
		errs = append(errs, fmt.Sprintf("%s: must contain at most %d item(s) (got %d)", path, field.MaxItems, len(items)))
	}
	if len(field.Children) == 0 {
		return errs
	}
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s: expected object", itemPath))
			continue
		}
		errs = append(errs, validateObject(itemPath, obj, field.Children)...)
	}
	return errs
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
