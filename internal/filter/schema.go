package filter

import (
	"sort"

	"github.com/tallybank/tallybank/internal/types"
)

// Kind is how a query value is interpreted against an attribute
type Kind string

const (
	KindStringExact    Kind = "string-exact"
	KindStringContains Kind = "string-contains"
	KindEnumExact      Kind = "enum-exact"
	KindNestedPath     Kind = "nested-path"
	KindNumberExact    Kind = "number-exact"
	KindNumberMin      Kind = "number-min"
	KindNumberMax      Kind = "number-max"
	KindTagSet         Kind = "tag-set"
)

// EnumLookup resolves a label to its canonical form
type EnumLookup func(label string) (string, bool)

// Field is a filterable attribute addressed by a query key
type Field struct {
	Key  string
	Kind Kind
	// Path is the attribute the predicate is evaluated against. Nested
	// attributes use dotted paths, e.g. address.city.
	Path string
	// Enum is required for enum-exact and tag-set fields
	Enum EnumLookup
}

// EnumOf builds an EnumLookup over the value set of an enum type
func EnumOf[T ~string](values []T) EnumLookup {
	return func(label string) (string, bool) {
		v, ok := types.ParseEnum(label, values)
		return string(v), ok
	}
}

// Schema is the set of fields one entity type can be filtered by
type Schema struct {
	entity string
	fields map[string]Field
}

// NewSchema builds a schema. Path defaults to Key when empty.
func NewSchema(entity string, fields ...Field) *Schema {
	s := &Schema{
		entity: entity,
		fields: make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		if f.Path == "" {
			f.Path = f.Key
		}
		s.fields[f.Key] = f
	}
	return s
}

func (s *Schema) Entity() string {
	return s.entity
}

func (s *Schema) Field(key string) (Field, bool) {
	f, ok := s.fields[key]
	return f, ok
}

// Keys returns the accepted query keys in sorted order
func (s *Schema) Keys() []string {
	keys := make([]string, 0, len(s.fields))
	for k := range s.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
