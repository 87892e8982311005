package core

import (
	"fmt"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
)

// IDAttribute is the attribute holding the entity id.
const IDAttribute = "id"

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Field is one scalar attribute. A nil Value is kept but never written.
type Field struct {
	Name  string
	Value any
}

// Entity is a record built from a flat attribute bag. It is immutable once built.
type Entity struct {
	model      Model
	id         any
	fields     []Field
	index      map[string]int
	directives []*SortedSetDirective
}

// NewEntity classifies attrs into scalar fields and sorted-set directives.
//
// attrs may be nil, *Attributes, map[string]any or map[string]string. Plain maps
// are classified in key order. Any other kind fails with ErrInvalidInputKind.
func NewEntity(model Model, attrs any) (*Entity, error) {
	if err := model.validate(); err != nil {
		return nil, err
	}
	pairs, err := toPairs(attrs)
	if err != nil {
		return nil, err
	}

	e := &Entity{
		model: model,
		index: make(map[string]int, len(pairs)),
	}

	// the id is resolved first so directives do not depend on key order
	for _, p := range pairs {
		if p.key == IDAttribute {
			e.id = p.value
		}
	}

	for _, p := range pairs {
		if IsScoreKey(p.key) {
			d, err := NewSortedSetDirective(model, e.ID(), p.key, p.value)
			if err != nil {
				return nil, err
			}
			e.directives = append(e.directives, d)
			continue
		}

		if !fieldNamePattern.MatchString(p.key) {
			return nil, attributeError(p.key, ErrInvalidAttributeName)
		}
		e.index[p.key] = len(e.fields)
		e.fields = append(e.fields, Field{Name: p.key, Value: p.value})
	}

	return e, nil
}

// Model returns the model the entity belongs to.
func (e *Entity) Model() Model {
	return e.model
}

// ID returns the id as written to the store, or "" if there is none.
func (e *Entity) ID() string {
	if e.id == nil {
		return ""
	}
	return FormatValue(e.id)
}

// HasID reports whether the entity carries a non-nil id.
func (e *Entity) HasID() bool {
	return e.id != nil
}

// RawID returns the id as it was given.
func (e *Entity) RawID() any {
	return e.id
}

// Fields returns the scalar attributes in insertion order.
func (e *Entity) Fields() []Field {
	out := make([]Field, len(e.fields))
	copy(out, e.fields)
	return out
}

// Get returns a scalar attribute value.
func (e *Entity) Get(name string) (any, bool) {
	i, ok := e.index[name]
	if !ok {
		return nil, false
	}
	return e.fields[i].Value, true
}

// StringValue returns a scalar attribute in its stored form. Nil and missing
// attributes report false.
func (e *Entity) StringValue(name string) (string, bool) {
	v, ok := e.Get(name)
	if !ok || v == nil {
		return "", false
	}
	return FormatValue(v), true
}

// Directives returns the sorted-set directives in classification order.
func (e *Entity) Directives() []*SortedSetDirective {
	out := make([]*SortedSetDirective, len(e.directives))
	copy(out, e.directives)
	return out
}

// Decode binds the scalar attributes to a struct using `redis` tags. Stored
// values are strings, so numeric and boolean fields are converted.
func (e *Entity) Decode(dest any) error {
	values := make(map[string]any, len(e.fields))
	for _, f := range e.fields {
		if f.Value != nil {
			values[f.Name] = f.Value
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "redis",
		WeaklyTypedInput: true,
		Result:           dest,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", e.model.Name, e.ID(), err)
	}
	return nil
}
