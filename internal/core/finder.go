package core

import (
	"context"
	"fmt"
	"reflect"

	"redis_backed_model/pkg"
)

// HashReader reads a whole hash. A missing key yields an empty map.
type HashReader interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Executor sends one command to the store.
type Executor interface {
	Execute(ctx context.Context, cmd pkg.Command) error
}

// Result holds the entities found for a lookup, in request order.
type Result struct {
	entities []*Entity
}

// All returns every entity found, possibly none.
func (r Result) All() []*Entity {
	out := make([]*Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// Len is the number of entities found.
func (r Result) Len() int {
	return len(r.entities)
}

// One returns the entity when exactly one was found.
func (r Result) One() (*Entity, bool) {
	if len(r.entities) != 1 {
		return nil, false
	}
	return r.entities[0], true
}

// Finder rebuilds entities of one model from their stored hashes. Every call
// queries the store.
type Finder struct {
	model Model
	store HashReader
}

// NewFinder creates a finder for model reading from store.
func NewFinder(model Model, store HashReader) (*Finder, error) {
	if err := model.validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("finder for %s: store is required", model.Name)
	}
	return &Finder{model: model, store: store}, nil
}

// Find looks up one or more ids. Slices are flattened at any depth and nil ids
// are skipped. Ids without a stored hash are left out of the result.
func (f *Finder) Find(ctx context.Context, ids ...any) (Result, error) {
	var found []*Entity
	for _, id := range flattenIDs(ids) {
		key := f.model.HashKey(FormatValue(id))
		fields, err := f.store.HGetAll(ctx, key)
		if err != nil {
			return Result{}, fmt.Errorf("failed to load %s: %w", key, err)
		}
		if len(fields) == 0 {
			continue
		}

		attrs := NewAttributes()
		for _, name := range sortedKeys(fields) {
			attrs.Set(name, fields[name])
		}
		attrs.Set(IDAttribute, id)

		e, err := NewEntity(f.model, attrs)
		if err != nil {
			return Result{}, fmt.Errorf("failed to build %s: %w", key, err)
		}
		found = append(found, e)
	}
	return Result{entities: found}, nil
}

// Exists reports whether a hash with at least one field is stored for id.
// A nil id is never looked up.
func (f *Finder) Exists(ctx context.Context, id any) (bool, error) {
	if isNil(id) {
		return false, nil
	}
	res, err := f.Find(ctx, id)
	if err != nil {
		return false, err
	}
	return res.Len() > 0, nil
}

func flattenIDs(ids []any) []any {
	var out []any
	var walk func(v any)
	walk = func(v any) {
		if isNil(v) {
			return
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if rv.Type().Elem().Kind() == reflect.Uint8 {
				out = append(out, v)
				return
			}
			for i := 0; i < rv.Len(); i++ {
				walk(rv.Index(i).Interface())
			}
		default:
			out = append(out, v)
		}
	}
	for _, id := range ids {
		walk(id)
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
