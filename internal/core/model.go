package core

import (
	"fmt"
	"strings"
)

// Model declares a record type stored in the key-value store.
type Model struct {
	// Name is the declared type name, e.g. "Widget".
	Name string
	// KeyPrefix overrides the store name derived from Name.
	KeyPrefix string
}

// NewModel declares a model whose store name is derived from name.
func NewModel(name string) Model {
	return Model{Name: name}
}

// StoreName is the lowercase snake-case prefix used in every key of the model.
func (m Model) StoreName() string {
	if m.KeyPrefix != "" {
		return m.KeyPrefix
	}
	return Underscore(m.Name)
}

// HashKey is <model>:<id>
func (m Model) HashKey(id string) string {
	return m.StoreName() + ":" + id
}

// IDSetKey is <model>_ids
func (m Model) IDSetKey() string {
	return strings.ToLower(m.StoreName()) + "_ids"
}

// SortedSetKey is <models>_for_<dimension>_by_<by>:<subkey>
func (m Model) SortedSetKey(dimension, by, subkey string) string {
	return fmt.Sprintf("%s_for_%s_by_%s:%s", strings.ToLower(Pluralize(m.StoreName())), dimension, by, subkey)
}

func (m Model) validate() error {
	if m.StoreName() == "" {
		return fmt.Errorf("model has no name")
	}
	return nil
}
