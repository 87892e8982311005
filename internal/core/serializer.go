package core

import (
	"redis_backed_model/pkg"
)

// Serialize converts an entity into its store commands:
//
//	sadd|<model>_ids|<id>
//	hset|<model>:<id>|<field>|<value>   one per non-nil scalar, insertion order
//	zadd|<key>|<score>|<id>             one per directive, classification order
//
// The result is a pure function of the entity.
func Serialize(e *Entity) ([]pkg.Command, error) {
	if !e.HasID() {
		return nil, ErrMissingID
	}

	id := e.ID()
	hashKey := e.model.HashKey(id)

	cmds := make([]pkg.Command, 0, 1+len(e.fields)+len(e.directives))
	cmds = append(cmds, pkg.NewSetAdd(e.model.IDSetKey(), id))
	for _, f := range e.fields {
		if f.Value == nil {
			continue
		}
		cmds = append(cmds, pkg.NewFieldSet(hashKey, f.Name, FormatValue(f.Value)))
	}
	for _, d := range e.directives {
		cmds = append(cmds, d.Command())
	}
	return cmds, nil
}

// Wire returns the pipe-delimited text form of each command.
func Wire(cmds []pkg.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.String()
	}
	return out
}
