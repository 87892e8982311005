package pkg

import (
	"fmt"
	"strings"
)

// Store command types shared by the serializer and the store adapters

// CommandKind names a store mutation
type CommandKind string

const (
	FieldSet     CommandKind = "hset"
	SetAdd       CommandKind = "sadd"
	SortedSetAdd CommandKind = "zadd"
)

// WireDelimiter separates the parts of a command in its text form.
// Values containing it cannot be represented.
const WireDelimiter = "|"

// arity is the number of arguments after the key for each kind
var arity = map[CommandKind]int{
	FieldSet:     2, // field, value
	SetAdd:       1, // member
	SortedSetAdd: 2, // score, member
}

// Command is one unit of store mutation
type Command struct {
	Kind CommandKind `json:"kind"`
	Key  string      `json:"key"`
	Args []string    `json:"args"`
}

// NewFieldSet builds hset|<hashKey>|<field>|<value>
func NewFieldSet(hashKey, field, value string) Command {
	return Command{Kind: FieldSet, Key: hashKey, Args: []string{field, value}}
}

// NewSetAdd builds sadd|<setKey>|<member>
func NewSetAdd(setKey, member string) Command {
	return Command{Kind: SetAdd, Key: setKey, Args: []string{member}}
}

// NewSortedSetAdd builds zadd|<setKey>|<score>|<member>
func NewSortedSetAdd(setKey, score, member string) Command {
	return Command{Kind: SortedSetAdd, Key: setKey, Args: []string{score, member}}
}

// String returns the pipe-delimited wire form
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+2)
	parts = append(parts, string(c.Kind), c.Key)
	parts = append(parts, c.Args...)
	return strings.Join(parts, WireDelimiter)
}

// RedisArgs returns the argument vector for a generic Do call
func (c Command) RedisArgs() []any {
	args := make([]any, 0, len(c.Args)+2)
	args = append(args, string(c.Kind), c.Key)
	for _, a := range c.Args {
		args = append(args, a)
	}
	return args
}

// ParseCommand parses the wire form produced by Command.String.
// The final argument keeps any remaining delimiters.
func ParseCommand(wire string) (Command, error) {
	head := strings.SplitN(wire, WireDelimiter, 2)
	kind := CommandKind(strings.ToLower(strings.TrimSpace(head[0])))
	n, ok := arity[kind]
	if !ok {
		return Command{}, fmt.Errorf("unknown command kind %q", head[0])
	}
	if len(head) < 2 {
		return Command{}, fmt.Errorf("command %q has no key", wire)
	}

	parts := strings.SplitN(head[1], WireDelimiter, n+1)
	if len(parts) != n+1 {
		return Command{}, fmt.Errorf("command %q: expected %d arguments, got %d", wire, n, len(parts)-1)
	}
	if parts[0] == "" {
		return Command{}, fmt.Errorf("command %q has an empty key", wire)
	}

	return Command{Kind: kind, Key: parts[0], Args: parts[1:]}, nil
}
