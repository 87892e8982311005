package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"redis_backed_model/internal/core"
	"redis_backed_model/pkg"
)

// MemoryStore is an in-memory implementation for development and tests.
// Scores are kept as given; they are not interpreted as numbers.
type MemoryStore struct {
	mu     sync.RWMutex
	hashes map[string]map[string]string
	sets   map[string]map[string]struct{}
	zsets  map[string]map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string]map[string]struct{}),
		zsets:  make(map[string]map[string]string),
	}
}

// HGetAll returns a copy of the hash at key
func (m *MemoryStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.hashes[key]))
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

// Execute applies one command
func (m *MemoryStore) Execute(ctx context.Context, cmd pkg.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apply(cmd)
}

// ExecuteAll applies the commands in order, stopping at the first failure
func (m *MemoryStore) ExecuteAll(ctx context.Context, cmds []pkg.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, cmd := range cmds {
		if err := m.apply(cmd); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	return nil
}

// Save serializes the entity and applies its commands
func (m *MemoryStore) Save(ctx context.Context, e *core.Entity) error {
	cmds, err := core.Serialize(e)
	if err != nil {
		return err
	}
	return m.ExecuteAll(ctx, cmds)
}

func (m *MemoryStore) apply(cmd pkg.Command) error {
	switch cmd.Kind {
	case pkg.FieldSet:
		if len(cmd.Args) != 2 {
			return fmt.Errorf("hset %s: expected field and value", cmd.Key)
		}
		h, ok := m.hashes[cmd.Key]
		if !ok {
			h = make(map[string]string)
			m.hashes[cmd.Key] = h
		}
		h[cmd.Args[0]] = cmd.Args[1]
	case pkg.SetAdd:
		if len(cmd.Args) != 1 {
			return fmt.Errorf("sadd %s: expected one member", cmd.Key)
		}
		s, ok := m.sets[cmd.Key]
		if !ok {
			s = make(map[string]struct{})
			m.sets[cmd.Key] = s
		}
		s[cmd.Args[0]] = struct{}{}
	case pkg.SortedSetAdd:
		if len(cmd.Args) != 2 {
			return fmt.Errorf("zadd %s: expected score and member", cmd.Key)
		}
		z, ok := m.zsets[cmd.Key]
		if !ok {
			z = make(map[string]string)
			m.zsets[cmd.Key] = z
		}
		z[cmd.Args[1]] = cmd.Args[0]
	default:
		return fmt.Errorf("unsupported command: %s", cmd.Kind)
	}
	return nil
}

// Members returns the members of the set at key, sorted
func (m *MemoryStore) Members(key string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		out = append(out, member)
	}
	sort.Strings(out)
	return out
}

// Score returns the score stored for member in the sorted set at key
func (m *MemoryStore) Score(key, member string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	score, ok := m.zsets[key][member]
	return score, ok
}
