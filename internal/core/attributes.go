package core

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Attributes is an insertion-ordered attribute bag. It decodes from a JSON
// object without losing key order.
type Attributes = orderedmap.OrderedMap[string, any]

// NewAttributes builds an attribute bag from alternating keys and values. It is
// meant for literals in code and tests and panics on an odd argument count, the
// way regexp.MustCompile does. Decode untrusted input with UnmarshalJSON, or
// pass a map to NewEntity.
func NewAttributes(pairs ...any) *Attributes {
	if len(pairs)%2 != 0 {
		panic("core: NewAttributes needs an even number of arguments")
	}
	attrs := orderedmap.New[string, any]()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			key = fmt.Sprint(pairs[i])
		}
		attrs.Set(key, pairs[i+1])
	}
	return attrs
}

type pair struct {
	key   string
	value any
}

// toPairs normalizes the accepted input kinds. Plain maps are walked in key
// order so classification stays deterministic.
func toPairs(input any) ([]pair, error) {
	switch in := input.(type) {
	case nil:
		return nil, nil
	case *Attributes:
		if in == nil {
			return nil, nil
		}
		out := make([]pair, 0, in.Len())
		for p := in.Oldest(); p != nil; p = p.Next() {
			out = append(out, pair{key: p.Key, value: p.Value})
		}
		return out, nil
	case map[string]any:
		out := make([]pair, 0, len(in))
		for _, k := range sortedKeys(in) {
			out = append(out, pair{key: k, value: in[k]})
		}
		return out, nil
	case map[string]string:
		out := make([]pair, 0, len(in))
		for _, k := range sortedKeys(in) {
			out = append(out, pair{key: k, value: in[k]})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidInputKind, input)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FormatValue renders an attribute value the way it is written to the store.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case uint32:
		return strconv.FormatUint(uint64(val), 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format(time.RFC3339)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}
