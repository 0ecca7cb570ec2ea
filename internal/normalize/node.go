package normalize

import (
	"encoding/json"
	"math"
)

// RawDocument is a decoded upstream JSON response. Nothing about its shape
// is guaranteed; it is only ever read.
type RawDocument map[string]any

// Node is one step of a walk through a RawDocument. A Node whose value is
// missing or of the wrong type stays usable: every accessor on it reports
// absence instead of failing, so a walk never needs to check in between steps.
type Node struct {
	value any
	ok    bool
}

// Root starts a walk at the top of doc. A nil doc yields an absent Node.
func Root(doc RawDocument) Node {
	if doc == nil {
		return Node{}
	}
	return Node{value: map[string]any(doc), ok: true}
}

// Present reports whether the walk reached a value.
func (n Node) Present() bool { return n.ok }

// Get descends into key. It is absent unless n is an object containing key.
func (n Node) Get(key string) Node {
	m, ok := n.object()
	if !ok {
		return Node{}
	}
	v, ok := m[key]
	if !ok || v == nil {
		return Node{}
	}
	return Node{value: v, ok: true}
}

// Path descends through each key in order.
func (n Node) Path(keys ...string) Node {
	for _, k := range keys {
		n = n.Get(k)
	}
	return n
}

// IsObject reports whether n holds a JSON object.
func (n Node) IsObject() bool {
	_, ok := n.object()
	return ok
}

// Items returns the elements of a list, or false when n is not a list.
func (n Node) Items() ([]Node, bool) {
	if !n.ok {
		return nil, false
	}
	var raw []any
	switch v := n.value.(type) {
	case []any:
		raw = v
	case []map[string]any:
		raw = make([]any, len(v))
		for i := range v {
			raw[i] = v[i]
		}
	default:
		return nil, false
	}
	items := make([]Node, len(raw))
	for i, v := range raw {
		items[i] = Node{value: v, ok: v != nil}
	}
	return items, true
}

// String returns the value when it is a JSON string.
func (n Node) String() (string, bool) {
	if !n.ok {
		return "", false
	}
	s, ok := n.value.(string)
	return s, ok
}

// Int returns the value when it is an integral JSON number.
func (n Node) Int() (int64, bool) {
	if !n.ok {
		return 0, false
	}
	switch v := n.value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case float64:
		return integral(v)
	case float32:
		return integral(float64(v))
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint32:
		return int64(v), true
	}
	return 0, false
}

func (n Node) object() (map[string]any, bool) {
	if !n.ok {
		return nil, false
	}
	switch v := n.value.(type) {
	case map[string]any:
		return v, true
	case RawDocument:
		return v, true
	}
	return nil, false
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
