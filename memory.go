package adaptiveexpr

import "strings"

// Memory is the path-addressable store an evaluation reads and writes
// against. GetValue never errors: a missing path yields (nil, false).
// SetValue writes into the primary frame, creating intermediate maps as
// needed. Version is a monotonically increasing token callers may use to
// invalidate caches; implementations that don't need it may always return 0.
type Memory interface {
	GetValue(path string) (any, bool)
	SetValue(path string, value any) error
	Version() uint64
}

// SimpleObjectMemory is the default Memory implementation, backed by a tree
// of map[string]any and []any values rooted at Object.
type SimpleObjectMemory struct {
	Object  any
	version uint64
}

// NewSimpleObjectMemory wraps root as a Memory. root is typically a
// map[string]any but any value is accepted; non-container roots only
// answer the empty path.
func NewSimpleObjectMemory(root any) *SimpleObjectMemory {
	return &SimpleObjectMemory{Object: root}
}

func (m *SimpleObjectMemory) Version() uint64 { return m.version }

func (m *SimpleObjectMemory) GetValue(path string) (any, bool) {
	if path == "" {
		return m.Object, m.Object != nil
	}
	segs, err := parsePath(path)
	if err != nil {
		return nil, false
	}
	cur := m.Object
	for _, seg := range segs {
		if cur == nil {
			return nil, false
		}
		if seg.isIndex {
			cur = AccessIndexOrNil(cur, seg.index)
		} else {
			cur = AccessProperty(cur, seg.key)
		}
	}
	return cur, cur != nil
}

func (m *SimpleObjectMemory) SetValue(path string, value any) error {
	if path == "" {
		m.Object = value
		m.version++
		return nil
	}
	segs, err := parsePath(path)
	if err != nil {
		return newError(ReferenceError, path, err)
	}

	if m.Object == nil {
		m.Object = map[string]any{}
	}

	// Walk every segment but the last, creating intermediate maps/lists.
	parent := &m.Object
	// writeBack stores a grown list into its parent map entry; map values
	// are not addressable, so parent then points at a local copy.
	var writeBack func(any)
	for i, seg := range segs {
		last := i == len(segs)-1
		if seg.isIndex {
			list, ok := (*parent).([]any)
			if !ok {
				return newErrorf(ReferenceError, path, "%v is not a collection", *parent)
			}
			for seg.index >= len(list) {
				list = append(list, nil)
			}
			*parent = list
			if writeBack != nil {
				writeBack(list)
			}
			if last {
				list[seg.index] = value
				m.version++
				return nil
			}
			if list[seg.index] == nil {
				list[seg.index] = map[string]any{}
			}
			parent = &list[seg.index]
			writeBack = nil
		} else {
			obj, ok := (*parent).(map[string]any)
			if !ok {
				return newErrorf(ReferenceError, path, "%v is not an object", *parent)
			}
			key := caseInsensitiveKey(obj, seg.key)
			if last {
				obj[key] = value
				m.version++
				return nil
			}
			if obj[key] == nil {
				obj[key] = map[string]any{}
			}
			val := obj[key]
			parent = &val
			writeBack = func(v any) { obj[key] = v }
		}
	}
	return nil
}

// AccessProperty implements the property-read contract: if inst is a map,
// return inst[name]; on exact-key miss, retry with a case-insensitive
// match; otherwise return nil. Never errors.
func AccessProperty(inst any, name string) any {
	m, ok := inst.(map[string]any)
	if !ok {
		return nil
	}
	if v, ok := m[name]; ok {
		return v
	}
	key := caseInsensitiveKey(m, name)
	return m[key]
}

func caseInsensitiveKey(m map[string]any, name string) string {
	if _, ok := m[name]; ok {
		return name
	}
	lower := strings.ToLower(name)
	for k := range m {
		if strings.ToLower(k) == lower {
			return k
		}
	}
	return name
}

// AccessIndex implements the index-read contract: inst must be a list and
// 0 <= i < len(inst), or inst must be nil. Any other shape is a
// ReferenceError.
func AccessIndex(inst any, i int) (any, error) {
	if inst == nil {
		return nil, nil
	}
	list, ok := inst.([]any)
	if !ok {
		return nil, newErrorf(ReferenceError, "", "%v is not a collection", inst)
	}
	if i < 0 || i >= len(list) {
		return nil, newErrorf(ReferenceError, "", "index %d is out of range for a collection of length %d", i, len(list))
	}
	return list[i], nil
}

// AccessIndexOrNil is AccessIndex without the error channel, used by
// GetValue which never errors on a bad path.
func AccessIndexOrNil(inst any, i int) any {
	v, err := AccessIndex(inst, i)
	if err != nil {
		return nil
	}
	return v
}

// WrapGetValue reads path from state and, if the result is null,
// substitutes options.NullSubstitution(path) when configured.
func WrapGetValue(state Memory, path string, options Options) any {
	v, ok := state.GetValue(path)
	if ok && v != nil {
		return v
	}
	if options.NullSubstitution != nil {
		return options.NullSubstitution(path)
	}
	return nil
}
