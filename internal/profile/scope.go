package profile

// Scope is an ordered set of gn flags. A key keeps the position of its first
// insertion and the value of its last write.
type Scope struct {
	keys   []string
	values map[string]any
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{values: make(map[string]any)}
}

// Set stores value under key, appending key if it is new.
func (s *Scope) Set(key string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value stored under key.
func (s *Scope) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (s *Scope) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Clone returns an independent copy of s.
func (s *Scope) Clone() *Scope {
	c := NewScope()
	if s == nil {
		return c
	}
	for _, k := range s.keys {
		c.Set(k, s.values[k])
	}
	return c
}

// Overlay writes every entry of other onto s, in other's order.
func (s *Scope) Overlay(other *Scope) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		s.Set(k, other.values[k])
	}
}
