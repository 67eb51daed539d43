package argument

import (
	"fmt"
	"strconv"
	"strings"
)

// Store is an in-memory Provider that remembers insertion order.
type Store struct {
	keys   []string
	values map[string]string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Parse reads command line tokens of the form "-key value", "-flag",
// "--key value" and "--key=value".
func Parse(args []string) (*Store, error) {
	s := NewStore()
	for i := 0; i < len(args); i++ {
		token := args[i]
		if !isKey(token) {
			return nil, fmt.Errorf("unexpected argument %q", token)
		}
		key := strings.TrimLeft(token, "-")
		if key == "" {
			return nil, fmt.Errorf("empty argument key in %q", token)
		}
		if idx := strings.Index(key, "="); idx != -1 {
			s.Set(key[:idx], key[idx+1:])
			continue
		}
		if i+1 < len(args) && !isKey(args[i+1]) {
			s.Set(key, args[i+1])
			i++
			continue
		}
		s.Set(key, "")
	}
	return s, nil
}

// isKey reports whether token names a key; negative numbers are values.
func isKey(token string) bool {
	if !strings.HasPrefix(token, "-") || len(token) < 2 {
		return false
	}
	if _, err := strconv.ParseFloat(token, 64); err == nil {
		return false
	}
	return true
}

// Contains reports whether key has been set, even to an empty value.
func (s *Store) Contains(key string) bool {
	_, ok := s.values[key]
	return ok
}

// String returns the raw value for key.
func (s *Store) String(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Int parses the value for key as a base 10 integer.
func (s *Store) Int(key string) (int, bool) {
	v, ok := s.values[key]
	if !ok {
		return 0, false
	}
	return parseInt(v)
}

// Bool parses the value for key; a key present without value is true.
func (s *Store) Bool(key string) (bool, bool) {
	v, ok := s.values[key]
	if !ok {
		return false, false
	}
	return parseBool(v)
}

// Set stores value under key, keeping the original position of existing keys.
func (s *Store) Set(key, value string) {
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Keys returns the stored keys in insertion order.
func (s *Store) Keys() []string {
	return append([]string{}, s.keys...)
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	return len(s.keys)
}

// Fill copies every key from src that is not present yet. Existing values
// are never replaced.
func (s *Store) Fill(src *Store) {
	if src == nil {
		return
	}
	for _, key := range src.keys {
		if s.Contains(key) {
			continue
		}
		s.Set(key, src.values[key])
	}
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	out := NewStore()
	out.Fill(s)
	return out
}
