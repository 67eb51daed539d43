package command

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownType indicates a tag with no registered command type.
var ErrUnknownType = errors.New("unknown command type")

// Kind is the value kind of an editable field.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindBool   Kind = "bool"
)

// Field describes one editable setting of a command type. Values cross the
// boundary as strings so assets and editors share one representation.
type Field struct {
	Name     string
	Kind     Kind
	Usage    string
	Required bool
	Get      func(Command) string
	Set      func(Command, string) error
}

// StringField declares a string setting reached through ptr.
func StringField[C Command](name, usage string, required bool, ptr func(C) *string) Field {
	return Field{
		Name:     name,
		Kind:     KindString,
		Usage:    usage,
		Required: required,
		Get: func(c Command) string {
			typed, ok := c.(C)
			if !ok {
				return ""
			}
			return *ptr(typed)
		},
		Set: func(c Command, raw string) error {
			typed, ok := c.(C)
			if !ok {
				return fmt.Errorf("field %q: unexpected command type %T", name, c)
			}
			*ptr(typed) = raw
			return nil
		},
	}
}

// IntField declares an integer setting reached through ptr.
func IntField[C Command](name, usage string, required bool, ptr func(C) *int) Field {
	return Field{
		Name:     name,
		Kind:     KindInt,
		Usage:    usage,
		Required: required,
		Get: func(c Command) string {
			typed, ok := c.(C)
			if !ok {
				return ""
			}
			return strconv.Itoa(*ptr(typed))
		},
		Set: func(c Command, raw string) error {
			typed, ok := c.(C)
			if !ok {
				return fmt.Errorf("field %q: unexpected command type %T", name, c)
			}
			v, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			*ptr(typed) = v
			return nil
		},
	}
}

// BoolField declares a boolean setting reached through ptr.
func BoolField[C Command](name, usage string, ptr func(C) *bool) Field {
	return Field{
		Name:  name,
		Kind:  KindBool,
		Usage: usage,
		Get: func(c Command) string {
			typed, ok := c.(C)
			if !ok {
				return ""
			}
			return strconv.FormatBool(*ptr(typed))
		},
		Set: func(c Command, raw string) error {
			typed, ok := c.(C)
			if !ok {
				return fmt.Errorf("field %q: unexpected command type %T", name, c)
			}
			v, err := strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			*ptr(typed) = v
			return nil
		},
	}
}

// Type is a registered command type.
type Type struct {
	Tag         string
	Description string
	New         func(name string) Command
	Fields      []Field
}

// Field returns the descriptor called name.
func (t *Type) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values reads every declared field of c.
func (t *Type) Values(c Command) map[string]string {
	out := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		out[f.Name] = f.Get(c)
	}
	return out
}

// Registry maps stable tags to command types. It is filled once at startup.
type Registry struct {
	types map[string]*Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register adds t. Registering an empty or duplicate tag is a programming
// error and panics.
func (r *Registry) Register(t Type) {
	if t.Tag == "" || t.New == nil {
		panic("command type needs a tag and a constructor")
	}
	if _, exists := r.types[t.Tag]; exists {
		panic(fmt.Sprintf("command type %q already registered", t.Tag))
	}
	r.types[t.Tag] = &t
}

// Lookup returns the type registered under tag.
func (r *Registry) Lookup(tag string) (*Type, bool) {
	t, ok := r.types[tag]
	return t, ok
}

// Types returns every registered type sorted by tag.
func (r *Registry) Types() []*Type {
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Build constructs a command of type tag and applies values through the
// type's field descriptors.
func (r *Registry) Build(tag, name string, values map[string]string) (Command, error) {
	t, ok := r.types[tag]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownType, tag)
	}
	if name == "" {
		name = tag
	}
	cmd := t.New(name)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f, ok := t.Field(k)
		if !ok {
			return nil, fmt.Errorf("command %q: type %q has no field %q", name, tag, k)
		}
		if err := f.Set(cmd, values[k]); err != nil {
			return nil, fmt.Errorf("command %q: %w", name, err)
		}
	}
	for _, f := range t.Fields {
		if !f.Required {
			continue
		}
		if _, ok := values[f.Name]; !ok {
			return nil, fmt.Errorf("command %q: missing required field %q", name, f.Name)
		}
	}
	return cmd, nil
}
