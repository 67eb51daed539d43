package command

// Step is a node of the command tree: either a single command or a group of
// child steps. The zero Step is an empty leaf.
type Step struct {
	command Command
	group   *Group
}

// Group is an ordered list of steps with its own metadata. Its active flag
// does not filter members; every member command is filtered on its own.
type Group struct {
	Name        string
	Description string
	Active      bool
	Steps       []Step
}

// Leaf wraps a single command.
func Leaf(c Command) Step {
	return Step{command: c}
}

// NewGroup returns an active group holding steps.
func NewGroup(name, description string, steps ...Step) *Group {
	return &Group{Name: name, Description: description, Active: true, Steps: steps}
}

// Nest wraps a group as a step.
func Nest(g *Group) Step {
	return Step{group: g}
}

// IsGroup reports whether the step is the group variant.
func (s Step) IsGroup() bool { return s.group != nil }

// Command returns the wrapped command of a leaf, or nil.
func (s Step) Command() Command { return s.command }

// Group returns the wrapped group, or nil.
func (s Step) Group() *Group { return s.group }

// Name is the command name of a leaf or the group name.
func (s Step) Name() string {
	switch {
	case s.group != nil:
		return s.group.Name
	case s.command != nil:
		return s.command.Name()
	default:
		return ""
	}
}

// Commands flattens the step depth-first in declaration order, ignoring
// active flags.
func (s Step) Commands() []Command {
	return appendCommands(nil, s)
}

// Commands flattens every member of the group in declaration order.
func (g *Group) Commands() []Command {
	var out []Command
	for _, child := range g.Steps {
		out = appendCommands(out, child)
	}
	return out
}

// appendCommands does not guard against cycles; Container.Check does that
// when a tree is authored.
func appendCommands(dst []Command, s Step) []Command {
	if s.group != nil {
		for _, child := range s.group.Steps {
			dst = appendCommands(dst, child)
		}
		return dst
	}
	if s.command != nil {
		dst = append(dst, s.command)
	}
	return dst
}
