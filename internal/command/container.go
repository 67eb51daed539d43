package command

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle indicates a group that contains itself.
	ErrCycle = errors.New("command group contains itself")
	// ErrTooDeep indicates groups nested beyond the allowed depth.
	ErrTooDeep = errors.New("command groups nested too deeply")
)

// Container is an ordered collection of steps.
type Container struct {
	Steps []Step
}

// NewContainer returns a container holding steps.
func NewContainer(steps ...Step) *Container {
	return &Container{Steps: steps}
}

// Add appends a step.
func (c *Container) Add(s Step) {
	c.Steps = append(c.Steps, s)
}

// All flattens every step in list order regardless of active flags.
func (c *Container) All() []Command {
	if c == nil {
		return nil
	}
	var out []Command
	for _, s := range c.Steps {
		out = appendCommands(out, s)
	}
	return out
}

// Commands returns the active commands at the time of the call.
func (c *Container) Commands() []Command {
	all := c.All()
	out := make([]Command, 0, len(all))
	for _, cmd := range all {
		if cmd.Active() {
			out = append(out, cmd)
		}
	}
	return out
}

// Find returns the first command named name, active or not.
func (c *Container) Find(name string) Command {
	for _, cmd := range c.All() {
		if cmd.Name() == name {
			return cmd
		}
	}
	return nil
}

// Check rejects cyclic group nesting and, when maxDepth is positive, groups
// nested deeper than maxDepth.
func (c *Container) Check(maxDepth int) error {
	if c == nil {
		return nil
	}
	onPath := make(map[*Group]bool)
	for _, s := range c.Steps {
		if err := checkStep(s, 0, maxDepth, onPath); err != nil {
			return err
		}
	}
	return nil
}

func checkStep(s Step, depth, maxDepth int, onPath map[*Group]bool) error {
	g := s.group
	if g == nil {
		return nil
	}
	if onPath[g] {
		return fmt.Errorf("group %q: %w", g.Name, ErrCycle)
	}
	depth++
	if maxDepth > 0 && depth > maxDepth {
		return fmt.Errorf("group %q at depth %d exceeds %d: %w", g.Name, depth, maxDepth, ErrTooDeep)
	}
	onPath[g] = true
	defer delete(onPath, g)
	for _, child := range g.Steps {
		if err := checkStep(child, depth, maxDepth, onPath); err != nil {
			return err
		}
	}
	return nil
}
