// Package command defines the unit of build-time work and the step tree that
// orders commands inside a pipeline.
package command

import (
	"context"

	"github.com/bgricker/buildpipe/internal/params"
)

// Command is a named, toggleable, validatable, executable operation.
// Execute may change p for the commands that follow it.
type Command interface {
	Name() string
	Active() bool
	SetActive(active bool)
	Validate(p *params.Parameters) bool
	Execute(ctx context.Context, p *params.Parameters) error
}

// Base carries the name and toggle shared by all commands. Embed it by value
// and use the embedding type through a pointer.
type Base struct {
	name   string
	active bool
}

// NewBase returns an active Base.
func NewBase(name string) Base {
	return Base{name: name, active: true}
}

func (b *Base) Name() string { return b.name }

func (b *Base) Active() bool { return b.active }

func (b *Base) SetActive(active bool) { b.active = active }

// Func adapts plain functions to Command. A nil ValidateFn always validates.
type Func struct {
	Base
	ValidateFn func(p *params.Parameters) bool
	ExecuteFn  func(ctx context.Context, p *params.Parameters) error
}

// NewFunc returns an active command backed by fn.
func NewFunc(name string, fn func(ctx context.Context, p *params.Parameters) error) *Func {
	return &Func{Base: NewBase(name), ExecuteFn: fn}
}

func (f *Func) Validate(p *params.Parameters) bool {
	if f.ValidateFn == nil {
		return true
	}
	return f.ValidateFn(p)
}

func (f *Func) Execute(ctx context.Context, p *params.Parameters) error {
	if f.ExecuteFn == nil {
		return nil
	}
	return f.ExecuteFn(ctx, p)
}
