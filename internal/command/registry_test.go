package command

import (
	"context"
	"errors"
	"testing"

	"github.com/bgricker/buildpipe/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type copyFiles struct {
	Base
	From    string
	Retries int
	Force   bool
}

func (c *copyFiles) Validate(*params.Parameters) bool { return c.From != "" }

func (c *copyFiles) Execute(context.Context, *params.Parameters) error { return nil }

func copyFilesType() Type {
	return Type{
		Tag:         "copy",
		Description: "copy files",
		New:         func(name string) Command { return &copyFiles{Base: NewBase(name)} },
		Fields: []Field{
			StringField("from", "source", true, func(c *copyFiles) *string { return &c.From }),
			IntField("retries", "retry count", false, func(c *copyFiles) *int { return &c.Retries }),
			BoolField("force", "overwrite", func(c *copyFiles) *bool { return &c.Force }),
		},
	}
}

func TestRegistryBuildAppliesFields(t *testing.T) {
	r := NewRegistry()
	r.Register(copyFilesType())

	cmd, err := r.Build("copy", "Copy assets", map[string]string{"from": "Assets", "retries": "3", "force": "true"})
	require.NoError(t, err)

	c, ok := cmd.(*copyFiles)
	require.True(t, ok)
	assert.Equal(t, "Copy assets", c.Name())
	assert.True(t, c.Active())
	assert.Equal(t, "Assets", c.From)
	assert.Equal(t, 3, c.Retries)
	assert.True(t, c.Force)

	typ, ok := r.Lookup("copy")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"from": "Assets", "retries": "3", "force": "true"}, typ.Values(cmd))
}

func TestRegistryBuildErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(copyFilesType())

	_, err := r.Build("move", "", nil)
	assert.True(t, errors.Is(err, ErrUnknownType))

	_, err = r.Build("copy", "", map[string]string{"from": "x", "color": "red"})
	assert.ErrorContains(t, err, `no field "color"`)

	_, err = r.Build("copy", "", map[string]string{"from": "x", "retries": "many"})
	assert.Error(t, err)

	_, err = r.Build("copy", "", map[string]string{"force": "true"})
	assert.ErrorContains(t, err, `missing required field "from"`)
}

func TestRegistryDefaultsNameToTag(t *testing.T) {
	r := NewRegistry()
	r.Register(copyFilesType())

	cmd, err := r.Build("copy", "", map[string]string{"from": "x"})
	require.NoError(t, err)
	assert.Equal(t, "copy", cmd.Name())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	r.Register(copyFilesType())
	assert.Panics(t, func() { r.Register(copyFilesType()) })
	assert.Panics(t, func() { r.Register(Type{Tag: "broken"}) })
}

func TestRegistryTypesSorted(t *testing.T) {
	r := NewRegistry()
	r.Register(Type{Tag: "zeta", New: func(name string) Command { return noop(name) }})
	r.Register(copyFilesType())

	types := r.Types()
	require.Len(t, types, 2)
	assert.Equal(t, "copy", types[0].Tag)
	assert.Equal(t, "zeta", types[1].Tag)
}
