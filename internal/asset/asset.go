// Package asset loads pipeline assets (*.buildmap.yml) into build maps.
package asset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bgricker/buildpipe/internal/buildmap"
	"github.com/bgricker/buildpipe/internal/command"
	"gopkg.in/yaml.v3"
)

// Warning captures non-fatal issues found while loading an asset.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Loader reads pipeline assets and builds their commands through a registry.
type Loader struct {
	Root     string
	Registry *command.Registry
	// MaxDepth limits group nesting; zero means unlimited.
	MaxDepth int
}

// NewLoader constructs a Loader resolving asset paths relative to root.
func NewLoader(root string, registry *command.Registry, maxDepth int) *Loader {
	return &Loader{Root: root, Registry: registry, MaxDepth: maxDepth}
}

// Load reads the supplied paths in order.
func (l *Loader) Load(paths []string) ([]*buildmap.BuildMap, []Warning, error) {
	maps := make([]*buildmap.BuildMap, 0, len(paths))
	warnings := make([]Warning, 0)
	for _, relPath := range paths {
		m, warns, err := l.LoadFile(relPath)
		if err != nil {
			return nil, nil, err
		}
		maps = append(maps, m)
		warnings = append(warnings, warns...)
	}
	return maps, warnings, nil
}

// LoadFile reads one asset.
func (l *Loader) LoadFile(relPath string) (*buildmap.BuildMap, []Warning, error) {
	full := relPath
	if !filepath.IsAbs(full) {
		full = filepath.Join(l.Root, relPath)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, nil, fmt.Errorf("open pipeline %q: %w", relPath, err)
	}
	defer f.Close()
	return l.Decode(f, relPath)
}

// Decode parses one asset from r. displayPath names it in errors and
// becomes the build map's Source.
func (l *Loader) Decode(r io.Reader, displayPath string) (*buildmap.BuildMap, []Warning, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil, fmt.Errorf("parse pipeline %q: empty document", displayPath)
		}
		return nil, nil, fmt.Errorf("parse pipeline %q: %w", displayPath, err)
	}

	data, err := doc.Build.buildData()
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline %q: %w", displayPath, err)
	}

	name := doc.Name
	if name == "" {
		name = DisplayName(displayPath)
	}
	m := buildmap.New(name, data)
	m.Source = displayPath
	m.PlayerBuildEnabled = doc.PlayerBuild

	b := &builder{registry: l.Registry, path: displayPath, seen: make(map[string]bool)}
	if err := b.fill(m.PreBuild, doc.PreBuild); err != nil {
		return nil, nil, err
	}
	if err := b.fill(m.PostBuild, doc.PostBuild); err != nil {
		return nil, nil, err
	}
	for _, c := range []*command.Container{m.PreBuild, m.PostBuild} {
		if err := c.Check(l.MaxDepth); err != nil {
			return nil, nil, fmt.Errorf("pipeline %q: %w", displayPath, err)
		}
	}
	return m, b.warnings, nil
}

// DisplayName derives a pipeline name from its file name.
func DisplayName(path string) string {
	base := filepath.Base(path)
	for _, suffix := range []string{".buildmap.yml", ".buildmap.yaml", ".yml", ".yaml"} {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base
}

type builder struct {
	registry *command.Registry
	path     string
	seen     map[string]bool
	warnings []Warning
}

func (b *builder) warn(format string, args ...interface{}) {
	b.warnings = append(b.warnings, Warning{Path: b.path, Message: fmt.Sprintf(format, args...)})
}

func (b *builder) fill(c *command.Container, docs []stepDocument) error {
	for idx, doc := range docs {
		s, err := b.step(doc, idx)
		if err != nil {
			return err
		}
		c.Add(s)
	}
	return nil
}

func (b *builder) step(doc stepDocument, idx int) (command.Step, error) {
	switch {
	case doc.Uses != "" && doc.Group != "":
		return command.Step{}, fmt.Errorf("pipeline %q: step %d sets both uses and group", b.path, idx+1)
	case doc.Group != "":
		return b.group(doc)
	case doc.Uses != "":
		return b.leaf(doc)
	default:
		return command.Step{}, fmt.Errorf("pipeline %q: step %d needs uses or group", b.path, idx+1)
	}
}

func (b *builder) leaf(doc stepDocument) (command.Step, error) {
	if len(doc.Steps) > 0 {
		return command.Step{}, fmt.Errorf("pipeline %q: command %q cannot have nested steps", b.path, doc.Uses)
	}
	values, err := convertWith(doc.With)
	if err != nil {
		return command.Step{}, fmt.Errorf("pipeline %q: command %q: %w", b.path, doc.Uses, err)
	}
	cmd, err := b.registry.Build(doc.Uses, doc.Name, values)
	if err != nil {
		return command.Step{}, fmt.Errorf("pipeline %q: %w", b.path, err)
	}
	if doc.Active != nil {
		cmd.SetActive(*doc.Active)
	}
	if b.seen[cmd.Name()] {
		b.warn("duplicate command name %q; only the first is reachable by name", cmd.Name())
	}
	b.seen[cmd.Name()] = true
	return command.Leaf(cmd), nil
}

func (b *builder) group(doc stepDocument) (command.Step, error) {
	if len(doc.With) > 0 {
		return command.Step{}, fmt.Errorf("pipeline %q: group %q cannot take with", b.path, doc.Group)
	}
	g := command.NewGroup(doc.Group, doc.Description)
	if doc.Active != nil {
		g.Active = *doc.Active
	}
	if len(doc.Steps) == 0 {
		b.warn("group %q is empty", doc.Group)
	}
	for idx, child := range doc.Steps {
		s, err := b.step(child, idx)
		if err != nil {
			return command.Step{}, err
		}
		g.Steps = append(g.Steps, s)
	}
	return command.Nest(g), nil
}

func convertWith(input map[string]interface{}) (map[string]string, error) {
	if len(input) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(input))
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := input[k].(type) {
		case nil:
			out[k] = ""
		case map[string]interface{}, []interface{}:
			return nil, fmt.Errorf("field %q must be a scalar", k)
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out, nil
}
