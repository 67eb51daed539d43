package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bgricker/buildpipe/internal/command"
	"github.com/bgricker/buildpipe/internal/params"
	"github.com/mitchellh/go-homedir"
)

// SetOutput rewrites the output location for the commands that follow.
type SetOutput struct {
	command.Base
	Folder string
	File   string
}

func (s *SetOutput) Validate(*params.Parameters) bool {
	return s.Folder != "" || s.File != ""
}

func (s *SetOutput) Execute(_ context.Context, p *params.Parameters) error {
	if s.Folder != "" {
		p.OutputFolder = s.Folder
	}
	if s.File != "" {
		p.OutputFile = s.File
	}
	p.RefreshOutputPath()
	return nil
}

func setOutputType() command.Type {
	return command.Type{
		Tag:         "set-output",
		Description: "Change the output folder or file",
		New: func(name string) command.Command {
			return &SetOutput{Base: command.NewBase(name)}
		},
		Fields: []command.Field{
			command.StringField("folder", "output folder", false, func(s *SetOutput) *string { return &s.Folder }),
			command.StringField("file", "output file name", false, func(s *SetOutput) *string { return &s.File }),
		},
	}
}

// DefaultVersionFormat is written when WriteVersion has no format.
const DefaultVersionFormat = "{version}+{build}"

// WriteVersion writes the bundle version to a file.
type WriteVersion struct {
	command.Base
	Path   string
	Format string

	root string
}

func (w *WriteVersion) Validate(p *params.Parameters) bool {
	return w.Path != "" && p.BundleVersion != ""
}

func (w *WriteVersion) Execute(_ context.Context, p *params.Parameters) error {
	path, err := homedir.Expand(w.Path)
	if err != nil {
		return fmt.Errorf("expand %s: %w", w.Path, err)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.root, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(FormatVersion(w.Format, p)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write version file: %w", err)
	}
	return nil
}

// FormatVersion expands the {version}, {build}, {target}, {branch} and
// {product} placeholders of format.
func FormatVersion(format string, p *params.Parameters) string {
	if format == "" {
		format = DefaultVersionFormat
	}
	return strings.NewReplacer(
		"{version}", p.BundleVersion,
		"{build}", strconv.Itoa(p.BuildNumber),
		"{target}", p.Target,
		"{branch}", p.GitBranch,
		"{product}", p.ProductName,
	).Replace(format)
}

func writeVersionType(deps Deps) command.Type {
	return command.Type{
		Tag:         "write-version",
		Description: "Write the bundle version to a file",
		New: func(name string) command.Command {
			return &WriteVersion{Base: command.NewBase(name), root: deps.Root}
		},
		Fields: []command.Field{
			command.StringField("path", "file to write, relative to the project root", true, func(w *WriteVersion) *string { return &w.Path }),
			command.StringField("format", "template, default "+DefaultVersionFormat, false, func(w *WriteVersion) *string { return &w.Format }),
		},
	}
}

// RequireBuildSuccess fails when the player build failed.
type RequireBuildSuccess struct {
	command.Base
	AllowMissing bool
}

func (r *RequireBuildSuccess) Validate(*params.Parameters) bool { return true }

func (r *RequireBuildSuccess) Execute(_ context.Context, p *params.Parameters) error {
	if p.BuildReport == nil {
		if r.AllowMissing {
			return nil
		}
		return fmt.Errorf("no player build report")
	}
	if !p.BuildReport.Success {
		return fmt.Errorf("player build failed: %s", p.BuildReport.Summary)
	}
	return nil
}

func requireBuildSuccessType() command.Type {
	return command.Type{
		Tag:         "require-build-success",
		Description: "Fail unless the player build succeeded",
		New: func(name string) command.Command {
			return &RequireBuildSuccess{Base: command.NewBase(name)}
		},
		Fields: []command.Field{
			command.BoolField("allow_missing", "pass when no player build ran", func(r *RequireBuildSuccess) *bool { return &r.AllowMissing }),
		},
	}
}

// SetDefine adds a scripting define symbol.
type SetDefine struct {
	command.Base
	Define string
}

func (s *SetDefine) Validate(*params.Parameters) bool {
	return s.Define != "" && !strings.ContainsAny(s.Define, " \t;")
}

func (s *SetDefine) Execute(_ context.Context, p *params.Parameters) error {
	for _, d := range p.Defines {
		if d == s.Define {
			return nil
		}
	}
	p.Defines = append(p.Defines, s.Define)
	return nil
}

func setDefineType() command.Type {
	return command.Type{
		Tag:         "set-define",
		Description: "Add a scripting define symbol",
		New: func(name string) command.Command {
			return &SetDefine{Base: command.NewBase(name)}
		},
		Fields: []command.Field{
			command.StringField("define", "symbol to add", true, func(s *SetDefine) *string { return &s.Define }),
		},
	}
}
