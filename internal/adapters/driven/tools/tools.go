package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/evid-cli/evid/internal/core/domain"
	"github.com/evid-cli/evid/internal/core/ports/driven"
)

// Ensure adapters implement their ports.
var (
	_ driven.Editor         = (*Editor)(nil)
	_ driven.Typesetter     = (*Typst)(nil)
	_ driven.Opener         = (*Opener)(nil)
	_ driven.VersionControl = (*Git)(nil)
)

// Editor opens files with the configured editor command and waits for it.
type Editor struct {
	runner  Runner
	command domain.CommandTemplate
}

// NewEditor creates an editor adapter.
func NewEditor(runner Runner, command domain.CommandTemplate) *Editor {
	return &Editor{runner: runner, command: command}
}

// Edit blocks until the editor exits.
func (e *Editor) Edit(ctx context.Context, path string) error {
	name, args, err := e.command.Expand(path)
	if err != nil {
		return fmt.Errorf("editor command: %w", err)
	}
	return e.runner.RunAttached(ctx, name, args...)
}

// Typst drives the typst CLI.
type Typst struct {
	runner  Runner
	query   domain.CommandTemplate
	compile domain.CommandTemplate
}

// NewTypst creates a typst adapter from query and compile templates.
func NewTypst(runner Runner, query, compile domain.CommandTemplate) *Typst {
	return &Typst{runner: runner, query: query, compile: compile}
}

// Query returns the JSON export of the citation markers in path.
func (t *Typst) Query(ctx context.Context, path string) ([]byte, error) {
	name, args, err := t.query.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("typst query command: %w", err)
	}
	return t.runner.Run(ctx, name, args...)
}

// Compile renders path next to itself.
func (t *Typst) Compile(ctx context.Context, path string) error {
	name, args, err := t.compile.Expand(path)
	if err != nil {
		return fmt.Errorf("typst compile command: %w", err)
	}
	_, err = t.runner.Run(ctx, name, args...)
	return err
}

// Opener opens files and directories with the platform default handler.
type Opener struct {
	runner Runner
	goos   string
}

// NewOpener creates an opener for the running platform.
func NewOpener(runner Runner) *Opener {
	return &Opener{runner: runner, goos: runtime.GOOS}
}

// Open launches the default application for target without waiting.
func (o *Opener) Open(_ context.Context, target string) error {
	switch o.goos {
	case "darwin":
		return o.runner.Start("open", target)
	case "linux", "freebsd", "openbsd", "netbsd":
		return o.runner.Start("xdg-open", target)
	case "windows":
		return o.runner.Start("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("%w: unsupported platform %s", domain.ErrExternalTool, o.goos)
	}
}

// Git tracks directories with the git CLI.
type Git struct {
	runner Runner
}

// NewGit creates a git adapter.
func NewGit(runner Runner) *Git {
	return &Git{runner: runner}
}

// Init runs "git init" unless dir already holds a repository.
func (g *Git) Init(ctx context.Context, dir string) error {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	_, err := g.runner.Run(ctx, "git", "-C", dir, "init")
	return err
}

// Commit stages paths and commits them with message.
func (g *Git) Commit(ctx context.Context, dir, message string, paths ...string) error {
	if len(paths) > 0 {
		args := append([]string{"-C", dir, "add", "--"}, paths...)
		if _, err := g.runner.Run(ctx, "git", args...); err != nil {
			return err
		}
	}
	_, err := g.runner.Run(ctx, "git", "-C", dir, "commit", "-m", message)
	return err
}
