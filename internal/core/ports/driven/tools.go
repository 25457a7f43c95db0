package driven

import "context"

// CommandRunner executes external programs.
type CommandRunner interface {
	// Run executes name with args and returns its standard output.
	// A missing program or non-zero exit is returned as an error.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Editor opens a file for manual editing and blocks until it is closed.
type Editor interface {
	Edit(ctx context.Context, path string) error
}

// Typesetter drives the typst toolchain.
type Typesetter interface {
	// Query returns the JSON export of citation markers in a label document.
	Query(ctx context.Context, path string) ([]byte, error)

	// Compile renders a typst document next to its source.
	Compile(ctx context.Context, path string) error
}

// Opener opens a file or directory with the platform default application.
type Opener interface {
	Open(ctx context.Context, target string) error
}

// VersionControl tracks a storage directory in a repository.
type VersionControl interface {
	// Init creates a repository in dir. Existing repositories are left as is.
	Init(ctx context.Context, dir string) error

	// Commit stages paths (relative to dir) and commits them.
	Commit(ctx context.Context, dir, message string, paths ...string) error
}

// FileWatcher reports changes to a file.
type FileWatcher interface {
	// Watch calls onChange after each write to path until ctx is done.
	Watch(ctx context.Context, path string, onChange func()) error
}
