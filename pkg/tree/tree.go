package tree

import (
	"fmt"

	"github.com/butter-bot-machines/apathy/pkg/fs"
	"github.com/butter-bot-machines/apathy/pkg/logging"
	"github.com/butter-bot-machines/apathy/pkg/path"
)

// Tree performs tree operations on a filesystem
type Tree struct {
	fs           fs.FS
	logger       logging.Logger
	mode         fs.Mode
	ignoreErrors bool
}

// Option configures a Tree
type Option func(*Tree)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger logging.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMode sets the mode used for directories created implicitly by Touch
// and Move
func WithMode(mode fs.Mode) Option {
	return func(t *Tree) {
		mustBeValid(mode)
		t.mode = mode
	}
}

// WithIgnoreErrors sets the ignoreErrors flag RemoveAll passes to Rmdirs
func WithIgnoreErrors(ignore bool) Option {
	return func(t *Tree) {
		t.ignoreErrors = ignore
	}
}

// New creates a tree over fsys. Without options it discards diagnostics and
// creates implicit directories with fs.DefaultMode.
func New(fsys fs.FS, opts ...Option) *Tree {
	t := &Tree{
		fs:     fsys,
		logger: logging.Nop(),
		mode:   fs.DefaultMode,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// FS returns the underlying filesystem
func (t *Tree) FS() fs.FS {
	return t.fs
}

// Logger returns the diagnostics logger
func (t *Tree) Logger() logging.Logger {
	return t.logger
}

// Mode returns the mode for implicitly created directories
func (t *Tree) Mode() fs.Mode {
	return t.mode
}

// Getwd returns the filesystem's working directory marked as a directory. If
// it can't be determined the root directory is returned.
func (t *Tree) Getwd() path.Path {
	wd, err := t.fs.Getwd()
	if err != nil {
		t.logger.Warn("unable to determine working directory", "error", err)
		wd = ""
	}
	p := path.New(wd)
	p.Directory()
	return p
}

// Exists reports whether p names an existing entry
func (t *Tree) Exists(p path.Path) bool {
	return t.fs.Exists(t.absolute(p).String())
}

// IsFile reports whether p names a regular file
func (t *Tree) IsFile(p path.Path) bool {
	return t.fs.IsFile(t.absolute(p).String())
}

// IsDir reports whether p names a directory
func (t *Tree) IsDir(p path.Path) bool {
	return t.fs.IsDir(t.absolute(p).String())
}

// absolute returns a copy of p resolved against the working directory
func (t *Tree) absolute(p path.Path) path.Path {
	if p.IsAbsolute() {
		return p
	}
	p.AbsoluteIn(t.Getwd())
	return p
}

// parent returns the parent directory of an absolute path
func (t *Tree) parent(abs path.Path) path.Path {
	return abs.ParentIn(t.Getwd())
}

// Error types for tree operations
var (
	ErrNotDirectory = Error{"not a directory"}
)

// Error represents a tree operation error
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func mustBeValid(mode fs.Mode) {
	if !mode.Valid() {
		panic(fmt.Sprintf("tree: invalid mode %s", mode))
	}
}
