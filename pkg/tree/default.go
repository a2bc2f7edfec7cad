package tree

import (
	"os"
	"sync"

	"github.com/butter-bot-machines/apathy/pkg/fs"
	osfs "github.com/butter-bot-machines/apathy/pkg/fs/os"
	"github.com/butter-bot-machines/apathy/pkg/logging"
	"github.com/butter-bot-machines/apathy/pkg/logging/console"
	"github.com/butter-bot-machines/apathy/pkg/path"
)

var (
	defaultTree *Tree
	defaultOnce sync.Once
)

// Default returns the tree backed by the operating system. It resolves
// relative paths against the process working directory and logs warnings and
// errors to standard error.
func Default() *Tree {
	defaultOnce.Do(func() {
		defaultTree = New(osfs.New(), WithLogger(console.NewLogger(logging.LevelWarn, os.Stderr)))
	})
	return defaultTree
}

// Getwd returns the process working directory marked as a directory
func Getwd() path.Path {
	return Default().Getwd()
}

// Join returns a new path formed by appending b to a copy of a
func Join(a, b path.Path) path.Path {
	return path.Join(a, b)
}

// Exists reports whether p exists on the default tree
func Exists(p path.Path) bool {
	return Default().Exists(p)
}

// IsFile reports whether p is a regular file on the default tree
func IsFile(p path.Path) bool {
	return Default().IsFile(p)
}

// IsDir reports whether p is a directory on the default tree
func IsDir(p path.Path) bool {
	return Default().IsDir(p)
}

// Touch creates an empty file on the default tree
func Touch(p path.Path, mode fs.Mode) error {
	return Default().Touch(p, mode)
}

// Makedirs creates a directory chain on the default tree
func Makedirs(p path.Path, mode fs.Mode) error {
	return Default().Makedirs(p, mode)
}

// Rmdirs recursively removes a directory on the default tree
func Rmdirs(p path.Path, ignoreErrors bool) error {
	return Default().Rmdirs(p, ignoreErrors)
}

// Listdir lists a directory on the default tree
func Listdir(p path.Path) []path.Path {
	return Default().Listdir(p)
}

// Move renames src to dst on the default tree
func Move(src, dst path.Path, makeParents bool) error {
	return Default().Move(src, dst, makeParents)
}

// Rm removes a single entry on the default tree
func Rm(p path.Path) error {
	return Default().Rm(p)
}

// Walk walks the default tree
func Walk(root path.Path, fn WalkFunc) error {
	return Default().Walk(root, fn)
}

// Glob matches a pattern on the default tree
func Glob(root path.Path, pattern string) ([]path.Path, error) {
	return Default().Glob(root, pattern)
}
