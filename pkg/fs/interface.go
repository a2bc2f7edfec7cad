package fs

import (
	"io/fs"
)

// FS is the filesystem access layer the tree operations are built on. Tree
// operations always hand it absolute paths; implementations resolve relative
// names against Getwd.
type FS interface {
	// Metadata queries
	Exists(name string) bool
	IsFile(name string) bool
	IsDir(name string) bool

	// ReadDirNames returns the names of the entries of a directory, excluding
	// "." and "..", in whatever order the filesystem yields them
	ReadDirNames(name string) ([]string, error)

	// Mkdir creates a single directory with the given mode
	Mkdir(name string, mode Mode) error

	// CreateEmpty creates an empty file with the given mode. An existing file
	// is left untouched.
	CreateEmpty(name string, mode Mode) error

	// Remove removes a file or an empty directory
	Remove(name string) error

	// Rename renames (moves) a file or directory
	Rename(oldpath, newpath string) error

	// Getwd returns the absolute working directory
	Getwd() (string, error)
}

// Error types for filesystem operations. Implementations report failures as
// *fs.PathError values that match these with errors.Is.
var (
	ErrExist       = fs.ErrExist
	ErrNotExist    = fs.ErrNotExist
	ErrPermission  = fs.ErrPermission
	ErrInvalidPath = fs.ErrInvalid
	ErrInvalidMode = Error{"mode contains disallowed bits"}
)

// Error represents a filesystem layer error
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}
