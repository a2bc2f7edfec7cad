//go:build !windows

package os

import (
	iofs "io/fs"
	"os"

	"golang.org/x/sys/unix"

	"github.com/butter-bot-machines/apathy/pkg/fs"
	"github.com/butter-bot-machines/apathy/pkg/path"
)

// FS implements fs.FS using POSIX system calls. Errors are reported as
// *fs.PathError (or *os.LinkError for renames) values wrapping the raw errno.
type FS struct {
	wd string
}

// Option configures an FS
type Option func(*FS)

// WithWorkingDirectory makes relative names resolve against dir instead of the
// process working directory
func WithWorkingDirectory(dir string) Option {
	return func(f *FS) {
		f.wd = dir
	}
}

// New creates a new OS filesystem
func New(opts ...Option) *FS {
	f := &FS{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Getwd returns the configured working directory or, if none was set, the
// process working directory
func (f *FS) Getwd() (string, error) {
	if f.wd != "" {
		return f.wd, nil
	}

	var wd string
	err := retryingOnEINTR(func() (err error) {
		wd, err = unix.Getwd()
		return err
	})
	if err != nil {
		return "", &iofs.PathError{Op: "getwd", Path: ".", Err: err}
	}
	return wd, nil
}

// resolve prefixes relative names with the configured working directory
func (f *FS) resolve(name string) string {
	p := path.New(name)
	if f.wd == "" || p.IsAbsolute() {
		return name
	}
	return p.AbsoluteIn(path.New(f.wd)).String()
}

func (f *FS) stat(name string) (*unix.Stat_t, error) {
	var st unix.Stat_t
	if err := retryingOnEINTR(func() error { return unix.Stat(f.resolve(name), &st) }); err != nil {
		return nil, err
	}
	return &st, nil
}

// Exists reports whether name can be stat'd
func (f *FS) Exists(name string) bool {
	_, err := f.stat(name)
	return err == nil
}

// IsFile reports whether name is an existing regular file
func (f *FS) IsFile(name string) bool {
	st, err := f.stat(name)
	return err == nil && st.Mode&unix.S_IFMT == unix.S_IFREG
}

// IsDir reports whether name is an existing directory
func (f *FS) IsDir(name string) bool {
	st, err := f.stat(name)
	return err == nil && st.Mode&unix.S_IFMT == unix.S_IFDIR
}

// ReadDirNames lists a directory's entry names in directory order
func (f *FS) ReadDirNames(name string) ([]string, error) {
	// Open the directory and ensure its closure.
	directory, err := os.Open(f.resolve(name))
	if err != nil {
		return nil, err
	}
	defer directory.Close()

	names, err := directory.Readdirnames(0)
	if err != nil {
		return nil, err
	}

	// The os package already drops these, but that's not guaranteed by its
	// documentation.
	results := names[:0]
	for _, n := range names {
		if n == "." || n == ".." {
			continue
		}
		results = append(results, n)
	}

	return results, nil
}

// Mkdir creates a single directory
func (f *FS) Mkdir(name string, mode fs.Mode) error {
	name = f.resolve(name)
	if err := retryingOnEINTR(func() error { return unix.Mkdir(name, uint32(mode)) }); err != nil {
		return &iofs.PathError{Op: "mkdir", Path: name, Err: err}
	}
	return nil
}

// CreateEmpty creates an empty file if none exists
func (f *FS) CreateEmpty(name string, mode fs.Mode) error {
	name = f.resolve(name)

	var descriptor int
	err := retryingOnEINTR(func() (err error) {
		descriptor, err = unix.Open(name, unix.O_RDONLY|unix.O_CREAT|unix.O_CLOEXEC, uint32(mode))
		return err
	})
	if err != nil {
		return &iofs.PathError{Op: "open", Path: name, Err: err}
	}

	if err := unix.Close(descriptor); err != nil {
		return &iofs.PathError{Op: "close", Path: name, Err: err}
	}
	return nil
}

// Remove removes a file or an empty directory
func (f *FS) Remove(name string) error {
	name = f.resolve(name)

	// Try unlinking first, then fall back to removing a directory. Report the
	// directory error unless it only says the target isn't a directory.
	err := retryingOnEINTR(func() error { return unix.Unlink(name) })
	if err == nil {
		return nil
	}
	dirErr := retryingOnEINTR(func() error { return unix.Rmdir(name) })
	if dirErr == nil {
		return nil
	}
	if dirErr != unix.ENOTDIR {
		err = dirErr
	}
	return &iofs.PathError{Op: "remove", Path: name, Err: err}
}

// Rename renames oldpath to newpath, replacing newpath if permitted
func (f *FS) Rename(oldpath, newpath string) error {
	oldpath, newpath = f.resolve(oldpath), f.resolve(newpath)
	if err := retryingOnEINTR(func() error { return unix.Rename(oldpath, newpath) }); err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}
	return nil
}

// retryingOnEINTR runs a system call until it completes without being
// interrupted
func retryingOnEINTR(call func() error) error {
	for {
		if err := call(); err != unix.EINTR {
			return err
		}
	}
}
