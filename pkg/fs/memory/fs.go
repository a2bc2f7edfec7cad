package memory

import (
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	apathyfs "github.com/butter-bot-machines/apathy/pkg/fs"
	"github.com/butter-bot-machines/apathy/pkg/path"
)

// Op names a filesystem operation for failure injection
type Op string

// Operations that can be made to fail
const (
	OpMkdir   Op = "mkdir"
	OpCreate  Op = "create"
	OpRemove  Op = "remove"
	OpRename  Op = "rename"
	OpReadDir Op = "readdir"
)

const root = "/"

// FS implements an in-memory filesystem with POSIX error semantics, a virtual
// working directory and failure injection
type FS struct {
	mu       sync.RWMutex
	wd       string
	files    map[string]*file
	dirs     map[string]*dir
	failures map[failure]error
}

type failure struct {
	op   Op
	name string
}

// New creates a new memory filesystem containing only the root directory,
// which is also the working directory
func New() *FS {
	return &FS{
		wd:       root,
		files:    make(map[string]*file),
		dirs:     map[string]*dir{root: {mode: 0755, modTime: time.Now()}},
		failures: make(map[failure]error),
	}
}

// Getwd returns the working directory
func (f *FS) Getwd() (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.wd, nil
}

// Chdir changes the working directory to an existing directory
func (f *FS) Chdir(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, _ = f.clean(name)
	if _, ok := f.dirs[name]; !ok {
		return &fs.PathError{Op: "chdir", Path: name, Err: f.missing(name)}
	}
	f.wd = name
	return nil
}

// Fail makes every subsequent op on name fail with err
func (f *FS) Fail(op Op, name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, _ = f.clean(name)
	f.failures[failure{op: op, name: name}] = err
}

// ClearFailures removes all injected failures
func (f *FS) ClearFailures() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = make(map[failure]error)
}

// Mode returns the mode an entry was created with
func (f *FS) Mode(name string) (apathyfs.Mode, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	name, _ = f.clean(name)
	if d, ok := f.dirs[name]; ok {
		return d.mode, true
	}
	if file, ok := f.files[name]; ok {
		return file.mode, true
	}
	return 0, false
}

// Exists implements fs.FS
func (f *FS) Exists(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	name, trailing := f.clean(name)
	if _, ok := f.dirs[name]; ok {
		return true
	}
	_, ok := f.files[name]
	return ok && !trailing
}

// IsFile implements fs.FS
func (f *FS) IsFile(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	name, trailing := f.clean(name)
	_, ok := f.files[name]
	return ok && !trailing
}

// IsDir implements fs.FS
func (f *FS) IsDir(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	name, _ = f.clean(name)
	_, ok := f.dirs[name]
	return ok
}

// ReadDirNames implements fs.FS. Names are returned sorted.
func (f *FS) ReadDirNames(name string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	name, _ = f.clean(name)
	if err := f.failed(OpReadDir, name); err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	// Check if it's a file
	if _, ok := f.files[name]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: syscall.ENOTDIR}
	}

	// Check if directory exists
	if _, ok := f.dirs[name]; !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: f.missing(name)}
	}

	names := f.children(name)
	sort.Strings(names)
	return names, nil
}

// Mkdir implements fs.FS
func (f *FS) Mkdir(name string, mode apathyfs.Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, _ = f.clean(name)
	if err := f.failed(OpMkdir, name); err != nil {
		return &fs.PathError{Op: "mkdir", Path: name, Err: err}
	}

	// Already exists?
	if f.exists(name) {
		return &fs.PathError{Op: "mkdir", Path: name, Err: syscall.EEXIST}
	}

	if err := f.checkParent(name); err != nil {
		return &fs.PathError{Op: "mkdir", Path: name, Err: err}
	}

	f.dirs[name] = &dir{mode: mode, modTime: time.Now()}
	return nil
}

// CreateEmpty implements fs.FS
func (f *FS) CreateEmpty(name string, mode apathyfs.Mode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, trailing := f.clean(name)
	if err := f.failed(OpCreate, name); err != nil {
		return &fs.PathError{Op: "open", Path: name, Err: err}
	}

	if _, ok := f.dirs[name]; ok || trailing {
		return &fs.PathError{Op: "open", Path: name, Err: syscall.EISDIR}
	}

	// Existing files are left untouched
	if _, ok := f.files[name]; ok {
		return nil
	}

	if err := f.checkParent(name); err != nil {
		return &fs.PathError{Op: "open", Path: name, Err: err}
	}

	f.files[name] = &file{mode: mode, modTime: time.Now()}
	return nil
}

// Remove implements fs.FS
func (f *FS) Remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name, trailing := f.clean(name)
	if err := f.failed(OpRemove, name); err != nil {
		return &fs.PathError{Op: "remove", Path: name, Err: err}
	}

	// Check if it's a directory
	if _, ok := f.dirs[name]; ok {
		if name == root {
			return &fs.PathError{Op: "remove", Path: name, Err: syscall.EBUSY}
		}
		if len(f.children(name)) > 0 {
			return &fs.PathError{Op: "remove", Path: name, Err: syscall.ENOTEMPTY}
		}
		delete(f.dirs, name)
		return nil
	}

	// Check if it's a file
	if _, ok := f.files[name]; ok {
		if trailing {
			return &fs.PathError{Op: "remove", Path: name, Err: syscall.ENOTDIR}
		}
		delete(f.files, name)
		return nil
	}

	return &fs.PathError{Op: "remove", Path: name, Err: f.missing(name)}
}

// Rename implements fs.FS. Missing parents of the destination are never
// created.
func (f *FS) Rename(oldpath, newpath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	oldpath, _ = f.clean(oldpath)
	newpath, _ = f.clean(newpath)
	fail := func(err error) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}

	if err := f.failed(OpRename, oldpath); err != nil {
		return fail(err)
	}

	// Check if source exists
	_, isDir := f.dirs[oldpath]
	if _, isFile := f.files[oldpath]; !isDir && !isFile {
		return fail(f.missing(oldpath))
	}

	if err := f.checkParent(newpath); err != nil {
		return fail(err)
	}
	if oldpath == newpath {
		return nil
	}

	if !isDir {
		if _, ok := f.dirs[newpath]; ok {
			return fail(syscall.EISDIR)
		}
		f.files[newpath] = f.files[oldpath]
		delete(f.files, oldpath)
		return nil
	}

	// A directory can't move below itself, and only replaces empty directories
	oldprefix := oldpath + "/"
	if oldpath == root || strings.HasPrefix(newpath, oldprefix) {
		return fail(syscall.EINVAL)
	}
	if _, ok := f.files[newpath]; ok {
		return fail(syscall.ENOTDIR)
	}
	if _, ok := f.dirs[newpath]; ok && len(f.children(newpath)) > 0 {
		return fail(syscall.ENOTEMPTY)
	}

	newprefix := newpath + "/"

	// Move the directory itself
	f.dirs[newpath] = f.dirs[oldpath]
	delete(f.dirs, oldpath)

	// Move subdirectories
	for p, d := range f.dirs {
		if strings.HasPrefix(p, oldprefix) {
			f.dirs[newprefix+strings.TrimPrefix(p, oldprefix)] = d
			delete(f.dirs, p)
		}
	}

	// Move files
	for p, file := range f.files {
		if strings.HasPrefix(p, oldprefix) {
			f.files[newprefix+strings.TrimPrefix(p, oldprefix)] = file
			delete(f.files, p)
		}
	}

	return nil
}

// clean resolves name against the working directory and sanitizes it. It also
// reports whether name ended with a separator.
func (f *FS) clean(name string) (string, bool) {
	p := path.New(name)
	trailing := p.HasTrailingSeparator()

	wd := path.New(f.wd)
	wd.Directory()
	p.AbsoluteIn(wd).SanitizeIn(wd).Trim()

	if p.String() == "" {
		return root, trailing
	}
	return p.String(), trailing
}

func (f *FS) exists(name string) bool {
	if _, ok := f.dirs[name]; ok {
		return true
	}
	_, ok := f.files[name]
	return ok
}

// parentOf returns the parent of a cleaned name
func parentOf(name string) string {
	i := strings.LastIndexByte(name, path.Separator)
	if i <= 0 {
		return root
	}
	return name[:i]
}

// checkParent verifies that the parent of a cleaned name is a directory. A
// parent that is a file yields ENOTDIR, like the kernel does.
func (f *FS) checkParent(name string) error {
	if _, ok := f.dirs[parentOf(name)]; ok {
		return nil
	}
	return f.missing(name)
}

// missing picks the errno for a name that doesn't exist: ENOTDIR when some
// ancestor is a file, ENOENT otherwise
func (f *FS) missing(name string) error {
	for p := name; p != root; p = parentOf(p) {
		if _, ok := f.files[p]; ok && p != name {
			return syscall.ENOTDIR
		}
	}
	return syscall.ENOENT
}

// children returns the base names of the direct children of a cleaned
// directory name
func (f *FS) children(name string) []string {
	prefix := name + "/"
	if name == root {
		prefix = root
	}

	var names []string
	for p := range f.dirs {
		if p != root && strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], "/") {
			names = append(names, p[len(prefix):])
		}
	}
	for p := range f.files {
		if strings.HasPrefix(p, prefix) && !strings.Contains(p[len(prefix):], "/") {
			names = append(names, p[len(prefix):])
		}
	}
	return names
}

func (f *FS) failed(op Op, name string) error {
	return f.failures[failure{op: op, name: name}]
}

// file is a regular file entry
type file struct {
	mode    apathyfs.Mode
	modTime time.Time
}

// dir is a directory entry
type dir struct {
	mode    apathyfs.Mode
	modTime time.Time
}
