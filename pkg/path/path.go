package path

import (
	"fmt"
	"os"
	"strings"
)

const (
	// Separator is the only recognized path separator
	Separator = '/'

	separator       = string(Separator)
	currentSegment  = "."
	parentSegment   = ".."
	extensionMarker = '.'
)

// Path is a filesystem path held as raw text. The zero value is the empty
// path, which denotes the current directory.
type Path struct {
	path string
}

// New creates a path from its text, stored verbatim
func New(p string) Path {
	return Path{path: p}
}

// Format creates a path from the default textual formatting of v, so that
// numbers and other printable values can be used as path segments
func Format(v interface{}) Path {
	return Path{path: fmt.Sprint(v)}
}

// Join returns a new path formed by appending b to a copy of a
func Join(a, b Path) Path {
	p := a
	p.Append(b)
	return p
}

// Getwd returns the process working directory marked as a directory. When the
// working directory cannot be determined the empty path is marked instead,
// which yields the root directory.
func Getwd() Path {
	wd, err := os.Getwd()
	if err != nil {
		wd = ""
	}
	p := New(wd)
	p.Directory()
	return p
}

// String returns the raw path text
func (p Path) String() string {
	return p.path
}

// Copy returns a copy of the path
func (p Path) Copy() Path {
	return p
}

// Set replaces the path with other
func (p *Path) Set(other Path) *Path {
	p.path = other.path
	return p
}

// Equal reports whether both paths have exactly the same text
func (p Path) Equal(other Path) bool {
	return p.path == other.path
}

// Equivalent reports whether both paths refer to the same location once
// resolved against the process working directory and sanitized. Neither path
// is modified.
func (p Path) Equivalent(other Path) bool {
	return p.equivalent(other, Getwd)
}

// EquivalentIn is Equivalent with an explicit working directory
func (p Path) EquivalentIn(other, wd Path) bool {
	return p.equivalent(other, fixed(wd))
}

func (p Path) equivalent(other Path, getwd func() Path) bool {
	a, b := p, other
	a.absolute(getwd).sanitize(getwd)
	b.absolute(getwd).sanitize(getwd)
	return a.Equal(b)
}

// IsAbsolute reports whether the path begins with the separator
func (p Path) IsAbsolute() bool {
	return strings.HasPrefix(p.path, separator)
}

// HasTrailingSeparator reports whether the path ends with the separator
func (p Path) HasTrailingSeparator() bool {
	return strings.HasSuffix(p.path, separator)
}

// Append trims trailing separators, then adds a single separator followed by
// the raw text of segment. The segment is not normalized.
func (p *Path) Append(segment Path) *Path {
	p.Trim()
	p.path += separator + segment.path
	return p
}

// Relative evaluates other relative to the path. A relative other is
// appended; an absolute other replaces the path entirely.
func (p *Path) Relative(other Path) *Path {
	if other.IsAbsolute() {
		return p.Set(other)
	}
	return p.Append(other)
}

// Directory ensures the path ends with exactly one separator
func (p *Path) Directory() *Path {
	p.Trim()
	p.path += separator
	return p
}

// Trim removes all trailing separators
func (p *Path) Trim() *Path {
	p.path = strings.TrimRight(p.path, separator)
	return p
}

// Absolute resolves a relative path against the process working directory.
// Absolute paths are left untouched.
func (p *Path) Absolute() *Path {
	return p.absolute(Getwd)
}

// AbsoluteIn is Absolute with an explicit working directory
func (p *Path) AbsoluteIn(wd Path) *Path {
	return p.absolute(fixed(wd))
}

func (p *Path) absolute(getwd func() Path) *Path {
	if p.IsAbsolute() {
		return p
	}
	return p.Set(Join(getwd(), *p))
}

// Up moves the path to its parent directory. The path is made absolute and
// sanitized first, and the result is always marked as a directory. The root
// directory is its own parent.
func (p *Path) Up() *Path {
	return p.up(Getwd)
}

// UpIn is Up with an explicit working directory
func (p *Path) UpIn(wd Path) *Path {
	return p.up(fixed(wd))
}

func (p *Path) up(getwd func() Path) *Path {
	p.absolute(getwd).sanitize(getwd).Trim()
	if i := strings.LastIndexByte(p.path, Separator); i >= 0 {
		p.path = p.path[:i]
	}
	return p.Directory()
}

// Parent returns the parent directory of the path without modifying it
func (p Path) Parent() Path {
	parent := p
	parent.Up()
	return parent
}

// ParentIn is Parent with an explicit working directory
func (p Path) ParentIn(wd Path) Path {
	parent := p
	parent.UpIn(wd)
	return parent
}

// Extension returns the text after the last dot of the final path component,
// or an empty string if the final component has no dot
func (p Path) Extension() string {
	name := p.path[p.nameStart():]
	if i := strings.LastIndexByte(name, extensionMarker); i >= 0 {
		return name[i+1:]
	}
	return ""
}

// Stem returns the path with the extension of its final component, including
// the dot, removed
func (p Path) Stem() Path {
	start := p.nameStart()
	if i := strings.LastIndexByte(p.path[start:], extensionMarker); i >= 0 {
		return Path{path: p.path[:start+i]}
	}
	return p
}

// nameStart is the index at which the final path component begins
func (p Path) nameStart() int {
	return strings.LastIndexByte(p.path, Separator) + 1
}

func fixed(wd Path) func() Path {
	return func() Path {
		return wd
	}
}
