package tree

import (
	"errors"

	"github.com/bmatcuk/doublestar/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/butter-bot-machines/apathy/pkg/path"
)

// SkipDir can be returned by a WalkFunc. Returned for a directory it skips
// the directory's contents; returned for anything else it skips the remaining
// entries of the containing directory.
var SkipDir = Error{"skip this directory"}

// WalkFunc is called by Walk for every visited path. dir reports whether the
// path is a directory.
type WalkFunc func(p path.Path, dir bool) error

// Walk visits root and everything below it depth-first, parents before their
// children and siblings in name order. The first error returned by fn other
// than SkipDir stops the walk and is returned. Links to directories are
// followed, so a link cycle below root never terminates.
func (t *Tree) Walk(root path.Path, fn WalkFunc) error {
	abs := t.absolute(root)
	err := t.walk(abs, t.fs.IsDir(abs.String()), fn)
	if errors.Is(err, SkipDir) {
		return nil
	}
	return err
}

func (t *Tree) walk(p path.Path, dir bool, fn WalkFunc) error {
	if err := fn(p, dir); err != nil {
		if dir && errors.Is(err, SkipDir) {
			return nil
		}
		return err
	}
	if !dir {
		return nil
	}

	for _, child := range t.Listdir(p) {
		if err := t.walk(child, t.fs.IsDir(child.String()), fn); err != nil {
			if errors.Is(err, SkipDir) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Glob returns the paths below root whose location relative to root matches
// pattern. Patterns use doublestar syntax, so "**" matches any number of
// directories. Results are in walk order; root itself is never included.
func (t *Tree) Glob(root path.Path, pattern string) ([]path.Path, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, pkgerrors.Wrapf(doublestar.ErrBadPattern, "invalid pattern %q", pattern)
	}

	base := t.absolute(root)
	base.Directory()
	prefix := len(base.String())

	var matches []path.Path
	err := t.Walk(base, func(p path.Path, dir bool) error {
		if len(p.String()) <= prefix {
			return nil
		}
		rel := p.String()[prefix:]
		if ok, _ := doublestar.Match(pattern, rel); ok {
			matches = append(matches, p)
		}
		return nil
	})
	return matches, err
}
