package tree

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/butter-bot-machines/apathy/pkg/path"
)

// Rmdirs removes the directory p and everything below it. Child directories
// are removed recursively and child files individually. A child failure is
// logged; unless ignoreErrors is set it aborts the removal and is returned.
// Otherwise the result is that of removing p itself.
func (t *Tree) Rmdirs(p path.Path, ignoreErrors bool) error {
	abs := t.absolute(p)
	if !t.fs.IsDir(abs.String()) {
		return pkgerrors.Wrapf(ErrNotDirectory, "unable to remove %s", abs)
	}

	for _, child := range t.Listdir(abs) {
		var err error
		if t.fs.IsDir(child.String()) {
			err = t.Rmdirs(child, ignoreErrors)
		} else {
			err = t.fs.Remove(child.String())
		}
		if err == nil {
			continue
		}

		t.logger.Warn("unable to remove child", "path", child.String(), "error", err)
		if !ignoreErrors {
			return pkgerrors.Wrapf(err, "unable to remove %s", abs)
		}
	}

	if err := t.fs.Remove(abs.String()); err != nil {
		return pkgerrors.Wrapf(err, "unable to remove %s", abs)
	}
	return nil
}

// Rm removes a single file or empty directory
func (t *Tree) Rm(p path.Path) error {
	abs := t.absolute(p)
	if err := t.fs.Remove(abs.String()); err != nil {
		return pkgerrors.Wrapf(err, "unable to remove %s", abs)
	}
	return nil
}

// RemoveAll removes p whatever it is. Directories go through Rmdirs with the
// tree's ignoreErrors setting.
func (t *Tree) RemoveAll(p path.Path) error {
	if t.IsDir(p) {
		return t.Rmdirs(p, t.ignoreErrors)
	}
	return t.Rm(p)
}
