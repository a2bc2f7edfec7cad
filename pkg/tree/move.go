package tree

import (
	pkgerrors "github.com/pkg/errors"

	"github.com/butter-bot-machines/apathy/pkg/path"
)

// Move renames src to dst. If that fails and makeParents is set, the parent
// directory chain of dst is created with the tree's mode and the rename is
// retried once.
func (t *Tree) Move(src, dst path.Path, makeParents bool) error {
	from, to := t.absolute(src), t.absolute(dst)

	err := t.fs.Rename(from.String(), to.String())
	if err == nil {
		return nil
	}
	if !makeParents {
		return pkgerrors.Wrapf(err, "unable to move %s to %s", from, to)
	}

	parent := t.parent(to)
	t.logger.Debug("creating destination parent", "src", from.String(), "dst", to.String(), "parent", parent.String())
	if perr := t.makedirs(parent, t.mode); perr != nil {
		t.logger.Debug("unable to create parent", "parent", parent.String(), "error", perr)
	}

	if err := t.fs.Rename(from.String(), to.String()); err != nil {
		return pkgerrors.Wrapf(err, "unable to move %s to %s", from, to)
	}
	return nil
}
