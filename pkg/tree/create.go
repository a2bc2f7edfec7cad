package tree

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/butter-bot-machines/apathy/pkg/fs"
	"github.com/butter-bot-machines/apathy/pkg/path"
)

// Makedirs creates the directory p and any missing ancestors. An existing
// directory counts as success; an existing non-directory yields
// ErrNotDirectory. It panics if mode has bits outside fs.ModeMask.
func (t *Tree) Makedirs(p path.Path, mode fs.Mode) error {
	mustBeValid(mode)
	return t.makedirs(t.absolute(p), mode)
}

func (t *Tree) makedirs(abs path.Path, mode fs.Mode) error {
	err := t.fs.Mkdir(abs.String(), mode)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrExist):
		if t.fs.IsDir(abs.String()) {
			return nil
		}
		return pkgerrors.Wrapf(ErrNotDirectory, "unable to create directory %s", abs)
	case errors.Is(err, fs.ErrNotExist):
		// The root always exists, so this bottoms out
		parent := t.parent(abs)
		t.logger.Debug("creating missing parent", "path", abs.String(), "parent", parent.String())
		if perr := t.makedirs(parent, mode); perr != nil {
			t.logger.Debug("unable to create parent", "parent", parent.String(), "error", perr)
		}
		if err := t.fs.Mkdir(abs.String(), mode); err != nil {
			t.logger.Error("unable to create directory", "path", abs.String(), "error", err)
			return pkgerrors.Wrapf(err, "unable to create directory %s", abs)
		}
		return nil
	default:
		t.logger.Error("unable to create directory", "path", abs.String(), "error", err)
		return pkgerrors.Wrapf(err, "unable to create directory %s", abs)
	}
}

// Touch creates an empty file at p with mode if nothing exists there. If the
// first attempt fails the parent directory chain is created and creation is
// retried once. Those parents get the tree's directory mode (WithMode,
// default fs.DefaultMode) rather than mode, since a file mode such as 0644
// would leave them untraversable. It panics if mode has bits outside
// fs.ModeMask.
func (t *Tree) Touch(p path.Path, mode fs.Mode) error {
	mustBeValid(mode)
	abs := t.absolute(p)

	if err := t.fs.CreateEmpty(abs.String(), mode); err == nil {
		return nil
	}

	parent := t.parent(abs)
	t.logger.Debug("creating parent before retrying touch", "path", abs.String(), "parent", parent.String())
	if err := t.makedirs(parent, t.mode); err != nil {
		t.logger.Debug("unable to create parent", "parent", parent.String(), "error", err)
	}

	if err := t.fs.CreateEmpty(abs.String(), mode); err != nil {
		return pkgerrors.Wrapf(err, "unable to touch %s", abs)
	}
	return nil
}
