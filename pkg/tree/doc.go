// Package tree implements filesystem tree operations on top of path values:
// creating files and directory chains, recursive removal, listing, moving and
// walking. Every operation goes through an fs.FS, so the same code runs
// against the operating system or an in-memory filesystem.
//
// Relative paths are resolved against the filesystem's working directory.
// Operations report failure with an error; conditions such as an existing
// directory or a missing intermediate directory are recovered internally.
//
//	t := tree.New(os.New())
//	if err := t.Makedirs(path.New("foo/bar/baz"), fs.DefaultMode); err != nil {
//		return err
//	}
//	defer t.Rmdirs(path.New("foo"), false)
//
// Directory checks follow symbolic links. Rmdirs descends into a link to a
// directory and empties its target, and Walk, Glob and anything built on them
// recurse without bound through a link that points back at an ancestor.
//
// The package level functions operate on Default, which is backed by the
// operating system and reports diagnostics on standard error.
package tree
