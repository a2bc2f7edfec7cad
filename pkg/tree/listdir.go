package tree

import (
	"sort"

	"github.com/butter-bot-machines/apathy/pkg/path"
)

// Listdir returns the entries of the directory p, each formed by evaluating
// the entry name relative to the absolutized p. Entries are sorted by name.
// An unreadable directory yields an empty slice.
func (t *Tree) Listdir(p path.Path) []path.Path {
	base := t.absolute(p)

	names, err := t.fs.ReadDirNames(base.String())
	if err != nil {
		t.logger.Debug("unable to list directory", "path", base.String(), "error", err)
		return []path.Path{}
	}
	sort.Strings(names)

	entries := make([]path.Path, 0, len(names))
	for _, name := range names {
		if name == "." || name == ".." {
			continue
		}
		entry := base
		entry.Relative(path.New(name))
		entries = append(entries, entry)
	}
	return entries
}
