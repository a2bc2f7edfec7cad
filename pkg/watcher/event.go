package watcher

import (
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/butter-bot-machines/apathy/pkg/path"
)

// Op describes a set of filesystem changes
type Op uint32

// Changes reported by the watcher
const (
	Create Op = 1 << iota
	Write
	Remove
	Rename
	Chmod
)

// Has reports whether o includes every change in other
func (o Op) Has(other Op) bool {
	return o&other == other
}

// String returns the changes joined with "|"
func (o Op) String() string {
	var names []string
	for _, op := range []struct {
		op   Op
		name string
	}{
		{Create, "CREATE"},
		{Write, "WRITE"},
		{Remove, "REMOVE"},
		{Rename, "RENAME"},
		{Chmod, "CHMOD"},
	} {
		if o.Has(op.op) {
			names = append(names, op.name)
		}
	}
	return strings.Join(names, "|")
}

// Event is a change below the watched root
type Event struct {
	Path path.Path
	Op   Op
}

func (e Event) String() string {
	return e.Op.String() + " " + e.Path.String()
}

// opFromNotify converts fsnotify's operation bits
func opFromNotify(op fsnotify.Op) Op {
	var o Op
	if op.Has(fsnotify.Create) {
		o |= Create
	}
	if op.Has(fsnotify.Write) {
		o |= Write
	}
	if op.Has(fsnotify.Remove) {
		o |= Remove
	}
	if op.Has(fsnotify.Rename) {
		o |= Rename
	}
	if op.Has(fsnotify.Chmod) {
		o |= Chmod
	}
	return o
}
