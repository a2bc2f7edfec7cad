// Package watcher reports changes below a directory tree. Directories created
// while watching are registered automatically. Notifications come from
// github.com/fsnotify/fsnotify, so the watched tree must be backed by the
// operating system.
package watcher

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/butter-bot-machines/apathy/pkg/logging"
	"github.com/butter-bot-machines/apathy/pkg/path"
	"github.com/butter-bot-machines/apathy/pkg/tree"
)

const defaultBuffer = 64

// Watcher watches a directory tree
type Watcher struct {
	tree      *tree.Tree
	root      path.Path
	fsw       *fsnotify.Watcher
	logger    logging.Logger
	debouncer *debouncer

	events chan Event
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup

	mu      sync.Mutex
	watched map[string]bool
	merging map[string]Op

	// sendMu guards the channels against being closed during a send
	sendMu    sync.RWMutex
	closed    bool
	closeOnce sync.Once
	closeErr  error
}

// Option configures a Watcher
type Option func(*options)

type options struct {
	logger   logging.Logger
	buffer   int
	delay    time.Duration
	maxDelay time.Duration
	clock    clock.Clock
}

// WithLogger sets the logger for diagnostics. The tree's logger is used by
// default.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBuffer sets the capacity of the event channel
func WithBuffer(size int) Option {
	return func(o *options) {
		o.buffer = size
	}
}

// WithDebounce coalesces events for the same path until it has been quiet for
// delay, or at most maxDelay. The merged event carries every change seen.
func WithDebounce(delay, maxDelay time.Duration) Option {
	return func(o *options) {
		o.delay = delay
		o.maxDelay = maxDelay
	}
}

// WithClock sets the clock used for debouncing
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.clock = clk
	}
}

// New starts watching root and every directory below it. Directories are
// found with tree.Walk, so root must not contain a symbolic link cycle.
func New(t *tree.Tree, root path.Path, opts ...Option) (*Watcher, error) {
	o := options{
		logger: t.Logger(),
		buffer: defaultBuffer,
	}
	for _, opt := range opts {
		opt(&o)
	}

	abs := root
	if !abs.IsAbsolute() {
		abs.AbsoluteIn(t.Getwd())
	}
	abs.SanitizeIn(t.Getwd()).Trim()
	if abs.String() == "" {
		abs.Directory()
	}
	if !t.IsDir(abs) {
		return nil, errors.Wrapf(tree.ErrNotDirectory, "unable to watch %s", abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "unable to create watcher")
	}

	w := &Watcher{
		tree:    t,
		root:    abs,
		fsw:     fsw,
		logger:  o.logger.WithGroup("watcher"),
		events:  make(chan Event, o.buffer),
		errors:  make(chan error, o.buffer),
		done:    make(chan struct{}),
		watched: make(map[string]bool),
		merging: make(map[string]Op),
	}
	if o.delay > 0 {
		w.debouncer = newDebouncer(o.delay, o.maxDelay, o.clock)
	}

	if err := w.register(abs); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.watch()

	return w, nil
}

// Root returns the watched directory
func (w *Watcher) Root() path.Path {
	return w.root
}

// Events returns the channel of changes. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of watch errors. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Watched returns the directories currently registered
func (w *Watcher) Watched() []path.Path {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]path.Path, 0, len(w.watched))
	for name := range w.watched {
		dirs = append(dirs, path.New(name))
	}
	return dirs
}

// Close stops watching and closes the event and error channels. Later calls
// return nil.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.closeErr = w.fsw.Close()
		w.wg.Wait()
		if w.debouncer != nil {
			w.debouncer.Stop()
		}

		w.sendMu.Lock()
		w.closed = true
		close(w.events)
		close(w.errors)
		w.sendMu.Unlock()
	})
	return w.closeErr
}

// register adds dir and every directory below it
func (w *Watcher) register(dir path.Path) error {
	return w.tree.Walk(dir, func(p path.Path, isDir bool) error {
		if !isDir {
			return nil
		}
		if err := w.fsw.Add(p.String()); err != nil {
			return errors.Wrapf(err, "unable to watch %s", p)
		}

		w.mu.Lock()
		w.watched[p.String()] = true
		w.mu.Unlock()

		w.logger.Debug("watching directory", "path", p.String())
		return nil
	})
}

func (w *Watcher) watch() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)
			w.sendError(err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	e := Event{Path: path.New(event.Name), Op: opFromNotify(event.Op)}

	switch {
	case e.Op.Has(Create) && w.tree.IsDir(e.Path):
		if err := w.register(e.Path); err != nil {
			w.logger.Warn("unable to watch new directory", "path", e.Path.String(), "error", err)
			w.sendError(err)
		}
	case e.Op.Has(Remove) || e.Op.Has(Rename):
		w.mu.Lock()
		delete(w.watched, e.Path.String())
		w.mu.Unlock()
	}

	if w.debouncer == nil {
		w.send(e)
		return
	}

	key := e.Path.String()
	w.mu.Lock()
	merged := e
	if prev, ok := w.merging[key]; ok {
		merged.Op |= prev
	}
	w.merging[key] = merged.Op
	w.mu.Unlock()

	w.debouncer.Debounce(key, func() {
		w.mu.Lock()
		op := w.merging[key]
		delete(w.merging, key)
		w.mu.Unlock()

		w.send(Event{Path: merged.Path, Op: op})
	})
}

func (w *Watcher) send(e Event) {
	w.sendMu.RLock()
	defer w.sendMu.RUnlock()

	if w.closed {
		return
	}
	select {
	case w.events <- e:
	case <-w.done:
	}
}

func (w *Watcher) sendError(err error) {
	w.sendMu.RLock()
	defer w.sendMu.RUnlock()

	if w.closed {
		return
	}
	select {
	case w.errors <- err:
	case <-w.done:
	}
}
