package registry

import (
	"github.com/fujidana/specref/ref"
)

// StaleObserver is told when the entries of a source have been replaced.
// Implementations MUST be safe for concurrent use and must not block: the
// callback runs on the writer's goroutine after the new map is visible,
// so a reader woken by it always sees the new contents.
type StaleObserver interface {
	OnStale(src ref.Source)
}

// StaleFunc adapts a plain function to StaleObserver.
type StaleFunc func(src ref.Source)

// OnStale calls f(src).
func (f StaleFunc) OnStale(src ref.Source) { f(src) }

// AddObserver registers an observer for every later source replacement
func (r *Registry) AddObserver(o StaleObserver) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, o)
}

// RemoveObserver unregisters an observer
func (r *Registry) RemoveObserver(o StaleObserver) {
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	for i, existing := range r.observers {
		if existing == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// notifyStale calls every observer for each source, in order
func (r *Registry) notifyStale(sources ...ref.Source) {
	r.obsMu.RLock()
	observers := make([]StaleObserver, len(r.observers))
	copy(observers, r.observers)
	r.obsMu.RUnlock()

	for _, src := range sources {
		for _, o := range observers {
			o.OnStale(src)
		}
	}
}
