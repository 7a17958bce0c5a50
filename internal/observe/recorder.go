// SPDX-License-Identifier: MPL-2.0

package observe

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Recorder is an Observer that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Observe appends e.
func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Kinds returns the kinds of the recorded events in arrival order.
func (r *Recorder) Kinds() []Kind {
	events := r.Events()
	kinds := make([]Kind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// Has reports whether an event of the given kind was recorded.
func (r *Recorder) Has(kind Kind) bool {
	for _, e := range r.Events() {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Errors returns the recorded events at error level or above.
func (r *Recorder) Errors() []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Level >= log.ErrorLevel {
			out = append(out, e)
		}
	}
	return out
}
