// SPDX-License-Identifier: MPL-2.0

package observe

import (
	"github.com/charmbracelet/log"
)

const (
	// KindSolutionNotFound is emitted when no parent solution could be resolved.
	KindSolutionNotFound Kind = "solution_not_found"
	// KindExportFailed is emitted when the automation capability produced no library.
	KindExportFailed Kind = "export_failed"
	// KindLibrarySaved is emitted after the library artifact was written.
	KindLibrarySaved Kind = "library_saved"
	// KindPackageCreated is emitted after the package archive was written.
	KindPackageCreated Kind = "package_created"
	// KindPassThrough is emitted when the input kind is not handled.
	KindPassThrough Kind = "pass_through"
	// KindFault is emitted for errors and panics recovered at a component boundary.
	KindFault Kind = "fault"
)

type (
	// Kind identifies an event category.
	Kind string

	// Event is a single structured report from a component.
	Event struct {
		Kind    Kind
		Level   log.Level
		Message string
		// Path is the file or directory the event is about (optional).
		Path string
		// Err is the failure cause (optional).
		Err error
	}

	// Observer receives events. Implementations must be safe for use from
	// multiple goroutines.
	Observer interface {
		Observe(e Event)
	}

	// ObserverFunc adapts a function to the Observer interface.
	ObserverFunc func(e Event)

	nopObserver struct{}

	loggerObserver struct {
		logger *log.Logger
	}
)

// Observe calls f(e).
func (f ObserverFunc) Observe(e Event) { f(e) }

func (nopObserver) Observe(Event) {}

// Nop returns an Observer that discards every event.
func Nop() Observer {
	return nopObserver{}
}

// OrNop returns o, or Nop when o is nil.
func OrNop(o Observer) Observer {
	if o == nil {
		return Nop()
	}
	return o
}

// Logger returns an Observer writing each event to l at the event's level.
func Logger(l *log.Logger) Observer {
	if l == nil {
		return Nop()
	}
	return &loggerObserver{logger: l}
}

func (o *loggerObserver) Observe(e Event) {
	keyvals := []any{"kind", string(e.Kind)}
	if e.Path != "" {
		keyvals = append(keyvals, "path", e.Path)
	}
	if e.Err != nil {
		keyvals = append(keyvals, "err", e.Err)
	}
	o.logger.Log(e.Level, e.Message, keyvals...)
}

// Error is a shorthand for an error-level event.
func Error(kind Kind, msg, path string, err error) Event {
	return Event{Kind: kind, Level: log.ErrorLevel, Message: msg, Path: path, Err: err}
}

// Info is a shorthand for an info-level event.
func Info(kind Kind, msg, path string) Event {
	return Event{Kind: kind, Level: log.InfoLevel, Message: msg, Path: path}
}
