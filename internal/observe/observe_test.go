// SPDX-License-Identifier: MPL-2.0

package observe

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestOrNop(t *testing.T) {
	t.Parallel()

	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}

	rec := &Recorder{}
	if got := OrNop(rec); got != rec {
		t.Errorf("OrNop(rec) = %v, want the recorder itself", got)
	}

	// Must not panic.
	Nop().Observe(Info(KindLibrarySaved, "saved", "/tmp/x.library"))
}

func TestLoggerObserver(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	obs := Logger(logger)

	obs.Observe(Error(KindExportFailed, "failed to save library", "/src/Plc1.plcproj", errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"failed to save library", "export_failed", "/src/Plc1.plcproj", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q does not contain %q", out, want)
		}
	}
}

func TestLoggerObserver_NilLogger(t *testing.T) {
	t.Parallel()

	if _, ok := Logger(nil).(nopObserver); !ok {
		t.Error("Logger(nil) should return the no-op observer")
	}
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	rec.Observe(Info(KindLibrarySaved, "saved", "a"))
	rec.Observe(Error(KindFault, "broken", "", errors.New("x")))

	kinds := rec.Kinds()
	if len(kinds) != 2 || kinds[0] != KindLibrarySaved || kinds[1] != KindFault {
		t.Errorf("Kinds() = %v", kinds)
	}
	if !rec.Has(KindFault) {
		t.Error("Has(KindFault) = false")
	}
	if rec.Has(KindPackageCreated) {
		t.Error("Has(KindPackageCreated) = true")
	}
	if n := len(rec.Errors()); n != 1 {
		t.Errorf("len(Errors()) = %d, want 1", n)
	}
}

func TestSafeExecute(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		rec := &Recorder{}
		if err := SafeExecute(rec, "export", func() error { return nil }); err != nil {
			t.Fatalf("SafeExecute() = %v", err)
		}
		if len(rec.Events()) != 0 {
			t.Errorf("unexpected events: %v", rec.Events())
		}
	})

	t.Run("error is logged and returned", func(t *testing.T) {
		t.Parallel()
		rec := &Recorder{}
		sentinel := errors.New("rejected")
		err := SafeExecute(rec, "export", func() error { return sentinel })
		if !errors.Is(err, sentinel) {
			t.Fatalf("SafeExecute() = %v, want %v", err, sentinel)
		}
		if !rec.Has(KindFault) {
			t.Error("fault event not recorded")
		}
	})

	t.Run("panic is recovered", func(t *testing.T) {
		t.Parallel()
		rec := &Recorder{}
		cause := errors.New("com exception")
		err := SafeExecute(rec, "export", func() error { panic(cause) })

		var pe *PanicError
		if !errors.As(err, &pe) {
			t.Fatalf("SafeExecute() = %v, want *PanicError", err)
		}
		if !errors.Is(err, cause) {
			t.Error("PanicError should unwrap to the panicked error")
		}
		if !rec.Has(KindFault) {
			t.Error("fault event not recorded")
		}
	})

	t.Run("nil observer", func(t *testing.T) {
		t.Parallel()
		err := SafeExecute(nil, "export", func() error { panic("plain value") })
		if err == nil || !strings.Contains(err.Error(), "plain value") {
			t.Errorf("SafeExecute() = %v", err)
		}
	})
}

func TestRecover(t *testing.T) {
	t.Parallel()

	err := Recover("resolve", func() error { panic("kaput") })
	var pe *PanicError
	if !errors.As(err, &pe) || pe.Operation != "resolve" {
		t.Fatalf("Recover() = %v, want *PanicError for resolve", err)
	}
	if pe.Unwrap() != nil {
		t.Error("a non-error panic value should unwrap to nil")
	}

	if err := Recover("resolve", func() error { return nil }); err != nil {
		t.Errorf("Recover() = %v, want nil", err)
	}
}
