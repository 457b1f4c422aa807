package led

import (
	"errors"
	"testing"
)

type fakeLine struct {
	values []int
	err    error
	closed bool
}

func (f *fakeLine) SetValue(v int) error {
	if f.err != nil {
		return f.err
	}
	f.values = append(f.values, v)
	return nil
}

func (f *fakeLine) Close() error {
	f.closed = true
	return nil
}

func withFakeLine(t *testing.T, fl *fakeLine) {
	t.Helper()
	orig := openLineFn
	openLineFn = func(pin int) (gpioLine, error) { return fl, nil }
	t.Cleanup(func() { openLineFn = orig })
}

func TestOpen_InvalidPin(t *testing.T) {
	if _, err := Open(0); err == nil {
		t.Fatalf("expected error for pin 0")
	}
}

func TestSet_WritesOnlyOnChange(t *testing.T) {
	fl := &fakeLine{}
	withFakeLine(t, fl)

	l, err := Open(17)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, on := range []bool{false, true, true, false, true} {
		if err := l.Set(on); err != nil {
			t.Fatalf("Set(%v): %v", on, err)
		}
	}
	want := []int{1, 0, 1}
	if len(fl.values) != len(want) {
		t.Fatalf("values=%v want %v", fl.values, want)
	}
	for i := range want {
		if fl.values[i] != want[i] {
			t.Fatalf("values=%v want %v", fl.values, want)
		}
	}
}

func TestSet_RetriesAfterError(t *testing.T) {
	fl := &fakeLine{err: errors.New("ebusy")}
	withFakeLine(t, fl)

	l, err := Open(17)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.Set(true); err == nil {
		t.Fatalf("expected error")
	}
	fl.err = nil
	if err := l.Set(false); err != nil {
		t.Fatalf("Set(false): %v", err)
	}
	if len(fl.values) != 1 || fl.values[0] != 0 {
		t.Fatalf("values=%v want [0]", fl.values)
	}
}

func TestClose_TurnsOffAndReleases(t *testing.T) {
	fl := &fakeLine{}
	withFakeLine(t, fl)

	l, err := Open(17)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = l.Set(true)
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !fl.closed {
		t.Fatalf("line not closed")
	}
	if last := fl.values[len(fl.values)-1]; last != 0 {
		t.Fatalf("last value=%d want 0", last)
	}
	if err := l.Set(true); err == nil {
		t.Fatalf("Set after Close should fail")
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
