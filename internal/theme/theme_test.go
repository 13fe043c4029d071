package theme

import (
	"errors"
	"testing"
)

type flagSub struct{ dark bool }

func (f *flagSub) SetDark(isDark bool) { f.dark = isDark }

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"Dark": ModeDark, " light ": ModeLight, "": ModeSystem, "SYSTEM": ModeSystem} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("sepia"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestSystemFallsBackToLight(t *testing.T) {
	orig := detectDarkMode
	t.Cleanup(func() { detectDarkMode = orig })

	detectDarkMode = func() (bool, error) { return true, nil }
	if !ModeSystem.IsDark() || ModeLight.IsDark() {
		t.Fatalf("expected system mode to follow the OS")
	}
	detectDarkMode = func() (bool, error) { return true, errors.New("no portal") }
	if System() {
		t.Fatalf("expected detection failure to resolve light")
	}
}

func TestDefaultPaletteColors(t *testing.T) {
	checks := []struct {
		name string
		got  string
		want string
	}{
		{"dark foreground", Resolve(true).Foreground.Hex(), "#e0e0e7"},
		{"dark background", Resolve(true).Background.Hex(), "#262525"},
		{"light border", Resolve(false).Border.Hex(), "#e2e2e9"},
		{"light disabled", Resolve(false).Disabled.Hex(), "#595656"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: expected %s, got %s", c.name, c.want, c.got)
		}
	}
}

func TestMustHexPanicsOnBadColor(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	mustHex("#12")
}

func TestSchemeBrush(t *testing.T) {
	s := Resolve(true)
	if s.Brush(true) != s.Border || s.Brush(false) != s.Background {
		t.Fatalf("unexpected brush colors")
	}
	if Resolve(false) == s {
		t.Fatalf("expected distinct light scheme")
	}
}

func TestRegistryRefcount(t *testing.T) {
	opened, closed := 0, 0
	reg := NewRegistry(OpenerFunc(func(isDark bool) (Resource, error) {
		opened++
		return &countingResource{dark: isDark, closed: &closed}, nil
	}), false)

	a, b := &flagSub{}, &flagSub{}
	for _, sub := range []*flagSub{a, b, a} {
		if _, err := reg.Acquire(sub); err != nil {
			t.Fatalf("acquire: %v", err)
		}
	}
	if opened != 1 || reg.Refs() != 2 {
		t.Fatalf("expected one open and two refs, got %d/%d", opened, reg.Refs())
	}
	if err := reg.Release(a); err != nil || closed != 0 {
		t.Fatalf("expected resource kept, closed=%d err=%v", closed, err)
	}
	if err := reg.Release(b); err != nil || closed != 1 || reg.Resource() != nil {
		t.Fatalf("expected resource closed, closed=%d err=%v", closed, err)
	}
	if err := reg.Release(b); err != nil {
		t.Fatalf("expected second release to be a no-op, got %v", err)
	}
}

func TestRegistryChangedReopensAndNotifies(t *testing.T) {
	closed := 0
	reg := NewRegistry(OpenerFunc(func(isDark bool) (Resource, error) {
		return &countingResource{dark: isDark, closed: &closed}, nil
	}), false)
	a, b := &flagSub{}, &flagSub{}
	reg.Acquire(a)
	reg.Acquire(b)

	if err := reg.Changed(true); err != nil {
		t.Fatalf("changed: %v", err)
	}
	if closed != 1 || !reg.Resource().Dark() || !reg.Dark() {
		t.Fatalf("expected resource reopened dark, closed=%d", closed)
	}
	if !a.dark || !b.dark {
		t.Fatalf("expected every subscriber notified")
	}
}

func TestRegistryChangedReportsOpenFailure(t *testing.T) {
	fail := false
	reg := NewRegistry(OpenerFunc(func(isDark bool) (Resource, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return StylesOpener(DefaultPalette()).Open(isDark)
	}), false)
	sub := &flagSub{}
	reg.Acquire(sub)

	fail = true
	if err := reg.Changed(true); err == nil {
		t.Fatalf("expected reopen error")
	}
	if !sub.dark {
		t.Fatalf("expected subscriber updated despite the failure")
	}
}

func TestStylesFollowScheme(t *testing.T) {
	dark := NewStyles(DefaultPalette(), true)
	light := NewStyles(DefaultPalette(), false)
	if !dark.Dark() || light.Dark() {
		t.Fatalf("unexpected dark flags")
	}
	if dark.Status.GetBackground() != Color(Resolve(true).Border) {
		t.Fatalf("expected status background from the dark scheme")
	}
	if dark.Status.GetBackground() == light.Status.GetBackground() {
		t.Fatalf("expected status colors to differ between schemes")
	}
}

type countingResource struct {
	dark   bool
	closed *int
}

func (r *countingResource) Dark() bool { return r.dark }
func (r *countingResource) Close() error {
	*r.closed++
	return nil
}
