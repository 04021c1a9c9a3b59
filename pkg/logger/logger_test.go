package logger

import "testing"

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"", "info", "DEBUG", "warn", "development"} {
		log, err := New(level)
		if err != nil || log == nil {
			t.Fatalf("level %q: %v", level, err)
		}
	}
	if _, err := New("loud"); err == nil {
		t.Fatal("unknown level should be rejected")
	}
}

func TestNamedNil(t *testing.T) {
	if Named(nil, "svc") == nil {
		t.Fatal("Named must never return nil")
	}
}
