package log

import (
	"bytes"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := New("test")
	l.SetWriter(&buf)
	l.SetColorize(false)
	l.SetLevel(DEBUG)
	return l, &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	l, buf := newTestLogger(t)
	l.SetLevel(WARN)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Fatalf("messages below WARN leaked through:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Fatalf("WARN/ERROR messages missing:\n%s", out)
	}
}

func TestLogger_PrefixAndLevelTag(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "[INFO ]") {
		t.Fatalf("missing level tag: %q", out)
	}
	if !strings.Contains(out, "test: hello") {
		t.Fatalf("missing prefix: %q", out)
	}
}

func TestLogger_FieldsSortedAndFormatted(t *testing.T) {
	l, buf := newTestLogger(t)
	l.WithFields(Fields{"device": "/dev/ttyUSB0", "baud": 24000}).Info("opened")

	out := buf.String()
	if !strings.Contains(out, "{baud=24000, device=/dev/ttyUSB0}") {
		t.Fatalf("fields not sorted or formatted: %q", out)
	}
}

func TestLogger_Formatting(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("wrote %d byte at 0x%04x", 1, 0x7FFF)

	if !strings.Contains(buf.String(), "wrote 1 byte at 0x7fff") {
		t.Fatalf("printf-style args not applied: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"Warning": WARN,
		"error":   ERROR,
		"bogus":   INFO,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetDefaultLevel(t *testing.T) {
	l, buf := newTestLogger(t)
	SetDefaultLevel(ERROR)
	defer SetDefaultLevel(INFO)

	l.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("existing logger did not follow default level: %q", buf.String())
	}

	l2 := New("test2")
	l2.SetWriter(buf)
	l2.SetColorize(false)
	l2.Info("also quiet")
	if buf.Len() != 0 {
		t.Fatalf("new logger did not inherit default level: %q", buf.String())
	}
}
