package main

import (
	"io"
	"testing"

	"bbeeprog/pkg/eeprom"
)

func TestPatternReader_Formula(t *testing.T) {
	data, err := io.ReadAll(&patternReader{})
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(data) != eeprom.MaxAddress+1 {
		t.Fatalf("pattern length = %d, want %d", len(data), eeprom.MaxAddress+1)
	}

	for n, got := range data {
		want := n % 256
		if rep := n / 256; rep > want {
			want = rep
		}
		if got != byte(want) {
			t.Fatalf("pattern[%d] = %d, want %d", n, got, want)
		}
	}

	// Spot checks from the original pattern description.
	if data[0] != 0 || data[255] != 255 || data[256] != 1 || data[512] != 2 {
		t.Fatalf("pattern anchors wrong: %d %d %d %d", data[0], data[255], data[256], data[512])
	}
}

func TestPatternReader_SmallBuffers(t *testing.T) {
	// Byte-at-a-time reads must produce the same stream.
	p := &patternReader{}
	buf := make([]byte, 1)
	for n := 0; n <= eeprom.MaxAddress; n++ {
		k, err := p.Read(buf)
		if err != nil || k != 1 {
			t.Fatalf("read %d: k=%d err=%v", n, k, err)
		}
	}
	if _, err := p.Read(buf); err != io.EOF {
		t.Fatalf("expected EOF after full pattern, got %v", err)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"init": false, "flash": false, "ports": false, "selftest": false, "fill": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
}
