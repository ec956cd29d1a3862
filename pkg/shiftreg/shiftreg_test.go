package shiftreg

import (
	"bytes"
	"io"
	"testing"

	"bbeeprog/pkg/errors"
)

func TestEncode(t *testing.T) {
	lo, hi := Encode(5, 0xAB)
	if lo != 0xBB {
		t.Fatalf("low telegram: got 0x%02x want 0xbb", lo)
	}
	if hi != 0xAB {
		t.Fatalf("high telegram: got 0x%02x want 0xab", hi)
	}
}

func TestEncode_StartBitAndChannel(t *testing.T) {
	for channel := 0; channel < NumChannels; channel++ {
		for v := 0; v < 256; v++ {
			lo, hi := Encode(channel, byte(v))
			for _, tg := range []byte{lo, hi} {
				if tg&1 != 1 {
					t.Fatalf("channel %d value 0x%02x: telegram 0x%02x missing start bit", channel, v, tg)
				}
				if int(tg>>1&0x07) != channel {
					t.Fatalf("channel %d value 0x%02x: telegram 0x%02x carries channel %d", channel, v, tg, tg>>1&0x07)
				}
			}
			if lo>>4 != byte(v)&0x0F {
				t.Fatalf("low nibble mismatch for value 0x%02x", v)
			}
			if hi>>4 != byte(v)>>4 {
				t.Fatalf("high nibble mismatch for value 0x%02x", v)
			}
		}
	}
}

func TestNewOutput_ChannelRange(t *testing.T) {
	var buf bytes.Buffer
	for _, channel := range []int{-1, 8, 100} {
		_, err := NewOutput(&buf, channel)
		if !errors.IsCode(err, errors.ErrChannelRange) {
			t.Fatalf("channel %d: expected PRECONDITION_CHANNEL, got %v", channel, err)
		}
	}
	if _, err := NewOutput(&buf, 7); err != nil {
		t.Fatalf("channel 7: %v", err)
	}
}

func TestOutput_SuppressesRepeatedValue(t *testing.T) {
	var buf bytes.Buffer
	o, err := NewOutput(&buf, 2)
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}

	if err := o.Write(0x5A); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := o.Write(0x5A); err != nil {
		t.Fatalf("repeat write: %v", err)
	}
	if buf.Len() != 2 {
		t.Fatalf("expected one telegram pair on the sink, got %d bytes", buf.Len())
	}

	if err := o.Write(0x5B); err != nil {
		t.Fatalf("changed write: %v", err)
	}
	if buf.Len() != 4 {
		t.Fatalf("expected second pair after value change, got %d bytes", buf.Len())
	}
}

func TestOutput_FirstWriteNeverSuppressed(t *testing.T) {
	// Zero must not collide with an "unknown" sentinel.
	var buf bytes.Buffer
	o, err := NewOutput(&buf, 0)
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}
	if err := o.Write(0x00); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() != 2 {
		t.Fatalf("first write of 0x00 suppressed, got %d bytes", buf.Len())
	}
}

func TestOutput_TelegramPairsStayAdjacent(t *testing.T) {
	var buf bytes.Buffer
	a, _ := NewOutput(&buf, 0)
	b, _ := NewOutput(&buf, 1)

	if err := a.Write(0x12); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := b.Write(0x34); err != nil {
		t.Fatalf("write b: %v", err)
	}

	got := buf.Bytes()
	if len(got) != 4 {
		t.Fatalf("expected 4 telegrams, got %d", len(got))
	}
	for i := 0; i < len(got); i += 2 {
		wantChannel := got[i] >> 1 & 0x07
		if got[i+1]>>1&0x07 != wantChannel {
			t.Fatalf("pair at %d split across channels: % x", i, got)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestOutput_TransportErrorPropagates(t *testing.T) {
	o, err := NewOutput(failingWriter{}, 3)
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}
	werr := o.Write(0x01)
	if !errors.IsCode(werr, errors.ErrTransport) {
		t.Fatalf("expected TRANSPORT error, got %v", werr)
	}
	// A failed write must not update the latch state.
	var buf bytes.Buffer
	o.w = &buf
	if err := o.Write(0x01); err != nil {
		t.Fatalf("retry write: %v", err)
	}
	if buf.Len() != 2 {
		t.Fatalf("value cached despite failed transport write")
	}
}
