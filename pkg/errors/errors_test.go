package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestProgError_Message(t *testing.T) {
	e := Preconditionf(ErrAddressOverflow, "address 0x%04x exceeds 0x7fff", 0x8000)
	want := "[PRECONDITION_ADDRESS] address 0x8000 exceeds 0x7fff"
	if e.Error() != want {
		t.Fatalf("got %q want %q", e.Error(), want)
	}
}

func TestTransport_Unwrap(t *testing.T) {
	e := Transport("write telegram", io.ErrClosedPipe)
	if !errors.Is(e, io.ErrClosedPipe) {
		t.Fatalf("expected wrapped error to satisfy errors.Is")
	}
	if IsPrecondition(e) {
		t.Fatalf("transport error misclassified as precondition")
	}
	if !IsCode(e, ErrTransport) {
		t.Fatalf("expected TRANSPORT code")
	}
}

func TestIsPrecondition(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want bool
	}{
		{ErrAddressOverflow, true},
		{ErrChannelRange, true},
		{ErrBaudRange, true},
		{ErrTransport, false},
	}
	for _, c := range cases {
		err := fmt.Errorf("wrapped: %w", New(c.code, "x"))
		if got := IsPrecondition(err); got != c.want {
			t.Fatalf("IsPrecondition(%s) = %v, want %v", c.code, got, c.want)
		}
	}
	if IsPrecondition(io.EOF) {
		t.Fatalf("plain error misclassified")
	}
}
