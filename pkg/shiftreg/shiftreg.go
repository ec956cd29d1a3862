// Package shiftreg drives SN74LV8153 serial-to-parallel shift registers
// over a plain UART.
//
// Each chip is an 8-bit output latch selected by a 3-bit address set via
// its A0..A2 pins, so up to eight chips can share one serial line. A data
// byte is sent as two nibbles in two consecutive byte-sized UART telegrams
// (8N1, 2000 to 24000 baud).
//
// 1st telegram:
//
//	 ,- regular UART start bit (by UART driver) (=0)
//	 |   ,- protocol start bit (in payload) (=1)
//	 |   |   ,- 3 address bits
//	 |   |   |              ,- 4 low data bits (low nibble)
//	 |   |   |              |                   ,- regular UART stop bit (by
//	 |   |   |              |                   |  UART driver) (=1)
//	 v   v   v              v                   v
//	.----------------------------------------------.
//	| 0 | 1 | A0 | A1 | A2 | D0 | D1 | D2 | D3 | 1 |
//	'----------------------------------------------'
//	    `- - - - - P A Y L O A D - - - - - - - '
//
// Note: UART sends lsb first, so D3 is bit 8.
//
// The 2nd telegram is identical but carries the high nibble. It is not
// optional: if the chip does not receive the second telegram, it discards
// the first. Both telegrams of one write must therefore reach the wire
// back-to-back, never interleaved with another chip's encoding.
package shiftreg

import (
	"io"

	"bbeeprog/pkg/errors"
)

// Baud rates supported by the SN74LV8153's self-clocking receiver.
const (
	MinBaudRate = 2000
	MaxBaudRate = 24000
)

// NumChannels is the number of addressable chips on one serial line.
const NumChannels = 8

// Encode returns the two telegrams carrying value for the given channel,
// low nibble first. Pure; callers validate the channel range.
func Encode(channel int, value byte) (lo, hi byte) {
	lo = (value&0x0F)<<4 | byte(channel)<<1 | 1
	hi = (value>>4)<<4 | byte(channel)<<1 | 1
	return lo, hi
}

// Output is one addressable shift-register latch on the serial line.
// It remembers the last value written so that redundant writes can be
// omitted: the chip's latch already holds that value and skipping the
// telegrams speeds up EEPROM writing considerably.
type Output struct {
	w       io.Writer
	channel int
	last    byte
	hasLast bool
}

// NewOutput returns an Output addressing the given channel on w.
func NewOutput(w io.Writer, channel int) (*Output, error) {
	if channel < 0 || channel >= NumChannels {
		return nil, errors.Preconditionf(errors.ErrChannelRange,
			"channel %d outside [0,%d)", channel, NumChannels)
	}
	return &Output{w: w, channel: channel}, nil
}

// Channel returns the chip address this output drives.
func (o *Output) Channel() int {
	return o.channel
}

// Write latches value onto the chip's output pins. The write is omitted
// when the latch already holds value. The very first write is never
// omitted; the power-on latch state is unknown to us.
func (o *Output) Write(value byte) error {
	if o.hasLast && value == o.last {
		return nil
	}

	lo, hi := Encode(o.channel, value)
	// One Write call keeps the telegram pair adjacent on the wire.
	if _, err := o.w.Write([]byte{lo, hi}); err != nil {
		return errors.Transport("write telegram pair", err)
	}

	o.last = value
	o.hasLast = true
	return nil
}
