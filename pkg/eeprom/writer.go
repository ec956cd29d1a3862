// Package eeprom sequences timed byte writes to an AT28C256-class parallel
// EEPROM wired to three SN74LV8153 shift registers: low address byte
// (channel 0), high address byte plus write enable (channel 1), and data
// byte (channel 2).
package eeprom

import (
	"io"
	"time"

	"bbeeprog/pkg/errors"
	"bbeeprog/pkg/shiftreg"
)

const (
	// MaxAddress is the highest valid EEPROM address (32 KiB).
	MaxAddress = 0x7FFF

	// WriteDisableBit keeps nWE (active low) deasserted on the
	// high-address channel.
	WriteDisableBit = 1 << 7

	// WriteCycleTime is the minimum spacing between byte writes. The
	// AT28C256 is rated for 10 ms, but USB-to-UART adapters are not very
	// timing accurate, so the rating is extended by half again.
	WriteCycleTime = 15 * time.Millisecond
)

// Shift-register channel assignment on the serial line.
const (
	channelAddrLo = 0
	channelAddrHi = 1
	channelData   = 2
)

// Writer performs correctly ordered and timed single-byte writes.
type Writer struct {
	addrLo *shiftreg.Output
	addrHi *shiftreg.Output
	data   *shiftreg.Output

	cycle     time.Duration
	lastWrite time.Time

	// test hooks
	now   func() time.Time
	sleep func(time.Duration)
}

// NewWriter builds the three channel outputs on w and brings the bus into
// a safe state.
//
// The SN74LV8153 powers up with all output pins low. Write enable is
// active low, so a freshly powered board has writing enabled (not good).
// NewWriter immediately raises nWE; the EEPROM should only be inserted
// afterwards, otherwise byte 0 may be overwritten with 0x00.
func NewWriter(w io.Writer) (*Writer, error) {
	addrLo, err := shiftreg.NewOutput(w, channelAddrLo)
	if err != nil {
		return nil, err
	}
	addrHi, err := shiftreg.NewOutput(w, channelAddrHi)
	if err != nil {
		return nil, err
	}
	data, err := shiftreg.NewOutput(w, channelData)
	if err != nil {
		return nil, err
	}

	wr := &Writer{
		addrLo: addrLo,
		addrHi: addrHi,
		data:   data,
		cycle:  WriteCycleTime,
		now:    time.Now,
		sleep:  time.Sleep,
	}

	if err := wr.addrHi.Write(WriteDisableBit); err != nil {
		return nil, err
	}

	// Start the write-cycle clock now, in case the EEPROM was inserted
	// before initialization and a write on byte 0 is already in progress.
	// The tiny delay does not hurt on the happy path.
	wr.lastWrite = wr.now()

	return wr, nil
}

// WriteByte commits value to addr, honoring the chip's write-cycle timing.
//
// The AT28C256 has setup/hold requirements in the <= 100 ns range for byte
// writes. They are all lower limits and always satisfied here, because the
// maximum baud rate slows each telegram into the microsecond range.
func (wr *Writer) WriteByte(addr int, value byte) error {
	if addr < 0 || addr > MaxAddress {
		return errors.Preconditionf(errors.ErrAddressOverflow,
			"address 0x%04x exceeds 0x%04x", addr, MaxAddress)
	}

	if err := wr.data.Write(value); err != nil {
		return err
	}
	if err := wr.addrLo.Write(byte(addr & 0xFF)); err != nil {
		return err
	}
	// The data sheet latches the address on the falling edge of nWE. If
	// the address lines were set up in the same telegram as the strobe,
	// capacitive signal delays might ruin the write, so they are settled
	// in advance, with nWE still high.
	if err := wr.addrHi.Write(byte(addr>>8) | WriteDisableBit); err != nil {
		return err
	}

	if delay := wr.lastWrite.Add(wr.cycle).Sub(wr.now()); delay > 0 {
		wr.sleep(delay)
	}

	// Strobe write enable (nWE, active low).
	if err := wr.addrHi.Write(byte(addr >> 8)); err != nil {
		return err
	}
	if err := wr.addrHi.Write(byte(addr>>8) | WriteDisableBit); err != nil {
		return err
	}
	wr.lastWrite = wr.now()

	return nil
}

// Outputs returns the three channel outputs (addr lo, addr hi, data) for
// hardware bring-up tests that drive the pins without an EEPROM.
func (wr *Writer) Outputs() (addrLo, addrHi, data *shiftreg.Output) {
	return wr.addrLo, wr.addrHi, wr.data
}
