package eeprom

import (
	"bbeeprog/pkg/log"
	"bbeeprog/pkg/serial"
)

var logger = log.New("eeprom")

// Programmer is a programming session: it owns the serial port for its
// whole lifetime and exposes the timed byte writer on top of it. The bus
// is safe (nWE high) once Open returns.
type Programmer struct {
	port *serial.Port
	*Writer
}

// Open opens the serial device at the given baud rate (0 means the chip
// maximum) and initializes the shift-register chain. On failure the port
// is released before returning.
func Open(device string, baud int) (*Programmer, error) {
	resolved, err := serial.ResolveDevice(device)
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(serial.Config{Device: resolved, BaudRate: baud})
	if err != nil {
		return nil, err
	}

	w, err := NewWriter(port)
	if err != nil {
		port.Close()
		return nil, err
	}

	logger.WithField("device", resolved).Debug("session opened, write-enable deasserted")

	return &Programmer{port: port, Writer: w}, nil
}

// Device returns the resolved device path of the session.
func (p *Programmer) Device() string {
	return p.port.Device()
}

// Close drains pending telegrams and releases the port. Safe to call on
// every exit path.
func (p *Programmer) Close() error {
	logger.WithField("device", p.port.Device()).Debug("session closed")
	return p.port.Close()
}
