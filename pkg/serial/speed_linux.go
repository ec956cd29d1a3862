//go:build linux

package serial

import "golang.org/x/sys/unix"

// Standard termios speed constants within the SN74LV8153's baud window.
var standardSpeeds = map[int]uint32{
	2400:  unix.B2400,
	4800:  unix.B4800,
	9600:  unix.B9600,
	19200: unix.B19200,
}

// setSpeed configures the baud rate on the termios struct for Linux.
// Non-standard rates (including the chip's 24000 maximum) use BOTHER.
func setSpeed(termios *unix.Termios, baud int) {
	termios.Cflag &^= unix.CBAUD
	if speed, ok := standardSpeeds[baud]; ok {
		termios.Cflag |= speed
		termios.Ispeed = speed
		termios.Ospeed = speed
		return
	}
	termios.Cflag |= unix.BOTHER
	termios.Ispeed = uint32(baud)
	termios.Ospeed = uint32(baud)
}

// setCustomSpeed is not needed on Linux; BOTHER covers arbitrary rates.
func setCustomSpeed(fd, baud int) error {
	return nil
}

// drain waits until all queued output has been transmitted.
func drain(fd int) error {
	// tcdrain(3) is TCSBRK with a non-zero argument on Linux.
	return unix.IoctlSetInt(fd, unix.TCSBRK, 1)
}
