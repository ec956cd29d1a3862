//go:build darwin

package serial

import "golang.org/x/sys/unix"

// Standard termios speed constants within the SN74LV8153's baud window.
var standardSpeeds = map[int]uint64{
	2400:  unix.B2400,
	4800:  unix.B4800,
	9600:  unix.B9600,
	19200: unix.B19200,
}

// setSpeed configures the baud rate on the termios struct for macOS.
// Non-standard rates get a placeholder here and the real rate via
// IOSSIOSPEED in setCustomSpeed.
func setSpeed(termios *unix.Termios, baud int) {
	speed, ok := standardSpeeds[baud]
	if !ok {
		speed = unix.B9600
	}
	termios.Ispeed = speed
	termios.Ospeed = speed
}

// setCustomSpeed sets a non-standard baud rate using the macOS-specific
// IOSSIOSPEED ioctl.
func setCustomSpeed(fd, baud int) error {
	if _, ok := standardSpeeds[baud]; ok {
		return nil
	}
	// _IOW('T', 2, speed_t)
	const IOSSIOSPEED = 0x80045402
	return unix.IoctlSetPointerInt(fd, IOSSIOSPEED, baud)
}

// drain waits until all queued output has been transmitted.
func drain(fd int) error {
	return unix.IoctlSetInt(fd, unix.TIOCDRAIN, 0)
}
