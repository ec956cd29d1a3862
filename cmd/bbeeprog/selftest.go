package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"bbeeprog/pkg/eeprom"
	"bbeeprog/pkg/flash"
)

func newSelftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest DEVICE",
		Short: "Walk all output values for wiring verification (no EEPROM)",
		Long: "Puts every value from 0 to 255 onto all three shift-register outputs so\n" +
			"the wiring can be checked with a signal analyzer. Run without an EEPROM\n" +
			"inserted; the write-enable line toggles during the walk.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := eeprom.Open(args[0], flagBaud)
			if err != nil {
				return err
			}
			defer prog.Close()

			addrLo, addrHi, data := prog.Outputs()
			for n := 0; n < 256; n++ {
				v := byte(n)
				if err := addrLo.Write(v); err != nil {
					return err
				}
				if err := addrHi.Write(v); err != nil {
					return err
				}
				if err := data.Write(v); err != nil {
					return err
				}
			}

			// Leave the bus in the safe post-init state.
			if err := addrHi.Write(eeprom.WriteDisableBit); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Selftest pattern sent.")
			return nil
		},
	}
}

// patternReader yields the 32 KiB verification pattern: a repeating 0-255
// ramp whose lowest values are clamped to the number of completed
// repetitions, e.g. 0,1,..255, 1,1,2,..255, 2,1,2,..255.
type patternReader struct {
	n int
}

func (p *patternReader) Read(buf []byte) (int, error) {
	if p.n > eeprom.MaxAddress {
		return 0, io.EOF
	}
	i := 0
	for ; i < len(buf) && p.n <= eeprom.MaxAddress; i++ {
		v := p.n % 256
		if rep := p.n / 256; rep > v {
			v = rep
		}
		buf[i] = byte(v)
		p.n++
	}
	return i, nil
}

func newFillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fill DEVICE",
		Short: "Fill the EEPROM with the 32 KiB verification pattern",
		Long: "Writes a known counting pattern across the full address space. The\n" +
			"content can afterwards be sampled with a signal analyzer to verify\n" +
			"writes reached the chip (there is no read path through the shift\n" +
			"registers).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := eeprom.Open(args[0], flagBaud)
			if err != nil {
				return err
			}
			defer prog.Close()

			out := cmd.OutOrStdout()
			start := time.Now()
			if err := flash.Write(prog, &flash.ConsoleReporter{W: out}, &patternReader{}, nil); err != nil {
				return err
			}
			fmt.Fprintf(out, "Writing took %.3fs.\n", time.Since(start).Seconds())
			return nil
		},
	}
}
