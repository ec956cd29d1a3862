// bbeeprog programs a parallel EEPROM (AT28C256-class) through three
// SN74LV8153 shift registers driven from a plain serial port.
//
// Usage:
//
//	bbeeprog init DEVICE
//	bbeeprog flash [--only-changes OLD_FILE] DEVICE FILE
//	bbeeprog ports
//	bbeeprog selftest DEVICE
//	bbeeprog fill DEVICE
//
// Warning: run `bbeeprog init` before inserting the EEPROM, otherwise the
// first byte may be overwritten with zero (the shift registers power up
// with write enable asserted).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bbeeprog/pkg/eeprom"
	"bbeeprog/pkg/log"
	"bbeeprog/pkg/serial"
	"bbeeprog/pkg/shiftreg"
)

var (
	flagVerbose bool
	flagBaud    int
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bbeeprog",
		Short: "Breadboard EEPROM programmer",
		Long: "bbeeprog writes binary images to a parallel EEPROM through a chain of\n" +
			"SN74LV8153 serial-to-parallel shift registers on a UART.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagVerbose {
				log.SetDefaultLevel(log.DEBUG)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")
	root.PersistentFlags().IntVar(&flagBaud, "baud", shiftreg.MaxBaudRate,
		fmt.Sprintf("serial baud rate (%d-%d)", shiftreg.MinBaudRate, shiftreg.MaxBaudRate))

	root.AddCommand(newInitCmd())
	root.AddCommand(newFlashCmd())
	root.AddCommand(newPortsCmd())
	root.AddCommand(newSelftestCmd())
	root.AddCommand(newFillCmd())
	return root
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init DEVICE",
		Short: "Bring the bus into a safe state before EEPROM insertion",
		Long: "Opens the serial device and deasserts write enable on the shift-register\n" +
			"chain. The SN74LV8153 powers up with all outputs low and nWE is active\n" +
			"low, so inserting the EEPROM before init risks clobbering byte 0.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := eeprom.Open(args[0], flagBaud)
			if err != nil {
				return err
			}
			defer prog.Close()

			// Write enable was deasserted while opening the session.
			fmt.Fprintln(cmd.OutOrStdout(), "Initialized. Ready for EEPROM insertion.")
			return nil
		},
	}
}

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List candidate serial devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ports, err := serial.ListPorts()
			if err != nil {
				return err
			}
			if len(ports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No serial ports found.")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
