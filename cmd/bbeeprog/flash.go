package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"bbeeprog/pkg/eeprom"
	"bbeeprog/pkg/flash"
)

func newFlashCmd() *cobra.Command {
	var onlyChanges string

	cmd := &cobra.Command{
		Use:   "flash DEVICE FILE",
		Short: "Write a binary image to the EEPROM",
		Long: "Streams FILE to the EEPROM starting at address 0. With --only-changes,\n" +
			"bytes that are identical in FILE and OLD_FILE are skipped, which speeds\n" +
			"up iterative development considerably (each written byte costs a full\n" +
			"write cycle).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			device, file := args[0], args[1]

			img, err := os.Open(file)
			if err != nil {
				return err
			}
			defer img.Close()

			var baseline *os.File
			if onlyChanges != "" {
				baseline, err = os.Open(onlyChanges)
				if err != nil {
					return err
				}
				defer baseline.Close()
			}

			prog, err := eeprom.Open(device, flagBaud)
			if err != nil {
				return err
			}
			defer prog.Close()

			out := cmd.OutOrStdout()
			if baseline != nil {
				fmt.Fprintln(out, "Note: Flashing in changes only mode.")
			}

			start := time.Now()
			rep := &flash.ConsoleReporter{W: out}
			if baseline != nil {
				err = flash.Write(prog, rep, img, baseline)
			} else {
				err = flash.Write(prog, rep, img, nil)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Writing took %.3fs.\n", time.Since(start).Seconds())
			return nil
		},
	}

	cmd.Flags().StringVar(&onlyChanges, "only-changes", "",
		"flash only bytes that differ between FILE and OLD_FILE")
	return cmd
}
