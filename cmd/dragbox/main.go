package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/lixenwraith/dragbox/terminal"
)

func main() {
	// Panic Recovery: reset the terminal even if the loop crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)

			// \r\n in case the tty is still raw
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mDRAGBOX CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newRootCmd(openScreen).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
