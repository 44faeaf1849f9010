// input-test prints every decoded terminal event, for checking what a
// terminal emulator actually reports. Ctrl+C or Ctrl+Q quits.
package main

import (
	"fmt"
	"os"

	"github.com/lixenwraith/dragbox/terminal"
)

const maxLog = 200

func main() {
	term := terminal.New()
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer term.Fini()

	if err := enable(term); err != nil {
		term.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	w, h := term.Size()
	log := newEventLog(maxLog)

	for {
		if err := render(term, log, w, h); err != nil {
			term.Fini()
			fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
			os.Exit(1)
		}

		ev := term.PollEvent()
		switch ev.Type {
		case terminal.EventKey:
			if ev.Key == terminal.KeyCtrlC || ev.Key == terminal.KeyCtrlQ {
				return
			}
		case terminal.EventResize:
			w, h = ev.Width, ev.Height
		case terminal.EventClosed:
			return
		}
		log.add(ev.String())
	}
}

func enable(term terminal.Terminal) error {
	if err := term.SetMouseMode(terminal.MouseModeAll); err != nil {
		return err
	}
	if err := term.SetFocusReporting(true); err != nil {
		return err
	}
	return term.SetBracketedPaste(true)
}

func render(term terminal.Terminal, log *eventLog, w, h int) error {
	if err := term.Clear(); err != nil {
		return err
	}
	if err := printAt(term, 0, 0, "Input Test - Ctrl+C or Ctrl+Q to quit", w); err != nil {
		return err
	}
	if err := printAt(term, 0, h-1, fmt.Sprintf("Size: %dx%d | Events: %d", w, h, log.total), w); err != nil {
		return err
	}

	// Newest entry sits just above the status line
	for i, line := range log.tail(h - 3) {
		if err := printAt(term, 1, 2+i, line, w-1); err != nil {
			return err
		}
	}
	return term.Flush()
}

func printAt(term terminal.Terminal, x, y int, s string, limit int) error {
	if err := term.MoveTo(x, y); err != nil {
		return err
	}
	n := 0
	for _, r := range s {
		if n >= limit {
			break
		}
		if err := term.Print(r); err != nil {
			return err
		}
		n++
	}
	return nil
}
