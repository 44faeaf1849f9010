package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/dragbox/config"
	"github.com/lixenwraith/dragbox/control"
	"github.com/lixenwraith/dragbox/logging"
	"github.com/lixenwraith/dragbox/pointer"
	"github.com/lixenwraith/dragbox/shape"
	"github.com/lixenwraith/dragbox/tcellterm"
	"github.com/lixenwraith/dragbox/terminal"
)

// screen is what both backends provide to the drag loop
type screen interface {
	control.Screen
	control.Source
	Init() error
	Fini()
	Size() (width, height int)
	PostEvent(terminal.Event)
}

type screenOpener func(backend string) (screen, error)

func newRootCmd(open screenOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dragbox",
		Short: "Drag a block around the terminal with the mouse",
		Long: `dragbox draws a solid block in the terminal and moves it while the
mouse is dragged over it. Any key press or focus change exits.

Settings come from flags, DRAGBOX_* environment variables and an optional
dragbox.toml, in that order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, open)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// run owns the terminal for the session; every return path restores it
func run(ctx context.Context, cfg config.Config, open screenOpener) error {
	// Everything that can fail without the terminal happens before it is touched
	if err := cfg.Validate(); err != nil {
		return err
	}
	shp := shape.New(cfg.Width, cfg.Height, cfg.X, cfg.Y)
	tracker := pointer.NewTracker(0, 0, cfg.Policy())

	log, closer, err := logging.New(cfg.Logging())
	if err != nil {
		return err
	}
	defer closer.Close()

	scr, err := open(cfg.Backend)
	if err != nil {
		return err
	}
	// Normal exit terminal cleanup
	defer scr.Fini()

	if err := scr.Init(); err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}
	if err := enableReports(scr); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	// The loop only checks ctx between events, so wake it up
	go func() {
		<-ctx.Done()
		scr.PostEvent(terminal.Event{Type: terminal.EventClosed})
	}()

	ctrl := control.New(scr, scr, shp, tracker, control.WithLogger(log.With().Str("component", "control").Logger()))

	w, h := scr.Size()
	log.Info().Str("backend", cfg.Backend).Int("width", w).Int("height", h).Msg("session started")
	err = ctrl.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("stopped by signal")
		err = nil
	}
	logExit(log, err)
	return err
}

// enableReports turns on mouse, focus and paste reporting on the ANSI
// terminal; the tcell screen enables them in Init
func enableReports(scr screen) error {
	t, ok := scr.(terminal.Terminal)
	if !ok {
		return nil
	}
	if err := t.SetMouseMode(terminal.MouseModeAll); err != nil {
		return fmt.Errorf("enable mouse reporting: %w", err)
	}
	if err := t.SetFocusReporting(true); err != nil {
		return fmt.Errorf("enable focus reporting: %w", err)
	}
	if err := t.SetBracketedPaste(true); err != nil {
		return fmt.Errorf("enable bracketed paste: %w", err)
	}
	return nil
}

func openScreen(backend string) (screen, error) {
	switch backend {
	case config.BackendANSI:
		return terminal.New(), nil
	case config.BackendTcell:
		s, err := tcellterm.New()
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: backend %q", config.ErrInvalid, backend)
}

func logExit(log zerolog.Logger, err error) {
	if err != nil {
		log.Error().Err(err).Msg("session failed")
		return
	}
	log.Info().Msg("session ended")
}
