// Package terminal provides direct ANSI terminal control for a single
// interactive session.
//
// Features:
//   - Raw mode and alternate screen acquisition with idempotent restore
//   - SGR mouse, focus change and bracketed paste reporting
//   - Raw stdin input parsing with escape sequence handling
//   - Buffered cursor/glyph output with an explicit Flush
//   - SIGWINCH resize detection
//   - Emergency restoration for panic paths
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
