package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotLoggedIn is returned by commands that need a session when none is stored.
	ErrNotLoggedIn = errors.New("not logged in: run \"jobctl login\" first")
	// ErrUnauthorized is returned when the stored role may not run a command.
	ErrUnauthorized = errors.New("unauthorized")
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Emit writes data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Emit(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}
	text(f.Writer)
	return nil
}

// Line prints one line in text mode and nothing in JSON mode.
func (f *OutputFormatter) Line(format string, args ...any) {
	if f.Format == "json" {
		return
	}
	fmt.Fprintf(f.Writer, format+"\n", args...)
}
