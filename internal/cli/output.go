package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // verbose output; keeps JSON on Writer clean
	Verbose   bool
}

// CLIResponse is the JSON shape of every command's output.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
}

// Success writes data as JSON, or hands the writer to text for the
// human-readable form.
func (f *OutputFormatter) Success(data interface{}, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
