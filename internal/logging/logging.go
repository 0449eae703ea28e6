// Package logging builds the console logger shared by all surfaces.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w. Debug mode lowers the level and
// adds caller info; otherwise only warnings and errors surface.
func New(w io.Writer, debug bool) *log.Logger {
	opts := log.Options{
		ReportTimestamp: false,
		Level:           log.WarnLevel,
	}
	if debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(w, opts)
}
