// Package logging configures the structured logger shared by the CLI,
// the simulator and the storage layer.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

const DefaultLevel = "info"

// New returns a logger writing to w at the named level. A nil writer
// means stderr.
func New(level string, w io.Writer) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "bounce",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}), nil
}

// Discard is a logger that drops everything; used where no logger is
// configured, such as inside the live viewer.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
