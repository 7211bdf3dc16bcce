// Package logging builds the diagnostic logger. User-facing output goes
// through pterm; this logger writes to stderr and is quiet by default.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level. An empty level
// means warn.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "wren",
		ReportTimestamp: lvl == log.DebugLevel,
	}), nil
}

func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "":
		return log.WarnLevel, nil
	case "warning":
		return log.WarnLevel, nil
	}

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", level)
	}
	return lvl, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
