// Package logging wraps github.com/charmbracelet/log with the small set of
// severities the bridge needs. It supersedes the teacher's textcolor.go,
// which only ever toggled color on/off around fmt.Printf.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Category mirrors the five colors direwolf's textcolor.c distinguished
// (DW_COLOR_INFO/ERROR/REC/DECODED/DEBUG) but maps them onto log levels
// instead of ANSI escapes.
type Category int

const (
	Info Category = iota
	Error
	Received
	Sent
	Debug
)

// New builds a logger writing to w (stderr in production, a buffer in
// tests) at debug level when debug is true, info level otherwise.
func New(w io.Writer, debug bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
	})

	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	return logger
}

// Log routes msg through the logger at the level implied by cat.
func Log(logger *log.Logger, cat Category, msg string, kv ...any) {
	switch cat {
	case Error:
		logger.Error(msg, kv...)
	case Debug:
		logger.Debug(msg, kv...)
	case Received, Sent, Info:
		fallthrough
	default:
		logger.Info(msg, kv...)
	}
}
