package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/abrezinsky/eventvote/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

// consoleLogger is the part of the logger the keyboard shortcuts drive
type consoleLogger interface {
	GetLevel() slog.Level
	SetLevel(level slog.Level)
	IsHTTPLoggingEnabled() bool
	EnableHTTPLogging()
	DisableHTTPLogging()
}

var _ consoleLogger = (*logger.SlogLogger)(nil)

// nextLevel cycles through debug -> info -> warn -> error
func nextLevel(current slog.Level) slog.Level {
	switch current {
	case slog.LevelDebug:
		return slog.LevelInfo
	case slog.LevelInfo:
		return slog.LevelWarn
	case slog.LevelWarn:
		return slog.LevelError
	case slog.LevelError:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp(w io.Writer) {
	fmt.Fprintf(w, "\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Fprintf(w, "    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Fprintf(w, "    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Fprintf(w, "    %sq%s      - Quit server\n", cyan, reset)
	fmt.Fprintf(w, "    %s?%s      - Show this help\n\n", cyan, reset)
}

// handleKey performs the action bound to key. It returns false once the
// server has been asked to quit.
func handleKey(key byte, w io.Writer, appLog consoleLogger, quit func()) bool {
	switch strings.ToLower(string(key)) {
	case "h":
		if appLog.IsHTTPLoggingEnabled() {
			appLog.DisableHTTPLogging()
			fmt.Fprintf(w, "%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			appLog.EnableHTTPLogging()
			fmt.Fprintf(w, "%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		next := nextLevel(appLog.GetLevel())
		appLog.SetLevel(next)
		fmt.Fprintf(w, "%sLog level: %s%s%s\n", green, yellow, strings.ToLower(next.String()), reset)
	case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
		fmt.Fprintf(w, "%sShutting down server...%s\n", yellow, reset)
		quit()
		return false
	case "?":
		printKeyboardHelp(w)
	}
	return true
}

// readKeys feeds bytes from r to handleKey until quit or end of input
func readKeys(r io.Reader, w io.Writer, appLog consoleLogger, quit func()) {
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		if !handleKey(buf[0], w, appLog, quit) {
			return
		}
	}
}
