package main

import (
	"io"
	"log/slog"
	"os"
)

func main() {
	// Logging is discarded unless --verbose enables it (see root.go).
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	execute()
}

// initLogging reconfigures the default logger once flags are parsed.
func initLogging(verbose bool) {
	if !verbose {
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}
