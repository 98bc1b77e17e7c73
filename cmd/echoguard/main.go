// Command echoguard scores WAV recordings for signs of editing.
//
// Usage:
//
//	echoguard analyze [flags] <file.wav>...
//	echoguard features [flags] <file.wav>
//
// Settings come from defaults, an optional echoguard.yaml, ECHOGUARD_*
// environment variables and flags, in increasing order of precedence.
//
// Examples:
//
//	echoguard analyze take1.wav take2.wav
//	echoguard analyze -o json --workers 4 interview.wav
//	echoguard analyze --reason --log-level debug call.wav
//	echoguard features -o yaml clip.wav
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
