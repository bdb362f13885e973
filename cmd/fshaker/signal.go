package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler sets up signal handling for graceful shutdown.
// Returns a channel that is closed when a shutdown signal is received;
// in-flight hash work finishes and the hash cache is flushed before exit.
func setupSignalHandler() <-chan struct{} {
	shutdown := make(chan struct{})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived signal: %v\n", sig)
		close(shutdown)
		signal.Stop(sigChan)
		fmt.Fprintf(os.Stderr, "Initiating graceful shutdown...\n")
	}()

	return shutdown
}
