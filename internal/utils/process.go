package utils

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/phuslu/log"
)

// ListenForProcessInterruptOrKill blocks until it receives an interrupt
// (Ctrl+C) or termination signal (SIGTERM), then returns. This is
// typically used to keep a program running until the user requests
// shutdown.
func ListenForProcessInterruptOrKill() {
	// Listen for Ctrl+C or kill
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Info().Msg("press Ctrl+C to exit")

	<-sigChan // block until signal arrives
}
