package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/habedi/suds/cmd"
	"github.com/habedi/suds/db"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// exitInterrupted is the conventional 128+SIGINT exit status.
	exitInterrupted = 130
	// interruptGrace is how long a command gets to cancel its requests.
	interruptGrace = 2 * time.Second
)

func main() {
	configureLogLevelFromEnv()

	stopChan := setupInterruptListener()
	go handleInterrupt(stopChan, interruptGrace, db.Shutdown, os.Exit)

	cmd.Execute()
}

// configureLogLevelFromEnv enables debug logging when DEBUG_SUDS is set to
// anything other than "", "0" or "false". Logging is off otherwise.
func configureLogLevelFromEnv() {
	switch os.Getenv("DEBUG_SUDS") {
	case "", "0", "false":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func setupInterruptListener() chan os.Signal {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	return stopChan
}

// handleInterrupt waits for an interrupt. The running command sees the same
// signal through its context; if it has not returned after grace, or a
// second interrupt arrives, the database is closed and the process exits.
func handleInterrupt(stopChan chan os.Signal, grace time.Duration, shutdown func(), exit func(int)) {
	<-stopChan
	log.Warn().Msg("Interrupt signal received. Exiting...")
	select {
	case <-stopChan:
	case <-time.After(grace):
	}
	shutdown()
	exit(exitInterrupted)
}
