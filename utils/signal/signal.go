package signal

import (
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals returns the signals that are watched to shut down services.
func ShutdownSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT,
	}
}

// WaitShutdown blocks until one of the shutdown signals arrives.
func WaitShutdown() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, ShutdownSignals()...)
	return <-signals
}
