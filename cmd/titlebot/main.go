package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"titlebot/internal"
	"titlebot/internal/connection"
	"titlebot/internal/initialization"
	"titlebot/internal/logger"
)

func main() {
	// Create a cancellable context to manage shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := initialization.Initialize(ctx)
	if err != nil {
		logger.Errorf("Initialization error: %v", err)
		logger.CloseLogFile()
		os.Exit(1)
	}

	defer func() {
		b.Plugins.UnloadAll()
		logger.CloseLogFile()
	}()

	// Setup signal handling for graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		logger.Infof("Shutdown signal received, exiting...")
		cancel()
	}()

	go b.RunMaintenance(ctx)

	reconnectDelay := time.Duration(internal.DEFAULT_RECONNECT_DELAY) * time.Second

	for {
		// Check for shutdown before attempting a new connection
		select {
		case <-ctx.Done():
			logger.Infof("Exiting connection loop due to shutdown signal.")
			return
		default:
		}

		logger.Infof("Attempting to connect to IRC server at %s...", b.Config.Server)

		conn, client, err := connection.EstablishConnection(ctx, b.Config, b.Dispatcher)
		if err != nil {
			logger.Errorf("Failed to connect: %v. Retrying in %s...", err, reconnectDelay)
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
				continue
			}
		}

		// Run the client in a separate goroutine
		runErrCh := make(chan error, 1)
		go func() {
			runErrCh <- client.Run()
		}()

		// Wait until either the client stops or a shutdown is requested
		select {
		case <-ctx.Done():
			logger.Infof("Shutdown requested, closing connection.")
			if err := conn.Close(); err != nil {
				logger.Errorf("Error closing connection: %v", err)
			}
			if err := <-runErrCh; err != nil {
				logger.Debugf("client.Run terminated with error: %v", err)
			}
			return
		case err := <-runErrCh:
			if err != nil {
				logger.Errorf("IRC client disconnected: %v", err)
			}
		}

		if err := conn.Close(); err != nil {
			logger.Debugf("Error closing connection: %v", err)
		}

		logger.Warnf("Reconnecting in %s...", reconnectDelay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}
