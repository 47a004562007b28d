package connection

import (
	"context"
	"fmt"
	"net"
	"time"

	"gopkg.in/irc.v4"

	"titlebot/internal"
	"titlebot/internal/bot"
	"titlebot/internal/config"
)

// EstablishConnection dials the IRC server and wraps the connection in a
// client that sends every message to handler. The caller owns the returned
// connection and must close it.
func EstablishConnection(ctx context.Context, cfg *config.Config, handler irc.Handler) (net.Conn, *irc.Client, error) {
	connectionTimeout := time.Duration(internal.DEFAULT_CONNECT_TIMEOUT) * time.Second

	// Use DialContext so that dialing can be canceled with a timeout
	connectCtx, connectCancel := context.WithTimeout(ctx, connectionTimeout)
	defer connectCancel()

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(connectCtx, "tcp", cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s: %w", cfg.Server, err)
	}

	return conn, bot.SetupClient(conn, cfg, handler), nil
}
