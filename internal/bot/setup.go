package bot

import (
	"net"
	"time"

	"gopkg.in/irc.v4"

	"titlebot/internal/config"
)

const (
	pingFrequency = time.Minute
	pingTimeout   = 2 * time.Minute

	// outgoing lines are paced so a burst of titles cannot get the bot
	// disconnected for flooding
	sendLimit = 700 * time.Millisecond
	sendBurst = 4
)

// SetupClient initializes a new IRC client with the provided connection and configuration.
func SetupClient(conn net.Conn, cfg *config.Config, handler irc.Handler) *irc.Client {
	clientConfig := irc.ClientConfig{
		Nick:          cfg.Nick,
		User:          cfg.User,
		Name:          cfg.RealName,
		PingFrequency: pingFrequency,
		PingTimeout:   pingTimeout,
		SendLimit:     sendLimit,
		SendBurst:     sendBurst,
		Handler:       handler,
	}
	return irc.NewClient(conn, clientConfig)
}
