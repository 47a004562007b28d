package handlers

import (
	"context"
	"time"

	"gopkg.in/irc.v4"

	"titlebot/internal"
	"titlebot/internal/commands"
	"titlebot/internal/logger"
	"titlebot/internal/security"
	"titlebot/internal/urltitle"
)

// Writer is the part of *irc.Client the handlers use.
type Writer interface {
	CurrentNick() string
	Writef(format string, args ...interface{}) error
	WriteMessage(m *irc.Message) error
}

type Options struct {
	Password  string
	Channels  []string
	Router    *commands.Router
	Pipeline  *urltitle.Pipeline
	Flood     *security.FloodGuard
	JoinDelay time.Duration
}

// Dispatcher routes IRC messages to the command router and the title pipeline.
type Dispatcher struct {
	ctx       context.Context
	password  string
	channels  []string
	router    *commands.Router
	pipeline  *urltitle.Pipeline
	flood     *security.FloodGuard
	joinDelay time.Duration

	// spawn runs slow work off the read loop.
	spawn func(func())
}

// NewDispatcher creates a dispatcher whose background work stops when ctx is done.
func NewDispatcher(ctx context.Context, opts Options) *Dispatcher {
	if opts.Flood == nil {
		opts.Flood = security.NewFloodGuard(0, 1)
	}
	return &Dispatcher{
		ctx:       ctx,
		password:  opts.Password,
		channels:  opts.Channels,
		router:    opts.Router,
		pipeline:  opts.Pipeline,
		flood:     opts.Flood,
		joinDelay: opts.JoinDelay,
		spawn:     func(fn func()) { go fn() },
	}
}

// Handle satisfies irc.Handler.
func (d *Dispatcher) Handle(c *irc.Client, m *irc.Message) {
	d.HandleMessage(c, m)
}

// HandlePing responds to a PING message.
func HandlePing(c Writer, m *irc.Message) {
	logger.Debugf(">> PING received: %s", m.Trailing())
	if err := c.Writef("%s :%s", internal.CMD_PONG, m.Trailing()); err != nil {
		logger.Errorf(">> Error sending PONG: %v", err)
	}
}

// HandleMessage processes incoming messages and dispatches them to the appropriate handlers.
func (d *Dispatcher) HandleMessage(c Writer, m *irc.Message) {
	switch m.Command {
	// Connection Registration
	case internal.RPL_WELCOME:
		logger.Successf(">> Welcome message received: %s", m.Trailing())
		if d.password != "" {
			if err := c.Writef("%s NickServ :IDENTIFY %s", internal.CMD_PRIVMSG, d.password); err != nil {
				logger.Errorf(">> Error identifying with NickServ: %v", err)
			} else {
				logger.Successf(">> Identifying with NickServ...")
			}
		}
	case internal.RPL_YOURHOST, internal.RPL_CREATED, internal.RPL_MYINFO, internal.RPL_ISUPPORT:
		logger.Infof(">> Server Info: %s", m.Trailing())

	// MOTD handling
	case internal.RPL_MOTDSTART, internal.RPL_MOTD:
		logger.Bluef(">> MOTD: %s", m.Trailing())
	case internal.RPL_ENDOFMOTD, internal.ERR_NOMOTD:
		logger.Bluef(">> End of MOTD")
		// Delay channel join to allow proper identification
		d.spawn(func() { d.joinChannels(c) })

	// PING/PONG
	case internal.CMD_PING:
		HandlePing(c, m)

	case internal.CMD_JOIN:
		logger.Infof(">> %s joined %s", nick(m), param(m, 0))
	case internal.CMD_PART:
		logger.Infof(">> %s left %s: %s", nick(m), param(m, 0), m.Trailing())
	case internal.CMD_KICK:
		if param(m, 1) == c.CurrentNick() {
			logger.Warnf(">> Kicked from %s by %s: %s", param(m, 0), nick(m), m.Trailing())
		} else {
			logger.Infof(">> %s was kicked from %s by %s: %s", param(m, 1), param(m, 0), nick(m), m.Trailing())
		}
	case internal.CMD_NOTICE:
		logger.Noticef(">> NOTICE from %s: %s", nick(m), m.Trailing())
	case internal.CMD_PRIVMSG:
		d.handlePrivmsg(c, m)
	case internal.CMD_ERROR:
		logger.Errorf(">> ERROR: %s", m.Trailing())

	// Numeric Replies
	case internal.RPL_TOPIC:
		logger.Bluef(">> Topic for %s: %s", param(m, 1), m.Trailing())
	case internal.RPL_NAMREPLY:
		logger.Infof(">> Users in %s: %s", param(m, 2), m.Trailing())
	case internal.RPL_ENDOFNAMES:
		logger.Debugf(">> End of /NAMES list for %s", param(m, 1))
	case internal.RPL_LOGGEDIN:
		logger.Successf(">> You are now logged in as %s", param(m, 2))
	case internal.RPL_HOSTHIDDEN:
		logger.Successf(">> Your hidden host is now: %s", param(m, 1))

	// Error Replies
	case internal.ERR_NICKNAMEINUSE:
		logger.Errorf(">> Nickname %s is already in use. Please choose a different one.", c.CurrentNick())
	case internal.ERR_NOSUCHNICK:
		logger.Warnf(">> No such nick/channel: %s", param(m, 1))
	case internal.ERR_CANNOTSENDTOCHAN:
		logger.Warnf(">> Cannot send to channel %s", param(m, 1))
	case internal.ERR_BANNEDFROMCHAN:
		logger.Errorf(">> You are banned from the channel %s", param(m, 1))
	case internal.ERR_CHANNELISFULL:
		logger.Errorf(">> Channel %s is full", param(m, 1))
	case internal.ERR_INVITEONLYCHAN:
		logger.Errorf(">> Cannot join channel %s (invite-only)", param(m, 1))
	case internal.ERR_BADCHANNELKEY:
		logger.Errorf(">> Cannot join channel %s (bad key)", param(m, 1))
	default:
		logger.Debugf(">> Unhandled message [%s]: %s", m.Command, m.Trailing())
	}
}

func (d *Dispatcher) joinChannels(c Writer) {
	if d.joinDelay > 0 {
		select {
		case <-d.ctx.Done():
			return
		case <-time.After(d.joinDelay):
		}
	}
	for _, channel := range d.channels {
		if err := c.Writef("%s %s", internal.CMD_JOIN, channel); err != nil {
			logger.Errorf(">> Error joining channel %s: %v", channel, err)
		} else {
			logger.Successf(">> Joining channel: %s", channel)
		}
	}
}

func param(m *irc.Message, i int) string {
	if i < len(m.Params) {
		return m.Params[i]
	}
	return ""
}

func nick(m *irc.Message) string {
	if m.Prefix == nil {
		return ""
	}
	return m.Prefix.Name
}
