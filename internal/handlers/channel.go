package handlers

import (
	"strings"

	"gopkg.in/irc.v4"

	"titlebot/internal"
	"titlebot/internal/logger"
	"titlebot/internal/urltitle"
)

const ctcpDelim = "\x01"

func (d *Dispatcher) handlePrivmsg(c Writer, m *irc.Message) {
	if m.Prefix == nil || len(m.Params) == 0 {
		return
	}

	userNick := m.Prefix.Name
	if strings.EqualFold(userNick, c.CurrentNick()) {
		return
	}

	message, ok := plainText(m.Trailing())
	if !ok {
		return
	}

	replyTarget := m.Params[0]
	if strings.EqualFold(replyTarget, c.CurrentNick()) {
		replyTarget = userNick
		logger.Whitef(">> Private message from %s: %s", userNick, message)
	} else {
		logger.ChanMsgf("%s | %s: %s", replyTarget, userNick, message)
	}

	trigger := urltitle.Trigger{
		Nick:     userNick,
		Hostmask: m.Prefix.String(),
		Channel:  replyTarget,
		Text:     message,
	}
	out := &ircReplier{w: c, target: replyTarget, nick: userNick}

	if d.isCommand(message) {
		d.run(func() { d.router.Handle(d.ctx, trigger, out) })
		return
	}

	if d.pipeline == nil {
		return
	}
	// Last seen is kept even for users over the title rate limit
	urls := d.pipeline.Observe(trigger)
	if len(urls) == 0 {
		return
	}

	if allowed, firstRefusal := d.flood.Allow(trigger.Hostmask); !allowed {
		if firstRefusal {
			logger.Warnf("Title rate limit reached for %s in %s", trigger.Hostmask, replyTarget)
		}
		return
	}

	d.run(func() { d.pipeline.SayTitles(d.ctx, trigger, urls, out) })
}

func (d *Dispatcher) isCommand(message string) bool {
	if d.router == nil {
		return false
	}
	name, _, ok := d.router.Parse(message)
	if !ok {
		return false
	}
	_, exists := d.router.Lookup(name)
	return exists
}

// run spawns fn and logs instead of crashing when it panics.
func (d *Dispatcher) run(fn func()) {
	d.spawn(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("Recovered from panic while handling message: %v", r)
			}
		}()
		fn()
	})
}

// plainText unwraps CTCP ACTION and rejects every other CTCP request.
func plainText(text string) (string, bool) {
	if !strings.HasPrefix(text, ctcpDelim) {
		return text, true
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(text, ctcpDelim), ctcpDelim)
	if action, found := strings.CutPrefix(inner, "ACTION "); found {
		return action, true
	}
	return "", false
}

// ircReplier sends replies to the channel, or to the sender of a private message.
type ircReplier struct {
	w      Writer
	target string
	nick   string
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (r *ircReplier) Say(text string) {
	err := r.w.WriteMessage(&irc.Message{
		Command: internal.CMD_PRIVMSG,
		Params:  []string{r.target, lineBreaks.Replace(text)},
	})
	if err != nil {
		logger.Errorf("Error sending message to %s: %v", r.target, err)
	}
}

func (r *ircReplier) Reply(text string) {
	r.Say(r.nick + ": " + text)
}
