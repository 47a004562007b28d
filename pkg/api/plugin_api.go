// Package api provides a public interface for bot plugins.
// It allows plugins to use bot functionality without directly importing internal packages.
package api

import (
	"context"
	"net/http"
	"time"

	"titlebot/internal/commands"
	"titlebot/internal/logger"
	"titlebot/internal/urltitle"
	"titlebot/internal/webclient"
)

// Log functions that plugins can use
func LogInfo(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

func LogError(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

func LogSuccess(format string, args ...interface{}) {
	logger.Successf(format, args...)
}

func LogWarn(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func LogDebug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Types shared with the bot.
type (
	Trigger         = urltitle.Trigger
	Replier         = urltitle.Replier
	Callback        = urltitle.Callback
	CallbackFunc    = urltitle.CallbackFunc
	PatternCallback = urltitle.PatternCallback

	Command     = commands.Command
	CommandFunc = commands.CommandFunc
	Request     = commands.Request
)

// IRC Colors
const (
	ColorWhite      = "\x0300"
	ColorBlack      = "\x0301"
	ColorBlue       = "\x0302"
	ColorGreen      = "\x0303"
	ColorRed        = "\x0304"
	ColorLightGreen = "\x0309"
	ColorGray       = "\x0314"
	Bold            = "\x02"
	Italic          = "\x1D"
	Underline       = "\x1F"
	Reset           = "\x0F"
)

// ColorText returns colored text for IRC
func ColorText(text string, color string) string {
	return color + text + Reset
}

// BoldText returns bold text for IRC
func BoldText(text string) string {
	return Bold + text + Reset
}

// NewHTTPClient returns a client that follows at most 10 redirects.
func NewHTTPClient(timeout time.Duration, verifyTLS bool) *http.Client {
	return webclient.New(timeout, verifyTLS)
}

// NewRequest creates a request carrying the bot's User-Agent.
func NewRequest(ctx context.Context, method, url string) (*http.Request, error) {
	return webclient.NewRequest(ctx, method, url)
}

// Hostname returns the host part of url as shown next to titles.
func Hostname(url string) string {
	return urltitle.Hostname(url)
}

// FormatResult renders a line in the same shape as page titles,
// e.g. "[ Example ] - example.com".
func FormatResult(title, url string) string {
	return urltitle.Result{Title: title, Hostname: urltitle.Hostname(url)}.String()
}
