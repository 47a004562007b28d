// Package imageinfo answers for direct image links with the image's type and
// size instead of a page title.
package imageinfo

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"titlebot/pkg/api"
)

const (
	Name    = "imageinfo"
	Version = "1.0.0"

	headTimeout = 5 * time.Second
)

var imagePattern = regexp.MustCompile(`(?i)^(?:https?|ftp)://\S+\.(png|jpe?g|gif|webp|svg)(?:[?#]\S*)?$`)

// Plugin is usable as its zero value, which is what the .so build exports.
type Plugin struct {
	client *http.Client
}

// New creates the plugin. A nil client gets the bot's default HTTP client.
func New(client *http.Client) *Plugin {
	return &Plugin{client: client}
}

func (p *Plugin) Name() string {
	return Name
}

func (p *Plugin) Version() string {
	return Version
}

func (p *Plugin) OnLoad() error {
	if p.client == nil {
		p.client = api.NewHTTPClient(headTimeout, true)
	}
	api.LogDebug("imageinfo watching %s", imagePattern)
	return nil
}

func (p *Plugin) URLCallbacks() []api.Callback {
	return []api.Callback{&api.PatternCallback{
		Pattern: imagePattern,
		Fn: func(ctx context.Context, out api.Replier, trigger api.Trigger, url string, match []string) {
			out.Reply(p.Describe(ctx, url))
		},
	}}
}

func (p *Plugin) Commands() []api.Command {
	return []api.Command{{
		Name:        "img",
		Aliases:     []string{"image"},
		Description: "Show the type and size of an image link",
		Usage:       "img <url>",
		Handler: func(ctx context.Context, req *api.Request) {
			fields := req.Fields()
			if len(fields) == 0 {
				req.Out.Reply("Give me an image URL")
				return
			}
			req.Out.Reply(p.Describe(ctx, fields[0]))
		},
	}}
}

// Describe sends a HEAD request for url and renders e.g.
// "[ image/png, 12 kB ] - example.com".
func (p *Plugin) Describe(ctx context.Context, url string) string {
	req, err := api.NewRequest(ctx, http.MethodHead, url)
	if err != nil {
		return "Sorry, that does not look like a URL."
	}

	resp, err := p.client.Do(req)
	if err != nil {
		api.LogDebug("imageinfo HEAD %s failed: %v", url, err)
		return "Sorry, fetching that image failed."
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Sprintf("Sorry, fetching that image failed: HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	contentType = strings.ToLower(contentType)
	if contentType == "" {
		contentType = "unknown type"
	}

	details := contentType
	if resp.ContentLength >= 0 {
		details += ", " + humanize.Bytes(uint64(resp.ContentLength))
	}
	return fmt.Sprintf("[ %s ] - %s", details, api.Hostname(url))
}
