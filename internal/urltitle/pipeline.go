package urltitle

import (
	"context"
	"strings"

	"titlebot/internal/logger"
)

const (
	// MaxResults is the most title lines sent for one message.
	MaxResults = 4

	FetchFailedNotice    = "Sorry, fetching that title failed. Make sure the site is working."
	PartialFailureNotice = "I couldn't get all of the titles, but I fetched what I could!"
)

// Options wires the pipeline's collaborators. Shortener and LastSeen may be nil.
type Options struct {
	ExclusionChar string
	CommandPrefix string
	Registry      *Registry
	Titles        TitleFinder
	Shortener     Shortener
	LastSeen      LastSeenStore
}

// Pipeline turns chat messages into title replies.
type Pipeline struct {
	exclusionChar string
	titleCommand  string
	extractor     *Extractor
	registry      *Registry
	titles        TitleFinder
	shortener     Shortener
	lastSeen      LastSeenStore
}

func NewPipeline(opts Options) *Pipeline {
	if opts.Registry == nil {
		opts.Registry = NewRegistry(nil)
	}
	if opts.LastSeen == nil {
		opts.LastSeen = NewMemoryLastSeen()
	}
	return &Pipeline{
		exclusionChar: opts.ExclusionChar,
		titleCommand:  opts.CommandPrefix + "title",
		extractor:     NewExtractor(opts.ExclusionChar),
		registry:      opts.Registry,
		titles:        opts.Titles,
		shortener:     opts.Shortener,
		lastSeen:      opts.LastSeen,
	}
}

// Registry returns the callback registry the pipeline consults.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// LastSeen returns the last URL recorded for channel.
func (p *Pipeline) LastSeen(channel string) (string, bool) {
	return p.lastSeen.Get(channel)
}

// ProcessURLs resolves titles for urls one at a time, in order. URLs that are
// exclusion-prefixed, claimed or without a title are left out of the result.
func (p *Pipeline) ProcessURLs(ctx context.Context, urls []string) []Result {
	var results []Result
	for _, raw := range urls {
		if p.exclusionChar != "" && strings.HasPrefix(raw, p.exclusionChar) {
			continue
		}

		u := p.normalize(raw)
		if p.registry.Claimed(u) {
			logger.Debugf("Skipping claimed URL %s", u)
			continue
		}

		var short string
		if p.shortener != nil {
			short, _ = p.shortener.Shorten(ctx, u)
		}

		title, ok := p.titles.FindTitle(ctx, u)
		if !ok {
			continue
		}
		results = append(results, Result{Title: title, Hostname: Hostname(u), Short: short})
	}
	return results
}

// AutoTitle answers an ordinary channel message that may contain URLs.
func (p *Pipeline) AutoTitle(ctx context.Context, trigger Trigger, out Replier) {
	urls := p.Observe(trigger)
	if len(urls) == 0 {
		return
	}
	p.SayTitles(ctx, trigger, urls, out)
}

// Observe extracts the URLs of an ordinary message and records the last of
// them for the channel. Title command messages yield nothing.
func (p *Pipeline) Observe(trigger Trigger) []string {
	if strings.HasPrefix(trigger.Text, p.titleCommand) {
		return nil
	}
	urls := p.extractor.Extract(trigger.Text)
	p.remember(trigger.Channel, urls)
	return urls
}

// SayTitles resolves urls and says up to MaxResults title lines.
func (p *Pipeline) SayTitles(ctx context.Context, trigger Trigger, urls []string, out Replier) {
	results := p.ProcessURLs(ctx, urls)
	for i, result := range results {
		if i >= MaxResults {
			break
		}
		message := result.String()
		// Another instance of this bot may be echoing our own line back
		if message == trigger.Text {
			continue
		}
		out.Say(message)
	}
}

// TitleCommand handles an explicit title request. Without arg it replays
// the channel's last seen URL, letting callbacks answer first.
func (p *Pipeline) TitleCommand(ctx context.Context, trigger Trigger, arg string, out Replier) {
	var urls []string
	if strings.TrimSpace(arg) == "" {
		last, ok := p.lastSeen.Get(trigger.Channel)
		if !ok {
			return
		}
		if p.registry.Dispatch(ctx, out, trigger, last) {
			return
		}
		urls = []string{last}
	} else {
		extracted := p.extractor.Extract(arg)
		p.remember(trigger.Channel, extracted)
		for _, raw := range extracted {
			if p.registry.Dispatch(ctx, out, trigger, p.normalize(raw)) {
				continue
			}
			urls = append(urls, raw)
		}
	}

	results := p.ProcessURLs(ctx, urls)
	for i, result := range results {
		if i >= MaxResults {
			break
		}
		out.Reply(result.String())
	}

	switch {
	case len(urls) == 1 && len(results) == 0:
		out.Reply(FetchFailedNotice)
	case len(urls) > 1 && len(results) < len(urls):
		out.Reply(PartialFailureNotice)
	}
}

func (p *Pipeline) normalize(raw string) string {
	u, err := IRIToURI(raw)
	if err != nil {
		logger.Debugf("Keeping %s as is: %v", raw, err)
		return raw
	}
	return u
}

// remember stores the last URL of the unfiltered batch, even when it produced
// no title.
func (p *Pipeline) remember(channel string, urls []string) {
	if channel == "" || len(urls) == 0 {
		return
	}
	p.lastSeen.Set(channel, urls[len(urls)-1])
}
