package urltitle

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"titlebot/internal/logger"
	"titlebot/internal/webclient"
)

const (
	// TitleTimeout bounds the whole title fetch, body included.
	TitleTimeout = 5 * time.Second

	sniffBytes    = 1000
	maxParseBytes = 1000000
	maxTitleRunes = 200
)

var (
	maybeHTMLTag = regexp.MustCompile(`<[A-Za-z]+`)
	dccSend      = regexp.MustCompile(`(?i)dcc\ssend`)
)

// TitleFinder resolves the title of a single URL.
type TitleFinder interface {
	FindTitle(ctx context.Context, url string) (string, bool)
}

// TitleResolver fetches pages over HTTP and extracts their <title>.
type TitleResolver struct {
	client *http.Client
}

// NewTitleResolver fetches with client, or with a verifying client and the
// standard 5 second timeout when client is nil.
func NewTitleResolver(client *http.Client) *TitleResolver {
	if client == nil {
		client = webclient.New(TitleTimeout, true)
	}
	return &TitleResolver{client: client}
}

// FindTitle returns the normalized page title for url. Every failure, from
// network errors to unparseable markup, yields ("", false).
func (r *TitleResolver) FindTitle(ctx context.Context, url string) (title string, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warnf("Recovered while reading title of %s: %v", url, rec)
			title, ok = "", false
		}
	}()

	req, err := webclient.NewRequest(ctx, http.MethodGet, url)
	if err != nil {
		logger.Debugf("Skipping title for %s: %v", url, err)
		return "", false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		logger.Debugf("Failed to fetch %s: %v", url, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debugf("Fetching %s returned status %s", url, resp.Status)
		return "", false
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "text/html") {
		logger.Debugf("Not fetching title of %s: content type %q", url, contentType)
		return "", false
	}

	// No tag in the first kilobyte means it is probably not HTML after all
	body := bufio.NewReader(resp.Body)
	sniff, err := body.Peek(sniffBytes)
	if err != nil && err != io.EOF {
		logger.Debugf("Failed to read body of %s: %v", url, err)
		return "", false
	}
	if !maybeHTMLTag.Match(sniff) {
		logger.Debugf("Body of %s does not look like HTML", url)
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(body, maxParseBytes))
	if err != nil {
		logger.Debugf("Failed to parse HTML from %s: %v", url, err)
		return "", false
	}

	sel := doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}

	title = NormalizeTitle(sel.Text())
	if title == "" {
		return "", false
	}
	return title, true
}

// NormalizeTitle trims raw, cuts it to 200 characters, collapses whitespace
// runs and removes "dcc send".
func NormalizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	if runes := []rune(title); len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes])
	}
	title = strings.Join(strings.Fields(title), " ")
	return dccSend.ReplaceAllString(title, "")
}
