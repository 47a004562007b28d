package urltitle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	said    []string
	replied []string
}

func (r *recorder) Say(text string)   { r.said = append(r.said, text) }
func (r *recorder) Reply(text string) { r.replied = append(r.replied, text) }

type fakeTitles struct {
	titles  map[string]string
	fetched []string
}

func (f *fakeTitles) FindTitle(ctx context.Context, url string) (string, bool) {
	f.fetched = append(f.fetched, url)
	title, ok := f.titles[url]
	return title, ok
}

type fakeShortener map[string]string

func (f fakeShortener) Shorten(ctx context.Context, url string) (string, bool) {
	short, ok := f[url]
	return short, ok
}

func newTestPipeline(titles *fakeTitles, registry *Registry) *Pipeline {
	return NewPipeline(Options{
		ExclusionChar: "!",
		CommandPrefix: ".",
		Registry:      registry,
		Titles:        titles,
	})
}

func TestAutoTitleEndToEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><head><title>  Example   Page  </title></head></html>")
	}))
	defer srv.Close()

	p := NewPipeline(Options{
		ExclusionChar: "!",
		CommandPrefix: ".",
		Titles:        NewTitleResolver(nil),
	})

	url := srv.URL + "/page"
	out := &recorder{}
	p.AutoTitle(context.Background(), Trigger{Nick: "alice", Channel: "#go", Text: "check this out " + url}, out)

	require.Len(t, out.said, 1)
	assert.Equal(t, fmt.Sprintf("[ Example Page ] - %s", Hostname(url)), out.said[0])
	assert.Empty(t, out.replied)

	last, ok := p.LastSeen("#GO")
	require.True(t, ok)
	assert.Equal(t, url, last)
}

func TestAutoTitleFormatsResult(t *testing.T) {
	titles := &fakeTitles{titles: map[string]string{"http://example.com/page": "Example Page"}}
	p := newTestPipeline(titles, nil)

	out := &recorder{}
	p.AutoTitle(context.Background(), Trigger{Channel: "#go", Text: "check this out http://example.com/page"}, out)
	assert.Equal(t, []string{"[ Example Page ] - example.com"}, out.said)
}

func TestAutoTitleLimitsToFourLines(t *testing.T) {
	titles := &fakeTitles{titles: map[string]string{}}
	var words []string
	for i := 0; i < 6; i++ {
		u := fmt.Sprintf("http://site%d.example/", i)
		titles.titles[u] = fmt.Sprintf("Site %d", i)
		words = append(words, u)
	}
	p := newTestPipeline(titles, nil)

	out := &recorder{}
	p.AutoTitle(context.Background(), Trigger{Channel: "#go", Text: strings.Join(words, " ")}, out)

	assert.Len(t, out.said, 4)
	assert.Equal(t, "[ Site 0 ] - site0.example", out.said[0])
	assert.Equal(t, "[ Site 3 ] - site3.example", out.said[3])
}

func TestAutoTitleIgnoresTitleCommand(t *testing.T) {
	titles := &fakeTitles{titles: map[string]string{"http://example.com": "Example"}}
	p := newTestPipeline(titles, nil)

	out := &recorder{}
	p.AutoTitle(context.Background(), Trigger{Channel: "#go", Text: ".title http://example.com"}, out)
	assert.Empty(t, out.said)
	assert.Empty(t, titles.fetched)
}

func TestAutoTitleDoesNotEchoItself(t *testing.T) {
	titles := &fakeTitles{titles: map[string]string{"http://example.com/": "http://example.com/"}}
	p := newTestPipeline(titles, nil)

	out := &recorder{}
	p.AutoTitle(context.Background(), Trigger{Channel: "#go", Text: "[ http://example.com/ ] - example.com"}, out)
	assert.Equal(t, []string{"http://example.com/"}, titles.fetched)
	assert.Empty(t, out.said)
}

func TestClaimedAndExcludedURLsAreNeverFetched(t *testing.T) {
	calls := 0
	registry := NewRegistry([]*regexp.Regexp{regexp.MustCompile(`private\.example`)})
	registry.Register("images", &PatternCallback{
		Pattern: regexp.MustCompile(`\.png$`),
		Fn: func(ctx context.Context, out Replier, trigger Trigger, url string, match []string) {
			calls++
		},
	})

	titles := &fakeTitles{titles: map[string]string{"http://public.example/": "Public"}}
	p := newTestPipeline(titles, registry)

	out := &recorder{}
	p.AutoTitle(context.Background(), Trigger{
		Channel: "#go",
		Text:    "http://private.example/a http://img.example/cat.png !http://hidden.example/ http://public.example/",
	}, out)

	assert.Equal(t, []string{"http://public.example/"}, titles.fetched)
	assert.Equal(t, []string{"[ Public ] - public.example"}, out.said)
	assert.Zero(t, calls, "auto titles must not run callbacks")
}

func TestLastSeenRecordedFromUnfilteredBatch(t *testing.T) {
	registry := NewRegistry([]*regexp.Regexp{regexp.MustCompile(`private`)})
	p := newTestPipeline(&fakeTitles{titles: map[string]string{}}, registry)

	p.AutoTitle(context.Background(), Trigger{Channel: "#go", Text: "http://a.example http://private.example"}, &recorder{})

	last, ok := p.LastSeen("#go")
	require.True(t, ok)
	assert.Equal(t, "http://private.example", last)
}

func TestProcessURLsNormalizesIDN(t *testing.T) {
	titles := &fakeTitles{titles: map[string]string{"http://xn--bcher-kva.example/": "Bücher"}}
	p := newTestPipeline(titles, nil)

	results := p.ProcessURLs(context.Background(), []string{"http://bücher.example/"})
	require.Len(t, results, 1)
	assert.Equal(t, Result{Title: "Bücher", Hostname: "xn--bcher-kva.example"}, results[0])
}

func TestProcessURLsAddsShortForm(t *testing.T) {
	long := "http://example.com/" + strings.Repeat("a", 40)
	titles := &fakeTitles{titles: map[string]string{long: "Long"}}
	p := NewPipeline(Options{
		ExclusionChar: "!",
		CommandPrefix: ".",
		Titles:        titles,
		Shortener:     fakeShortener{long: "https://tiny/x"},
	})

	results := p.ProcessURLs(context.Background(), []string{long})
	require.Len(t, results, 1)
	assert.Equal(t, "[ Long ] - example.com ( https://tiny/x )", results[0].String())
}

func TestTitleCommandSingleFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"title":"nope"}`)
	}))
	defer srv.Close()

	p := NewPipeline(Options{ExclusionChar: "!", CommandPrefix: ".", Titles: NewTitleResolver(nil)})

	out := &recorder{}
	p.TitleCommand(context.Background(), Trigger{Nick: "bob", Channel: "#go"}, srv.URL+"/api", out)
	assert.Equal(t, []string{FetchFailedNotice}, out.replied)
	assert.Empty(t, out.said)
}

func TestTitleCommandPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{}`)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<title>Works</title>")
	}))
	defer srv.Close()

	p := NewPipeline(Options{ExclusionChar: "!", CommandPrefix: ".", Titles: NewTitleResolver(nil)})

	out := &recorder{}
	p.TitleCommand(context.Background(), Trigger{Nick: "bob", Channel: "#go"}, srv.URL+"/page "+srv.URL+"/json", out)
	require.Len(t, out.replied, 2)
	assert.Equal(t, "[ Works ] - "+Hostname(srv.URL), out.replied[0])
	assert.Equal(t, PartialFailureNotice, out.replied[1])
}

func TestTitleCommandReplaysLastSeen(t *testing.T) {
	titles := &fakeTitles{titles: map[string]string{"http://example.com/": "Example"}}
	p := newTestPipeline(titles, nil)

	out := &recorder{}
	p.TitleCommand(context.Background(), Trigger{Channel: "#go"}, "", out)
	assert.Empty(t, out.replied, "nothing seen yet")

	p.AutoTitle(context.Background(), Trigger{Channel: "#go", Text: "http://example.com/"}, &recorder{})
	p.TitleCommand(context.Background(), Trigger{Channel: "#go"}, "  ", out)
	assert.Equal(t, []string{"[ Example ] - example.com"}, out.replied)
}

func TestTitleCommandDispatchesCallbacksForLastSeen(t *testing.T) {
	var handled []string
	registry := NewRegistry(nil)
	registry.Register("images", &PatternCallback{
		Pattern: regexp.MustCompile(`\.png$`),
		Fn: func(ctx context.Context, out Replier, trigger Trigger, url string, match []string) {
			handled = append(handled, url)
			out.Reply("an image")
		},
	})

	titles := &fakeTitles{titles: map[string]string{}}
	p := newTestPipeline(titles, registry)
	p.AutoTitle(context.Background(), Trigger{Channel: "#go", Text: "look http://img.example/cat.png"}, &recorder{})
	require.Empty(t, handled)

	out := &recorder{}
	p.TitleCommand(context.Background(), Trigger{Channel: "#go"}, "", out)
	assert.Equal(t, []string{"http://img.example/cat.png"}, handled)
	assert.Equal(t, []string{"an image"}, out.replied)
	assert.Empty(t, titles.fetched)
}

func TestTitleCommandWithoutURLsSaysNothing(t *testing.T) {
	p := newTestPipeline(&fakeTitles{}, nil)

	out := &recorder{}
	p.TitleCommand(context.Background(), Trigger{Channel: "#go"}, "no links here", out)
	assert.Empty(t, out.replied)
}

func TestTitleCommandDispatchesCallbacksForArguments(t *testing.T) {
	var handled []string
	registry := NewRegistry(nil)
	registry.Register("images", &PatternCallback{
		Pattern: regexp.MustCompile(`\.png$`),
		Fn: func(ctx context.Context, out Replier, trigger Trigger, url string, match []string) {
			handled = append(handled, url)
			out.Reply("an image")
		},
	})

	titles := &fakeTitles{titles: map[string]string{"http://example.com/": "Example"}}
	p := newTestPipeline(titles, registry)

	out := &recorder{}
	p.TitleCommand(context.Background(), Trigger{Channel: "#go"}, "http://img.example/cat.png", out)
	assert.Equal(t, []string{"http://img.example/cat.png"}, handled)
	assert.Equal(t, []string{"an image"}, out.replied, "a handled URL is not a failed fetch")
	assert.Empty(t, titles.fetched)

	handled, out = nil, &recorder{}
	p.TitleCommand(context.Background(), Trigger{Channel: "#go"}, "http://img.example/dog.png http://example.com/", out)
	assert.Equal(t, []string{"http://img.example/dog.png"}, handled)
	assert.Equal(t, []string{"an image", "[ Example ] - example.com"}, out.replied)
	assert.Equal(t, []string{"http://example.com/"}, titles.fetched)
}

func TestObserveRecordsWithoutFetching(t *testing.T) {
	titles := &fakeTitles{titles: map[string]string{}}
	p := newTestPipeline(titles, nil)

	urls := p.Observe(Trigger{Channel: "#go", Text: "http://a.example/ and http://b.example/"})
	assert.Equal(t, []string{"http://a.example/", "http://b.example/"}, urls)
	last, ok := p.LastSeen("#go")
	require.True(t, ok)
	assert.Equal(t, "http://b.example/", last)
	assert.Empty(t, titles.fetched)

	assert.Empty(t, p.Observe(Trigger{Channel: "#go", Text: ".title http://c.example/"}))
	last, _ = p.LastSeen("#go")
	assert.Equal(t, "http://b.example/", last)
}
