package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titlebot/internal/lookup"
	"titlebot/internal/urltitle"
)

type recorder struct {
	said    []string
	replied []string
}

func (r *recorder) Say(text string)   { r.said = append(r.said, text) }
func (r *recorder) Reply(text string) { r.replied = append(r.replied, text) }

type fakeTitles struct {
	args []string
}

func (f *fakeTitles) TitleCommand(ctx context.Context, trigger urltitle.Trigger, arg string, out urltitle.Replier) {
	f.args = append(f.args, arg)
	out.Reply("[ Example ] - example.com")
}

type fakeRates struct {
	rate float64
	err  error
}

func (f fakeRates) Rate(ctx context.Context, from, to string) (float64, error) {
	return f.rate, f.err
}

type fakeAirports struct{}

func (fakeAirports) Lookup(ctx context.Context, code string) (*lookup.Airport, error) {
	if _, err := lookup.CodeSource(code); err != nil {
		return nil, err
	}
	if code == "XXX" {
		return nil, &lookup.APIError{StatusCode: 404, Message: "Airport not found"}
	}
	return &lookup.Airport{Name: "Seattle-Tacoma", Location: "Seattle", ICAO: "KSEA", IATA: "SEA", Link: "http://a/SEA"}, nil
}

type fakePlugins []PluginInfo

func (f fakePlugins) Loaded() []PluginInfo { return f }

func run(t *testing.T, router *Router, text string) (*recorder, bool) {
	t.Helper()
	out := &recorder{}
	handled := router.Handle(context.Background(), urltitle.Trigger{Nick: "alice", Channel: "#go", Text: text}, out)
	return out, handled
}

func TestParse(t *testing.T) {
	router := NewRouter(".")

	name, args, ok := router.Parse(".TITLE   http://example.com  ")
	require.True(t, ok)
	assert.Equal(t, "title", name)
	assert.Equal(t, "http://example.com", args)

	name, args, ok = router.Parse(".help")
	require.True(t, ok)
	assert.Equal(t, "help", name)
	assert.Empty(t, args)

	for _, text := range []string{"title", ".", ". title", "!title"} {
		_, _, ok = router.Parse(text)
		assert.False(t, ok, text)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	router := NewRouter(".")
	noop := func(ctx context.Context, req *Request) {}

	require.NoError(t, router.Register(Command{Name: "cur", Aliases: []string{"currency"}, Handler: noop}))
	err := router.Register(Command{Name: "money", Aliases: []string{"Currency"}, Owner: "fx", Handler: noop})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builtin")

	_, exists := router.Lookup("money")
	assert.False(t, exists)

	assert.Error(t, router.Register(Command{Name: "empty"}))
}

func TestUnregisterByOwner(t *testing.T) {
	router := NewRouter(".")
	noop := func(ctx context.Context, req *Request) {}

	require.NoError(t, router.Register(Command{Name: "img", Aliases: []string{"image"}, Owner: "imageinfo", Handler: noop}))
	require.NoError(t, router.Register(Command{Name: "help", Handler: noop}))

	assert.Equal(t, 1, router.Unregister("imageinfo"))
	_, exists := router.Lookup("image")
	assert.False(t, exists)
	assert.Len(t, router.Commands(), 1)
}

func TestUnknownCommandFallsThrough(t *testing.T) {
	router := NewRouter(".")
	require.NoError(t, RegisterBuiltins(router, Deps{}))

	_, handled := run(t, router, ".nope http://example.com")
	assert.False(t, handled)

	_, handled = run(t, router, "http://example.com")
	assert.False(t, handled)
}

func TestTitleCommand(t *testing.T) {
	titles := &fakeTitles{}
	router := NewRouter(".")
	require.NoError(t, RegisterBuiltins(router, Deps{Titles: titles}))

	out, handled := run(t, router, ".title  http://example.com ")
	require.True(t, handled)
	assert.Equal(t, []string{"http://example.com"}, titles.args)
	assert.Equal(t, []string{"[ Example ] - example.com"}, out.replied)

	_, handled = run(t, router, ".title")
	require.True(t, handled)
	assert.Equal(t, "", titles.args[1])
}

func TestExchangeCommand(t *testing.T) {
	router := NewRouter(".")
	require.NoError(t, RegisterBuiltins(router, Deps{Rates: fakeRates{rate: 1.08}}))

	out, handled := run(t, router, ".cur 20 EUR in USD")
	require.True(t, handled)
	assert.Equal(t, []string{"20.00 EUR = 21.60 USD"}, out.said)

	out, _ = run(t, router, ".exchange")
	assert.Equal(t, []string{"No search term. An example: .cur 20 EUR in USD"}, out.replied)

	out, _ = run(t, router, ".currency lots of money")
	assert.Equal(t, []string{"Sorry, I didn't understand the input."}, out.replied)

	out, _ = run(t, router, ".cur 0 EUR in USD")
	assert.Equal(t, []string{"Zero is zero, no matter what country you're in."}, out.replied)
	assert.Empty(t, out.said)
}

func TestExchangeCommandErrors(t *testing.T) {
	router := NewRouter(".")
	require.NoError(t, RegisterBuiltins(router, Deps{Rates: fakeRates{err: &lookup.UnknownCurrencyError{Code: "XYZ"}}}))

	out, _ := run(t, router, ".cur 1 XYZ to USD")
	assert.Equal(t, []string{`Unable to retrieve exchange rate: unknown currency code "XYZ"`}, out.replied)

	router = NewRouter(".")
	require.NoError(t, RegisterBuiltins(router, Deps{Rates: fakeRates{err: errors.New("HTTP 500")}}))
	out, _ = run(t, router, ".cur 1 EUR to USD")
	assert.Equal(t, []string{"Unable to retrieve exchange rate: HTTP 500"}, out.replied)
}

func TestAirportCommand(t *testing.T) {
	router := NewRouter(".")
	require.NoError(t, RegisterBuiltins(router, Deps{Airports: fakeAirports{}}))

	out, _ := run(t, router, ".air SEA")
	assert.Equal(t, []string{"Seattle-Tacoma, Seattle (ICAO: KSEA, IATA: SEA) - http://a/SEA"}, out.said)

	out, _ = run(t, router, ".airport")
	assert.Equal(t, []string{"Give me an airport code, like .air SEA"}, out.replied)

	out, _ = run(t, router, ".air 12")
	assert.Equal(t, []string{"Give me an IATA or ICAO code, like .air SEA"}, out.replied)

	out, _ = run(t, router, ".air XXX")
	assert.Equal(t, []string{"Unable to retrieve airport data: API returned HTTP 404 Airport not found"}, out.said)
}

func TestHelpCommand(t *testing.T) {
	router := NewRouter("!")
	require.NoError(t, RegisterBuiltins(router, Deps{
		Titles:   &fakeTitles{},
		Rates:    fakeRates{},
		Airports: fakeAirports{},
		Plugins:  fakePlugins{{Name: "imageinfo", Version: "1.0.0"}},
	}))

	out, _ := run(t, router, "!help")
	require.Len(t, out.said, 2)
	assert.Equal(t, "Available commands:", out.said[0])
	assert.Contains(t, out.said[1], "!air - Look up an airport")
	assert.Contains(t, out.said[1], " | !title - ")

	noop := func(ctx context.Context, req *Request) {}
	require.NoError(t, router.Register(Command{Name: "zzz", Description: "last", Owner: "demo", Handler: noop}))
	out, _ = run(t, router, "!help")
	require.Len(t, out.said, 3)
	assert.Equal(t, "!zzz - last", out.said[2])

	out, _ = run(t, router, "!help !currency")
	require.Len(t, out.replied, 1)
	assert.Contains(t, out.replied[0], "!cur - Show the exchange rate")
	assert.Contains(t, out.replied[0], "aliases: currency, exchange")

	out, _ = run(t, router, "!help bogus")
	assert.Equal(t, []string{"No such command: bogus"}, out.replied)

	out, _ = run(t, router, "!plugins")
	assert.Equal(t, []string{"Loaded plugins: imageinfo (v1.0.0)"}, out.replied)
}
