package commands

import (
	"context"
	"errors"

	"titlebot/internal/logger"
	"titlebot/internal/lookup"
	"titlebot/internal/urltitle"
)

// TitleCommander answers explicit title requests.
type TitleCommander interface {
	TitleCommand(ctx context.Context, trigger urltitle.Trigger, arg string, out urltitle.Replier)
}

type RateFinder interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

type AirportFinder interface {
	Lookup(ctx context.Context, code string) (*lookup.Airport, error)
}

func titleCmd(titles TitleCommander) CommandFunc {
	return func(ctx context.Context, req *Request) {
		titles.TitleCommand(ctx, req.Trigger, req.Args, req.Out)
	}
}

func exchangeCmd(rates RateFinder) CommandFunc {
	return func(ctx context.Context, req *Request) {
		if req.Args == "" {
			req.Out.Reply("No search term. An example: .cur 20 EUR in USD")
			return
		}

		query, err := lookup.ParseExchange(req.Args)
		if err != nil {
			req.Out.Reply("Sorry, I didn't understand the input.")
			return
		}
		if query.Amount == 0 {
			req.Out.Reply("Zero is zero, no matter what country you're in.")
			return
		}

		rate, err := rates.Rate(ctx, query.From, query.To)
		if err != nil {
			var unknown *lookup.UnknownCurrencyError
			if !errors.As(err, &unknown) && !errors.Is(err, lookup.ErrBitcoin) {
				logger.Warnf("Exchange rate %s->%s failed: %v", query.From, query.To, err)
			}
			req.Out.Reply("Unable to retrieve exchange rate: " + err.Error())
			return
		}

		req.Out.Say(query.Format(rate))
	}
}

func airportCmd(airports AirportFinder) CommandFunc {
	return func(ctx context.Context, req *Request) {
		fields := req.Fields()
		if len(fields) == 0 {
			req.Out.Reply("Give me an airport code, like .air SEA")
			return
		}

		airport, err := airports.Lookup(ctx, fields[0])
		switch {
		case errors.Is(err, lookup.ErrBadAirportCode):
			req.Out.Reply("Give me an IATA or ICAO code, like .air SEA")
			return
		case err != nil:
			var apiErr *lookup.APIError
			if !errors.As(err, &apiErr) {
				logger.Errorf("Airport lookup for %s failed: %v", fields[0], err)
			}
			req.Out.Say("Unable to retrieve airport data: " + err.Error())
			return
		}

		req.Out.Say(airport.String())
	}
}
