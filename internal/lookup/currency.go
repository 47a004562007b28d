// Package lookup implements the small reference lookups exposed as chat
// commands: currency conversion and airport codes.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"titlebot/internal/webclient"
)

var exchangePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]{3})\s+(?:in|as|of|to)\s+([a-zA-Z]{3})`)

// ErrBitcoin is returned for conversions involving BTC.
var ErrBitcoin = errors.New("Bitcoin conversion is not supported at the moment")

// ErrBadExchangeQuery means the input did not look like "20 EUR in USD".
var ErrBadExchangeQuery = errors.New("sorry, I didn't understand the input")

type UnknownCurrencyError struct {
	Code string
}

func (e *UnknownCurrencyError) Error() string {
	return fmt.Sprintf("unknown currency code %q", e.Code)
}

// ExchangeQuery is a parsed ".cur 20 EUR in USD".
type ExchangeQuery struct {
	Amount float64
	From   string
	To     string
}

// ParseExchange parses "<amount> <CODE> (in|as|of|to) <CODE>". Codes are upper-cased.
func ParseExchange(input string) (ExchangeQuery, error) {
	m := exchangePattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return ExchangeQuery{}, ErrBadExchangeQuery
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ExchangeQuery{}, ErrBadExchangeQuery
	}
	return ExchangeQuery{
		Amount: amount,
		From:   strings.ToUpper(m[2]),
		To:     strings.ToUpper(m[3]),
	}, nil
}

// Format renders the converted amount, e.g. "20.00 EUR = 21.60 USD".
func (q ExchangeQuery) Format(rate float64) string {
	return fmt.Sprintf("%.2f %s = %.2f %s", q.Amount, q.From, q.Amount*rate, q.To)
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// CurrencyClient talks to a fixer-compatible rates endpoint.
type CurrencyClient struct {
	endpoint string
	client   *http.Client
}

func NewCurrencyClient(endpoint string, client *http.Client) *CurrencyClient {
	if client == nil {
		client = webclient.New(webclient.DefaultTimeout, true)
	}
	return &CurrencyClient{endpoint: endpoint, client: client}
}

// Rate returns how many units of to one unit of from buys.
func (c *CurrencyClient) Rate(ctx context.Context, from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	if from == "BTC" || to == "BTC" {
		return 0, ErrBitcoin
	}

	params := url.Values{}
	params.Set("from", from)
	params.Set("to", to)

	req, err := webclient.NewRequest(ctx, http.MethodGet, c.endpoint+"?"+params.Encode())
	if err != nil {
		return 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnprocessableEntity:
		return 0, &UnknownCurrencyError{Code: from}
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var data ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode exchange rates: %w", err)
	}

	rate, ok := data.Rates[to]
	if !ok {
		return 0, &UnknownCurrencyError{Code: to}
	}
	return rate, nil
}
