package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"titlebot/internal/webclient"
)

var (
	iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	icaoPattern = regexp.MustCompile(`^[A-Z]{4}$`)
)

// ErrBadAirportCode means the code is neither IATA nor ICAO shaped.
var ErrBadAirportCode = errors.New("not an IATA or ICAO code")

// APIError is a failure reported by the airport service, either as an HTTP
// status or inside the JSON body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("API returned HTTP %d %s", e.StatusCode, e.Message))
}

type Airport struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	ICAO     string `json:"icao"`
	IATA     string `json:"iata"`
	Link     string `json:"link"`
}

func (a Airport) String() string {
	return fmt.Sprintf("%s, %s (ICAO: %s, IATA: %s) - %s", a.Name, a.Location, a.ICAO, a.IATA, a.Link)
}

type airportResponse struct {
	Airport
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// CodeSource returns the query parameter name for code: "iata" for three
// letters, "icao" for four.
func CodeSource(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch {
	case iataPattern.MatchString(code):
		return "iata", nil
	case icaoPattern.MatchString(code):
		return "icao", nil
	}
	return "", ErrBadAirportCode
}

type AirportClient struct {
	endpoint string
	client   *http.Client
}

func NewAirportClient(endpoint string, client *http.Client) *AirportClient {
	if client == nil {
		client = webclient.New(webclient.DefaultTimeout, true)
	}
	return &AirportClient{endpoint: endpoint, client: client}
}

// Lookup fetches the airport identified by an IATA or ICAO code.
func (c *AirportClient) Lookup(ctx context.Context, code string) (*Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	source, err := CodeSource(code)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set(source, code)

	req, err := webclient.NewRequest(ctx, http.MethodGet, c.endpoint+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch airport data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	var data airportResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode airport data: %w", err)
	}
	if data.Status != http.StatusOK {
		return nil, &APIError{StatusCode: data.Status, Message: data.Error}
	}
	return &data.Airport, nil
}
