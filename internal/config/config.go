package config

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

const (
	DefaultCommandPrefix     = "."
	DefaultExclusionChar     = "!"
	DefaultShortenerEndpoint = "https://tinyurl.com/api-create.php"
	DefaultCurrencyEndpoint  = "https://api.frankfurter.app/latest"
	DefaultAirportEndpoint   = "https://www.airport-data.com/api/ap_info.json"
	DefaultTitlesPerMinute   = 6
	DefaultFloodBurst        = 4
)

// URLConfig controls the URL title pipeline.
type URLConfig struct {
	Exclude           []string `toml:"exclude"`
	ExclusionChar     string   `toml:"exclusion_char"`
	ShortenURLLength  int      `toml:"shorten_url_length"`
	ShortenerEndpoint string   `toml:"shortener_endpoint"`
}

// FloodConfig limits how often a single hostmask can trigger automatic titles.
// TitlesPerMinute of 0 disables the limit.
type FloodConfig struct {
	TitlesPerMinute int `toml:"titles_per_minute"`
	Burst           int `toml:"burst"`
}

type EndpointConfig struct {
	Endpoint string `toml:"endpoint"`
}

type Config struct {
	Server        string   `toml:"server"`
	Nick          string   `toml:"nick"`
	User          string   `toml:"user"`
	RealName      string   `toml:"real_name"`
	Password      string   `toml:"password"`
	Channels      []string `toml:"channels"`
	CommandPrefix string   `toml:"command_prefix"`
	VerifySSL     *bool    `toml:"verify_ssl"`

	URL      URLConfig      `toml:"url"`
	Flood    FloodConfig    `toml:"flood"`
	Currency EndpointConfig `toml:"currency"`
	Airport  EndpointConfig `toml:"airport"`
}

// VerifyTLS reports whether certificates should be verified; defaults to true.
func (c *Config) VerifyTLS() bool {
	return c.VerifySSL == nil || *c.VerifySSL
}

// ApplyDefaults fills unset optional fields.
func ApplyDefaults(cfg *Config) {
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = DefaultCommandPrefix
	}
	if cfg.URL.ExclusionChar == "" {
		cfg.URL.ExclusionChar = DefaultExclusionChar
	}
	if cfg.URL.ShortenerEndpoint == "" {
		cfg.URL.ShortenerEndpoint = DefaultShortenerEndpoint
	}
	if cfg.Currency.Endpoint == "" {
		cfg.Currency.Endpoint = DefaultCurrencyEndpoint
	}
	if cfg.Airport.Endpoint == "" {
		cfg.Airport.Endpoint = DefaultAirportEndpoint
	}
	if cfg.Flood.Burst <= 0 {
		cfg.Flood.Burst = DefaultFloodBurst
	}
}

// ValidateConfig checks if all required configuration fields are properly set
func ValidateConfig(cfg *Config) error {
	var missingFields []string

	if cfg.Server == "" {
		missingFields = append(missingFields, "server")
	}
	if cfg.Nick == "" {
		missingFields = append(missingFields, "nick")
	}
	if cfg.User == "" {
		missingFields = append(missingFields, "user")
	}
	if cfg.RealName == "" {
		missingFields = append(missingFields, "real_name")
	}

	if cfg.Server != "" && !strings.Contains(cfg.Server, ":") {
		return fmt.Errorf("server address does not contain a port (format should be host:port)")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missingFields, ", "))
	}

	if utf8.RuneCountInString(cfg.URL.ExclusionChar) != 1 {
		return fmt.Errorf("url.exclusion_char must be a single character, got %q", cfg.URL.ExclusionChar)
	}
	if cfg.URL.ShortenURLLength < 0 {
		return fmt.Errorf("url.shorten_url_length must not be negative")
	}
	if cfg.Flood.TitlesPerMinute < 0 {
		return fmt.Errorf("flood.titles_per_minute must not be negative")
	}

	for _, pattern := range cfg.URL.Exclude {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid url.exclude pattern %q: %w", pattern, err)
		}
	}

	return nil
}

// Decode parses a TOML document, applies defaults and validates the result.
func Decode(data string) (*Config, error) {
	cfg := Config{Flood: FloodConfig{TitlesPerMinute: DefaultTitlesPerMinute}}
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return finish(&cfg)
}

func LoadConfig(path string) (*Config, error) {
	cfg := Config{Flood: FloodConfig{TitlesPerMinute: DefaultTitlesPerMinute}}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	ApplyDefaults(cfg)
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CompileExclusions compiles the url.exclude patterns in configuration order.
func CompileExclusions(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid url.exclude pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
