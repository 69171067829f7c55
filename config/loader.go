package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/scloud/http"
	"github.com/wesleyorama2/scloud/soundcloud"
)

// Environment variables read by ApplyEnv.
const (
	EnvClientID     = "SCLOUD_CLIENT_ID"
	EnvClientSecret = "SCLOUD_CLIENT_SECRET"
	EnvCallbackURI  = "SCLOUD_CALLBACK_URI"
	EnvAccessToken  = "SCLOUD_ACCESS_TOKEN"
	EnvScope        = "SCLOUD_SCOPE"
	EnvScheme       = "SCLOUD_SCHEME"
	EnvHost         = "SCLOUD_HOST"
)

// Config represents the client configuration file.
type Config struct {
	// ClientID identifies the registered application
	ClientID string `json:"clientId" yaml:"clientId" toml:"client_id" validate:"required"`

	// ClientSecret is sent together with an access token
	ClientSecret string `json:"clientSecret,omitempty" yaml:"clientSecret,omitempty" toml:"client_secret"`

	// CallbackURI is the redirect URI registered for the application
	CallbackURI string `json:"callbackUri,omitempty" yaml:"callbackUri,omitempty" toml:"callback_uri" validate:"omitempty,url"`

	// AccessToken is an OAuth token obtained outside this tool
	AccessToken string `json:"accessToken,omitempty" yaml:"accessToken,omitempty" toml:"access_token"`

	// Scope is the scope granted with AccessToken
	Scope string `json:"scope,omitempty" yaml:"scope,omitempty" toml:"scope"`

	// Format selects json or xml responses
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format" validate:"omitempty,oneof=json xml"`

	// Timeout bounds each request, e.g. "30s"
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout" validate:"omitempty,duration"`

	// Endpoint overrides the API host
	Endpoint Endpoint `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint"`

	// Options are passed to the transport unchanged
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty" toml:"options"`

	// Headers are added to every request
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" toml:"headers"`
}

// Endpoint describes where the API lives.
type Endpoint struct {
	Scheme string `json:"scheme,omitempty" yaml:"scheme,omitempty" toml:"scheme" validate:"omitempty,oneof=http https"`
	Host   string `json:"host,omitempty" yaml:"host,omitempty" toml:"host" validate:"omitempty,hostname_rfc1123|ip"`
	Port   int    `json:"port,omitempty" yaml:"port,omitempty" toml:"port" validate:"gte=0,lte=65535"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format:  soundcloud.FormatJSON,
		Timeout: "30s",
		Endpoint: Endpoint{
			Scheme: http.DefaultScheme,
			Host:   http.DefaultHost,
		},
	}
}

// LoadConfig loads a configuration file over the defaults.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
//   - .toml -> TOML
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data over the defaults. Unknown
// extensions are read as YAML.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := Default()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	return cfg, nil
}

// LoadEnv loads KEY=value files into the process environment. Files that do
// not exist are skipped; existing variables are not overwritten.
func LoadEnv(files ...string) error {
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("error loading env file %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overlays non-empty SCLOUD_* environment variables on cfg.
func ApplyEnv(cfg *Config) {
	overlay := map[string]*string{
		EnvClientID:     &cfg.ClientID,
		EnvClientSecret: &cfg.ClientSecret,
		EnvCallbackURI:  &cfg.CallbackURI,
		EnvAccessToken:  &cfg.AccessToken,
		EnvScope:        &cfg.Scope,
		EnvScheme:       &cfg.Endpoint.Scheme,
		EnvHost:         &cfg.Endpoint.Host,
	}
	for name, field := range overlay {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

// TransportOptions converts the configuration into transport options. Timeout
// and Headers map onto the timeout and http_header options; entries in
// Options take precedence.
func (c *Config) TransportOptions() http.Options {
	opts := http.Options{}

	if c.Timeout != "" {
		if d, err := time.ParseDuration(c.Timeout); err == nil {
			opts[http.OptTimeout] = d
		}
	}

	if len(c.Headers) > 0 {
		names := make([]string, 0, len(c.Headers))
		for name := range c.Headers {
			names = append(names, name)
		}
		sort.Strings(names)

		lines := make([]string, 0, len(names))
		for _, name := range names {
			lines = append(lines, name+": "+c.Headers[name])
		}
		opts[http.OptHTTPHeader] = lines
	}

	for k, v := range c.Options {
		opts[http.Option(k)] = v
	}
	return opts
}

// NewClient builds a soundcloud.Client from the configuration. opts are
// applied after the configured ones.
func (c *Config) NewClient(opts ...soundcloud.Option) *soundcloud.Client {
	base := []soundcloud.Option{
		soundcloud.WithEndpoint(c.Endpoint.Scheme, c.Endpoint.Host, c.Endpoint.Port),
		soundcloud.WithDefaultOptions(c.TransportOptions()),
	}

	client := soundcloud.New(c.ClientID, c.ClientSecret, c.CallbackURI, append(base, opts...)...)
	if c.AccessToken != "" {
		client.SetAccessToken(c.AccessToken, c.Scope, 0)
	}
	if c.Format == soundcloud.FormatXML {
		client.AsXML()
	}
	return client
}
