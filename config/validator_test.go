package config

import (
	"strings"
	"testing"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantPaths []string
	}{
		{
			name:   "Valid",
			mutate: func(c *Config) { c.ClientID = "abc" },
		},
		{
			name:      "Missing client id",
			mutate:    func(c *Config) {},
			wantPaths: []string{"clientId"},
		},
		{
			name: "Bad format and timeout",
			mutate: func(c *Config) {
				c.ClientID = "abc"
				c.Format = "yaml"
				c.Timeout = "soon"
			},
			wantPaths: []string{"format", "timeout"},
		},
		{
			name: "Bad endpoint",
			mutate: func(c *Config) {
				c.ClientID = "abc"
				c.Endpoint.Scheme = "ftp"
				c.Endpoint.Port = 70000
			},
			wantPaths: []string{"endpoint.scheme", "endpoint.port"},
		},
		{
			name: "Bad callback",
			mutate: func(c *Config) {
				c.ClientID = "abc"
				c.CallbackURI = "not a url"
			},
			wantPaths: []string{"callbackUri"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := ValidateConfig(cfg)
			if len(errs) != len(tt.wantPaths) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.wantPaths), len(errs), errs)
			}
			for i, want := range tt.wantPaths {
				if errs[i].Path != want {
					t.Errorf("Expected error path %s, got %s", want, errs[i].Path)
				}
				if errs[i].Message == "" {
					t.Errorf("Expected a message for %s", want)
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "clientId: is required") {
		t.Errorf("Expected clientId error, got %v", err)
	}

	cfg.ClientID = "abc"
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}
