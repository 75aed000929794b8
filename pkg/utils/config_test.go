package utils

import (
	"strings"
	"testing"
)

func TestLoadConfig_RejectsNonPositiveTTLs(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "checkout ttl zero", env: map[string]string{"CHECKOUT_TTL_MINUTES": "0"}, wantErr: "CHECKOUT_TTL_MINUTES"},
		{name: "checkout ttl negative", env: map[string]string{"CHECKOUT_TTL_MINUTES": "-5"}, wantErr: "CHECKOUT_TTL_MINUTES"},
		{name: "session expiry zero", env: map[string]string{"SESSION_EXPIRY_HOURS": "0"}, wantErr: "SESSION_EXPIRY_HOURS"},
		{name: "missing secret", env: map[string]string{"CHECKOUT_SECRET": ""}, wantErr: "CHECKOUT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CHECKOUT_SECRET", "test-secret")
			t.Setenv("CHECKOUT_TTL_MINUTES", "30")
			t.Setenv("SESSION_EXPIRY_HOURS", "24")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config, err := LoadConfig()
			if err == nil {
				t.Fatalf("expected error, got config with checkout TTL %s", config.Checkout.TTL())
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error naming %s, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CHECKOUT_SECRET", "test-secret")
	t.Setenv("CHECKOUT_TTL_MINUTES", "30")
	t.Setenv("SESSION_EXPIRY_HOURS", "24")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if config.Checkout.TTL().Minutes() != 30 || config.Session.TTL().Hours() != 24 {
		t.Fatalf("unexpected TTLs %s, %s", config.Checkout.TTL(), config.Session.TTL())
	}
}
