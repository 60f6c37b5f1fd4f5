package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"defaults", "", "", false},
		{"debug json", "debug", "json", false},
		{"warn console", "warn", "console", false},
		{"invalid level", "loud", "json", true},
		{"invalid format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("logging.level", tt.level)
			v.Set("logging.format", tt.format)

			logger, err := NewLogger(v)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			if logger == nil {
				t.Fatal("nil logger")
			}
		})
	}
}

func TestNewLogger_level_applied(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "warn")

	logger, err := NewLogger(v)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger.Core().Enabled(-1) { // debug
		t.Error("debug enabled at warn level")
	}
}

func TestViperConfig_Sub(t *testing.T) {
	v := viper.New()
	v.Set("cognition.ingest_timeout", "5s")
	c := New(v)

	if got := c.Sub("cognition").GetDuration("ingest_timeout").Seconds(); got != 5 {
		t.Errorf("ingest_timeout = %vs, want 5s", got)
	}
	if c.Sub("missing").IsSet("anything") {
		t.Error("missing subtree reported a key")
	}
}
