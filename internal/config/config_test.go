package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := decode(newViper())
	if err != nil {
		t.Fatalf("decode() error: %v", err)
	}

	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, DriverSQLite)
	}
	if cfg.Analytics.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.Analytics.CacheTTL)
	}
	if cfg.Analytics.PageSize != 20 {
		t.Errorf("PageSize = %d, want 20", cfg.Analytics.PageSize)
	}
	if cfg.Analytics.PrefetchDistance != 5 {
		t.Errorf("PrefetchDistance = %d, want 5", cfg.Analytics.PrefetchDistance)
	}
	if cfg.Analytics.Correlation.MinDays != 3 {
		t.Errorf("Correlation.MinDays = %d, want 3", cfg.Analytics.Correlation.MinDays)
	}
	if cfg.Analytics.Correlation.MinRelativeDifference != 0.20 {
		t.Errorf("Correlation.MinRelativeDifference = %v, want 0.20", cfg.Analytics.Correlation.MinRelativeDifference)
	}
	if cfg.Analytics.Scoring.ChallengingWeight != 1.0 {
		t.Errorf("Scoring.ChallengingWeight = %v, want 1.0", cfg.Analytics.Scoring.ChallengingWeight)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(v *viper.Viper)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(v *viper.Viper) {},
		},
		{
			name:    "unknown driver",
			mutate:  func(v *viper.Viper) { v.Set("store.driver", "mongo") },
			wantErr: "unknown store driver",
		},
		{
			name:    "supabase without url",
			mutate:  func(v *viper.Viper) { v.Set("store.driver", DriverSupabase) },
			wantErr: "SUPABASE_URL is required",
		},
		{
			name: "supabase without key",
			mutate: func(v *viper.Viper) {
				v.Set("store.driver", DriverSupabase)
				v.Set("store.supabase_url", "https://example.supabase.co")
			},
			wantErr: "SUPABASE_SERVICE_KEY is required",
		},
		{
			name:    "zero page size",
			mutate:  func(v *viper.Viper) { v.Set("analytics.page_size", 0) },
			wantErr: "page_size",
		},
		{
			name:    "threshold above one",
			mutate:  func(v *viper.Viper) { v.Set("analytics.correlation.min_relative_difference", 1.5) },
			wantErr: "min_relative_difference",
		},
		{
			name:    "bad timezone",
			mutate:  func(v *viper.Viper) { v.Set("analytics.timezone", "Mars/Olympus_Mons") },
			wantErr: "invalid analytics.timezone",
		},
		{
			name:   "named timezone",
			mutate: func(v *viper.Viper) { v.Set("analytics.timezone", "UTC") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			tt.mutate(v)
			_, err := decode(v)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("decode() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("decode() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestDurationFromString(t *testing.T) {
	v := newViper()
	v.Set("analytics.cache_ttl", "90s")
	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode() error: %v", err)
	}
	if cfg.Analytics.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.Analytics.CacheTTL)
	}
}

func TestCORSOriginsFromString(t *testing.T) {
	v := newViper()
	v.Set("server.cors_allowed_origins", "https://app.example.com,https://*.pages.dev")
	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode() error: %v", err)
	}
	want := []string{"https://app.example.com", "https://*.pages.dev"}
	if strings.Join(cfg.Server.CORSAllowedOrigins, " ") != strings.Join(want, " ") {
		t.Errorf("CORSAllowedOrigins = %v, want %v", cfg.Server.CORSAllowedOrigins, want)
	}
	if cfg.Server.IsProduction() {
		t.Error("IsProduction() = true for development env")
	}
}
