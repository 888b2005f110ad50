package config

import (
	"fmt"
	"os"
	"strings"
)

// Gateway holds everything the auth gateway needs. Built once at startup and
// passed by reference; read-only for the process lifetime.
type Gateway struct {
	SupabaseURL    string
	SupabaseKey    string
	GoogleClientID string
	SessionSecret  string
	AllowedOrigins []string

	// RequireVerifiedEmail rejects sign-ins from unverified Google accounts.
	// The gate shipped disabled, so it defaults to off.
	RequireVerifiedEmail bool
}

// Enrichment holds the credentials for the image enrichment job.
type Enrichment struct {
	SupabaseURL  string
	SupabaseKey  string
	GoogleAPIKey string
	GoogleCSEID  string
}

// LoadGateway reads the gateway configuration from the environment and fails
// if any required variable is missing.
func LoadGateway() (*Gateway, error) {
	var missing []string

	cfg := &Gateway{
		SupabaseURL:          getenv("SUPABASE_URL", &missing),
		SupabaseKey:          getenv("SUPABASE_KEY", &missing),
		GoogleClientID:       getenv("GOOGLE_CLIENT_ID", &missing),
		SessionSecret:        getenv("SESSION_SECRET", &missing),
		RequireVerifiedEmail: os.Getenv("REQUIRE_VERIFIED_EMAIL") == "true",
	}

	origins := os.Getenv("ALLOWED_ORIGINS")
	if origins == "" {
		origins = "http://localhost:5173"
	}
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// LoadEnrichment reads the enrichment job configuration from the environment.
func LoadEnrichment() (*Enrichment, error) {
	var missing []string

	cfg := &Enrichment{
		SupabaseURL:  getenv("SUPABASE_URL", &missing),
		SupabaseKey:  getenv("SUPABASE_KEY", &missing),
		GoogleAPIKey: getenv("GOOGLE_API_KEY", &missing),
		GoogleCSEID:  getenv("GOOGLE_CSE_ID", &missing),
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func getenv(key string, missing *[]string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		*missing = append(*missing, key)
	}
	return v
}
