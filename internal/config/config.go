package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars. Thresholds and
// secrets are passed explicitly into the components that need them so tests
// can inject their own.
type Config struct {
	Port        string
	DatabaseURL string
	AdminToken  string
	JWTSecret   string
	JWTIssuer   string
	JWTTTL      time.Duration
	CORSOrigins []string

	// ProximityMeters is how close a participant must be to the current
	// step before the answer is even considered.
	ProximityMeters float64
	// LocationCheck disables the proximity gate when false (useful while
	// testing a hunt from a desk).
	LocationCheck bool
	MediaDir      string
	// BcryptCost is the hashing cost; 0 means the bcrypt default.
	BcryptCost int
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:            fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		AdminToken:      strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:       fallback(os.Getenv("JWT_ISSUER"), "chasse-backend"),
		CORSOrigins:     parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		ProximityMeters: 50,
		LocationCheck:   true,
		MediaDir:        fallback(os.Getenv("MEDIA_DIR"), "data/media"),
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	if raw := strings.TrimSpace(os.Getenv("PROXIMITY_METERS")); raw != "" {
		meters, err := strconv.ParseFloat(raw, 64)
		if err != nil || meters <= 0 {
			return Config{}, fmt.Errorf("invalid PROXIMITY_METERS %q", raw)
		}
		cfg.ProximityMeters = meters
	}

	if raw := strings.TrimSpace(os.Getenv("LOCATION_CHECK")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOCATION_CHECK %q", raw)
		}
		cfg.LocationCheck = enabled
	}

	if cfg.AdminToken == "" {
		return Config{}, errors.New("ADMIN_TOKEN is required")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = cfg.AdminToken
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
