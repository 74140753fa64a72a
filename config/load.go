package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

func Load() App {
	cfg := App{
		Port:                getenv("APP_PORT", "8080"),
		DatabaseURL:         must("DATABASE_URL"),
		DBMaxConns:          getenvInt("DB_MAX_CONNS", 25),
		JWTSecret:           getenv("JWT_SECRET", "local_dev_secret"),
		JWTTTLHours:         getenvInt("JWT_TTL_HOURS", 24),
		Env:                 getenv("APP_ENV", "dev"),
		CORSOrigin:          getenv("CORS_ORIGIN", "*"),
		AllowedEmailDomains: getenvList("ALLOWED_EMAIL_DOMAINS", []string{"spelman.edu", "morehouse.edu"}),
		Supabase: Supabase{
			URL:            strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			ServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		},
		Square: Square{
			AccessToken: os.Getenv("SQUARE_ACCESS_TOKEN"),
			Environment: getenv("SQUARE_ENVIRONMENT", "sandbox"),
			Currency:    getenv("SQUARE_CURRENCY", "USD"),
		},
		Storage: Storage{
			Endpoint:        os.Getenv("STORAGE_ENDPOINT"),
			Region:          getenv("STORAGE_REGION", "us-east-1"),
			AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			Bucket:          getenv("STORAGE_BUCKET", "clothing-images"),
			PublicURL:       strings.TrimRight(os.Getenv("STORAGE_PUBLIC_URL"), "/"),
		},
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getenvInt("SMTP_PORT", 587),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}
	if cfg.Storage.PublicURL == "" && cfg.Supabase.URL != "" {
		cfg.Storage.PublicURL = cfg.Supabase.URL + "/storage/v1/object/public"
	}
	if cfg.Env == "production" && cfg.JWTSecret == "local_dev_secret" {
		slog.Warn("JWT_SECRET not set in production, using the development secret")
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		slog.Warn("invalid integer env, using default", "key", k, "value", v)
	}
	return def
}

func getenvList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
