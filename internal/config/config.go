package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string

	// OTLPEndpoint enables span export when set, e.g. localhost:4318.
	OTLPEndpoint string
	ServiceName  string

	// UserHeader carries the owner id set by the upstream identity provider.
	UserHeader string
	AdminToken string
	Currency   currency.Unit

	PaymentTimeout    time.Duration
	GatewayLatency    time.Duration
	MaxTxRetries      uint64
	CheckoutWait      time.Duration
	ClaimStaleAfter   time.Duration
	CartClearAttempts uint64
}

// Load reads an optional .env file from files (".env" when none are given) and then the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		HTTPAddr:    getString("HTTP_ADDR", ":8080"),
		LogLevel:    getString("LOG_LEVEL", "info"),
		UserHeader:  getString("USER_HEADER", "X-User-ID"),
		AdminToken:  os.Getenv("ADMIN_TOKEN"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  getString("SERVICE_NAME", "cart-checkout"),
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is empty")
	}

	var err error
	if cfg.Currency, err = currency.ParseISO(getString("CURRENCY", "USD")); err != nil {
		return Config{}, fmt.Errorf("CURRENCY: %w", err)
	}

	durations := []struct {
		key    string
		def    time.Duration
		target *time.Duration
	}{
		{"PAYMENT_TIMEOUT", 10 * time.Second, &cfg.PaymentTimeout},
		{"GATEWAY_LATENCY", 0, &cfg.GatewayLatency},
		{"CHECKOUT_WAIT", 3 * time.Second, &cfg.CheckoutWait},
		{"CLAIM_STALE_AFTER", 2 * time.Minute, &cfg.ClaimStaleAfter},
	}
	for _, d := range durations {
		if *d.target, err = getDuration(d.key, d.def); err != nil {
			return Config{}, err
		}
	}

	if cfg.MaxTxRetries, err = getUint("MAX_TX_RETRIES", 3); err != nil {
		return Config{}, err
	}
	if cfg.CartClearAttempts, err = getUint("CART_CLEAR_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}

	if cfg.ClaimStaleAfter <= cfg.PaymentTimeout {
		return Config{}, fmt.Errorf("CLAIM_STALE_AFTER[%s] must exceed PAYMENT_TIMEOUT[%s]", cfg.ClaimStaleAfter, cfg.PaymentTimeout)
	}

	return cfg, nil
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s[%s] is negative", key, v)
	}

	return d, nil
}

func getUint(key string, def uint64) (uint64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}

	return n, nil
}
