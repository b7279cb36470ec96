package shared

import (
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const DefaultAPIURL = "http://localhost:8000"

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	APIURL         string
	APIRPS         int
	RequestTimeout time.Duration
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	SubmitLimit    int
	SubmitWindow   time.Duration
	SeedWorkers    int
	TrustedProxies []netip.Prefix
}

// Load reads the environment once at startup. A .env file in the working
// directory is applied first when present; real env vars win.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	return FromEnv()
}

func FromEnv() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		APIURL:         env("API_URL", DefaultAPIURL),
		APIRPS:         atoi("API_RPS", 10),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		SubmitLimit:    atoi("SUBMIT_LIMIT", 20),
		SubmitWindow:   time.Duration(atoi("SUBMIT_WINDOW_SECONDS", 60)) * time.Second,
		SeedWorkers:    atoi("SEED_WORKERS", 4),
		TrustedProxies: prefixes(os.Getenv("TRUSTED_PROXIES")),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// prefixes parses a comma list of CIDRs or bare IPs. Bad entries are skipped.
func prefixes(v string) []netip.Prefix {
	var out []netip.Prefix
	for _, f := range strings.Split(v, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if p, err := netip.ParsePrefix(f); err == nil {
			out = append(out, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(f); err == nil {
			out = append(out, netip.PrefixFrom(a.Unmap(), a.Unmap().BitLen()))
			continue
		}
		log.Warn().Str("key", "TRUSTED_PROXIES").Str("value", f).Msg("not an IP or CIDR, skipping")
	}
	return out
}
