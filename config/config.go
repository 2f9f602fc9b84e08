package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DBUrl        string
	TokenSecret  string
	GeminiAPIKey string
	Debug        bool
}

// ParseFlags reads configuration from command line flags, falling back to
// environment variables (a .env file is honored when present).
func ParseFlags() (cfg Config, err error) {
	godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("HOST", "0.0.0.0"), "listen host name")
	var port uint
	flag.UintVar(&port, "port", envUintOr("PORT", 8080), "listen port number")
	flag.StringVar(&cfg.DBUrl, "db-url", envOr("DB_URL", "inkform.sqlite"), "path to SQLite3 DB file")
	flag.StringVar(&cfg.TokenSecret, "token-secret", os.Getenv("TOKEN_SECRET"), "secret key for signing access tokens")
	flag.StringVar(&cfg.GeminiAPIKey, "gemini-api-key", os.Getenv("GEMINI_API_KEY"), "Gemini API key (assist uses a canned model if empty)")
	flag.BoolVar(&cfg.Debug, "debug", os.Getenv("DEBUG") == "true", "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))

	if cfg.TokenSecret == "" {
		err = errors.New("missing parameter -token-secret (or TOKEN_SECRET)")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUintOr(key string, fallback uint) uint {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint(n)
		}
	}
	return fallback
}
