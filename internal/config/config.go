package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	TLSCert         string
	TLSKey          string
	DatabaseURL     string
	TokenKey        string
	DefaultLang     string
	LogLevel        string
	UploadDir       string
	StaticDir       string
	RateLimit       float64
	RateBurst       int
	InstitutionsURL string
}

var ErrNoTokenKey = errors.New("TOKEN_KEY environment variable is not set")

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	cfg := Config{
		Addr:            get("ADDR", ":443"),
		TLSCert:         getenv("TLS_CERT"),
		TLSKey:          getenv("TLS_KEY"),
		DatabaseURL:     getenv("DATABASE_URL"),
		TokenKey:        getenv("TOKEN_KEY"),
		DefaultLang:     get("DEFAULT_LANG", "ms"),
		LogLevel:        get("LOG_LEVEL", "info"),
		UploadDir:       get("UPLOAD_DIR", "./static/uploads"),
		StaticDir:       get("STATIC_DIR", "./static"),
		RateLimit:       1,
		RateBurst:       3,
		InstitutionsURL: get("INSTITUTIONS_URL", "https://www.mypolycc.edu.my/index.php/hubungi-kami/senarai-politeknik-kolej-komuniti"),
	}
	if v, err := strconv.ParseFloat(getenv("RATE_LIMIT"), 64); err == nil && v > 0 {
		cfg.RateLimit = v
	}
	if v, err := strconv.Atoi(getenv("RATE_BURST")); err == nil && v > 0 {
		cfg.RateBurst = v
	}
	if cfg.TokenKey == "" {
		return cfg, ErrNoTokenKey
	}
	return cfg, nil
}

// TLS reports whether both certificate files are configured.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}
