package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Env struct {
	AppAddr            string         `yaml:"app_addr"`
	GinMode            string         `yaml:"gin_mode"`
	AppEnv             string         `yaml:"app_env"`
	LogLevel           string         `yaml:"log_level"`
	CORSAllowedOrigins []string       `yaml:"cors_allowed_origins"`
	DB                 DBConfig       `yaml:"db"`
	JWT                JWTConfig      `yaml:"jwt"`
	Recovery           RecoveryConfig `yaml:"recovery"`
	SMTP               SMTPConfig     `yaml:"smtp"`
	Cache              CacheConfig    `yaml:"cache"`
}

type DBConfig struct {
	DSN      string `yaml:"dsn"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Name     string `yaml:"name"`
}

// JWTConfig holds the shared HMAC secret and issuer used by every token the
// service signs.
type JWTConfig struct {
	Key       string        `yaml:"key"`
	Issuer    string        `yaml:"issuer"`
	AccessTTL time.Duration `yaml:"access_ttl"`
}

type RecoveryConfig struct {
	TokenTTL         time.Duration `yaml:"token_ttl"`
	ResetURLBase     string        `yaml:"reset_url_base"`
	SingleUse        bool          `yaml:"single_use"`
	MaskUnknownEmail bool          `yaml:"mask_unknown_email"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	// TLSMode is "auto", "ssl" or "none".
	TLSMode string `yaml:"tls_mode"`
}

func (c SMTPConfig) Enabled() bool { return strings.TrimSpace(c.Host) != "" }

type CacheConfig struct {
	Driver        string `yaml:"driver"` // memory | redis
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	Prefix        string `yaml:"prefix"`
}

func defaults() Env {
	return Env{
		AppAddr:  ":8080",
		AppEnv:   "dev",
		LogLevel: "info",
		DB: DBConfig{
			User: "root",
			Host: "127.0.0.1:3306",
			Name: "games_library",
		},
		JWT: JWTConfig{
			Issuer:    "gameslibrary",
			AccessTTL: 24 * time.Hour,
		},
		Recovery: RecoveryConfig{
			TokenTTL:     120 * time.Minute,
			ResetURLBase: "http://localhost:8080/api/user/reset-password",
			SingleUse:    true,
		},
		SMTP:  SMTPConfig{Port: 587, TLSMode: "auto"},
		Cache: CacheConfig{Driver: "memory", Prefix: "gameslibrary"},
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
	}
}

// LoadEnv resolves configuration from, in increasing precedence: built-in
// defaults, the YAML file named by APP_CONFIG_FILE, a .env file in the
// working directory, and the process environment.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Env{}, fmt.Errorf("load .env: %w", err)
	}

	env := defaults()
	if path := strings.TrimSpace(os.Getenv("APP_CONFIG_FILE")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Env{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &env); err != nil {
			return Env{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	var errs []error
	setString(&env.AppAddr, "APP_ADDR")
	setString(&env.GinMode, "GIN_MODE")
	setString(&env.AppEnv, "APP_ENV")
	setString(&env.LogLevel, "LOG_LEVEL")
	setList(&env.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")

	setString(&env.DB.DSN, "DB_DSN")
	setString(&env.DB.User, "DB_USER")
	setString(&env.DB.Password, "DB_PASS")
	setString(&env.DB.Host, "DB_HOST")
	setString(&env.DB.Name, "DB_NAME")

	setString(&env.JWT.Key, "JWT_KEY")
	setString(&env.JWT.Issuer, "JWT_ISSUER")
	errs = append(errs, setDuration(&env.JWT.AccessTTL, "ACCESS_TOKEN_TTL"))

	errs = append(errs, setDuration(&env.Recovery.TokenTTL, "RECOVERY_TOKEN_TTL"))
	setString(&env.Recovery.ResetURLBase, "RESET_URL_BASE")
	errs = append(errs, setBool(&env.Recovery.SingleUse, "RECOVERY_SINGLE_USE"))
	errs = append(errs, setBool(&env.Recovery.MaskUnknownEmail, "RECOVERY_MASK_UNKNOWN_EMAIL"))

	setString(&env.SMTP.Host, "SMTP_HOST")
	errs = append(errs, setInt(&env.SMTP.Port, "SMTP_PORT"))
	setString(&env.SMTP.User, "SMTP_USER")
	setString(&env.SMTP.Password, "SMTP_PASS")
	setString(&env.SMTP.From, "SMTP_FROM")
	setString(&env.SMTP.TLSMode, "SMTP_TLS_MODE")

	setString(&env.Cache.Driver, "CACHE_DRIVER")
	setString(&env.Cache.RedisAddr, "REDIS_ADDR")
	setString(&env.Cache.RedisPassword, "REDIS_PASSWORD")
	errs = append(errs, setInt(&env.Cache.RedisDB, "REDIS_DB"))
	setString(&env.Cache.Prefix, "CACHE_PREFIX")

	if err := errors.Join(errs...); err != nil {
		return Env{}, err
	}
	return env, nil
}

// Validate reports settings the service cannot start without.
func (e Env) Validate() error {
	var errs []error
	if strings.TrimSpace(e.JWT.Key) == "" {
		errs = append(errs, errors.New("JWT_KEY is required"))
	}
	if strings.TrimSpace(e.JWT.Issuer) == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required"))
	}
	if e.Recovery.TokenTTL <= 0 {
		errs = append(errs, errors.New("RECOVERY_TOKEN_TTL must be positive"))
	}
	switch e.Cache.Driver {
	case "memory", "":
	case "redis":
		if strings.TrimSpace(e.Cache.RedisAddr) == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when CACHE_DRIVER=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CACHE_DRIVER %q", e.Cache.Driver))
	}
	return errors.Join(errs...)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	out := []string{}
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*dst = out
}

func setInt(dst *int, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}
