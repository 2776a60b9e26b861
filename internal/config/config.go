// Package config provides the server configuration, read from defaults, an
// optional JSON file, a .env file, environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultSupabaseURL points at a local Supabase stack.
	DefaultSupabaseURL = "http://localhost:54321"

	defaultConfigPath = "config.json"
	defaultEnvFile    = ".env"
)

// Options holds the configuration values for the application.
type Options struct {
	// Address is the server's listening address (ip:port).
	Address string `json:"address"`

	// SupabaseURL is the base URL of the Supabase project.
	SupabaseURL string `json:"supabase_url"`
	// SupabaseKey is the project API key. The admin user API requires a
	// service_role key.
	SupabaseKey string `json:"supabase_key"`

	// DatabaseDSN switches persistence to a direct Postgres connection when
	// set. Identities are still created through Supabase.
	DatabaseDSN string `json:"database_dsn"`

	LogLevel        string   `json:"log_level"`
	RequestTimeout  Duration `json:"request_timeout"`
	IdentityTimeout Duration `json:"identity_timeout"`
	BcryptCost      int      `json:"bcrypt_cost"`

	// StrictMigration fails a login when a legacy credential cannot be
	// rewritten as a hash.
	StrictMigration bool `json:"strict_migration"`

	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`
}

// Duration is a time.Duration that reads JSON strings such as "10s".
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns the built-in configuration.
func Default() *Options {
	return &Options{
		Address:         ":8000",
		SupabaseURL:     DefaultSupabaseURL,
		LogLevel:        "info",
		RequestTimeout:  Duration(10 * time.Second),
		IdentityTimeout: Duration(15 * time.Second),
		BcryptCost:      bcrypt.DefaultCost,
	}
}

// Parse reads the configuration for the running process.
func Parse() (*Options, error) {
	return ParseArgs(os.Args[1:], os.LookupEnv, defaultEnvFile)
}

// ParseArgs builds Options from args, the environment seen through lookup
// and the dotenv file at envFile. A missing config or dotenv file is not an
// error.
func ParseArgs(args []string, lookup func(string) (string, bool), envFile string) (*Options, error) {
	opts := Default()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	var (
		addr, dsn, cfgPath, logLevel string
		strict                       bool
	)
	fs.StringVar(&addr, "a", "", "run on ip:port server")
	fs.StringVar(&dsn, "d", "", "postgres DSN, replaces the Supabase table API")
	fs.StringVar(&cfgPath, "config", "", "path to config file")
	fs.StringVar(&cfgPath, "c", "", "path to config file (shorthand)")
	fs.StringVar(&logLevel, "l", "", "log level")
	fs.BoolVar(&strict, "strict-migration", false, "fail logins whose legacy credential cannot be migrated")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	dotenv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", envFile, err)
	}
	env := func(key string) (string, bool) {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	if !set["c"] && !set["config"] {
		cfgPath = defaultConfigPath
		if v, ok := env("CONFIG"); ok {
			cfgPath = v
		}
	}
	opts.Config = cfgPath
	if err := opts.loadFile(cfgPath); err != nil {
		return nil, err
	}

	if err := opts.applyEnv(env); err != nil {
		return nil, err
	}

	if set["a"] {
		opts.Address = addr
	}
	if set["d"] {
		opts.DatabaseDSN = dsn
	}
	if set["l"] {
		opts.LogLevel = logLevel
	}
	if set["strict-migration"] {
		opts.StrictMigration = strict
	}

	return opts, opts.Validate()
}

func (o *Options) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error while reading config file: %w", err)
	}
	if err := json.Unmarshal(data, o); err != nil {
		return fmt.Errorf("error while parsing config file: %w", err)
	}
	return nil
}

func (o *Options) applyEnv(env func(string) (string, bool)) error {
	strs := map[string]*string{
		"SERVER_ADDRESS": &o.Address,
		"SUPABASE_URL":   &o.SupabaseURL,
		"SUPABASE_KEY":   &o.SupabaseKey,
		"DATABASE_DSN":   &o.DatabaseDSN,
		"LOG_LEVEL":      &o.LogLevel,
		"TLS_CERT":       &o.TLSCert,
		"TLS_KEY":        &o.TLSKey,
	}
	for key, dst := range strs {
		if v, ok := env(key); ok {
			*dst = v
		}
	}

	durations := map[string]*Duration{
		"REQUEST_TIMEOUT":  &o.RequestTimeout,
		"IDENTITY_TIMEOUT": &o.IdentityTimeout,
	}
	for key, dst := range durations {
		if v, ok := env(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			*dst = Duration(d)
		}
	}

	if v, ok := env("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		o.BcryptCost = n
	}
	if v, ok := env("STRICT_MIGRATION"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STRICT_MIGRATION: %w", err)
		}
		o.StrictMigration = b
	}
	return nil
}

// Validate reports configuration values the server cannot start with.
func (o *Options) Validate() error {
	switch {
	case o.SupabaseURL == "":
		return errors.New("supabase url is required")
	case o.RequestTimeout <= 0 || o.IdentityTimeout <= 0:
		return errors.New("timeouts must be positive")
	case o.BcryptCost < bcrypt.MinCost || o.BcryptCost > bcrypt.MaxCost:
		return fmt.Errorf("bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	case (o.TLSCert == "") != (o.TLSKey == ""):
		return errors.New("tls_cert and tls_key must be set together")
	}
	return nil
}

// KeyRole returns the role claim of a Supabase API key. The signature is not
// verified; the result only tells which kind of key was configured.
func KeyRole(key string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return "", fmt.Errorf("parse supabase key: %w", err)
	}
	role, _ := claims["role"].(string)
	return role, nil
}
