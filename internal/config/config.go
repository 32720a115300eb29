package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

const EnvironmentDevelopment = "development"

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr           string
		Environment    string
		AllowedOrigins []string
		StaticDir      string
		LogLevel       string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret       string
		TokenTTLMinutes int
		CookieName      string
		CookieSecure    bool
		KDFIterations   int
		KDFWorkers      int
	}
	Payment struct {
		StripeSecretKey string
		WebhookSecret   string
		Currency        string
	}
	Archive struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// legacyEnv maps config keys to the variable names used by earlier deployments.
var legacyEnv = map[string]string{
	"auth.jwtsecret":          "JWT_SECRET_KEY",
	"payment.webhooksecret":   "ENDPOINT_SECRET",
	"payment.stripesecretkey": "STRIPE_SERVER_KEY",
	"server.allowedorigins":   "FRONTEND_URL",
	"server.environment":      "ENVIRONMENT",
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("SHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.environment", "production")
	v.SetDefault("server.allowedorigins", []string{})
	v.SetDefault("server.staticdir", "build")
	v.SetDefault("server.loglevel", "info")
	v.SetDefault("database.path", "data/shop.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttlminutes", 600)
	v.SetDefault("auth.cookiename", "jwt")
	v.SetDefault("auth.cookiesecure", false)
	v.SetDefault("auth.kdfiterations", 310000)
	v.SetDefault("auth.kdfworkers", runtime.NumCPU())
	v.SetDefault("payment.stripesecretkey", "")
	v.SetDefault("payment.webhooksecret", "")
	v.SetDefault("payment.currency", "inr")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.keyprefix", "webhook-events")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("aws.profile", "")

	for key, legacy := range legacyEnv {
		envKey := "SHOP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, legacy); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && os.Getenv("SHOP_SERVER_ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}
	cfg.Server.AllowedOrigins = splitOrigins(cfg.Server.AllowedOrigins)

	return cfg, nil
}

// Validate reports missing secrets needed to serve requests.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth jwt secret is required"))
	}
	if strings.TrimSpace(c.Payment.WebhookSecret) == "" {
		errs = append(errs, errors.New("payment webhook secret is required"))
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("auth token ttl must be positive"))
	}
	return errors.Join(errs...)
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Server.Environment, EnvironmentDevelopment)
}

func splitOrigins(raw []string) []string {
	out := []string{}
	for _, entry := range raw {
		for _, origin := range strings.Split(entry, ",") {
			origin = strings.TrimRight(strings.TrimSpace(origin), "/")
			if origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}

func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
