package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	AuthIssuer  string   `mapstructure:"AUTH_ISSUER"`
	AuthJWKSURL string   `mapstructure:"AUTH_JWKS_URL"`
	AuthAud     string   `mapstructure:"AUTH_AUDIENCE"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	SummaryCap  int      `mapstructure:"SUMMARY_CAP"`
	UploadDir   string   `mapstructure:"UPLOAD_DIR"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SUMMARY_CAP", 8)
	v.SetDefault("UPLOAD_DIR", "./uploads")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("SUMMARY_CAP")
	v.BindEnv("UPLOAD_DIR")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SummaryCap <= 0 {
		return nil, fmt.Errorf("SUMMARY_CAP must be positive, got %d", cfg.SummaryCap)
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active; all requests get admin access.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run: outside development
// mode real JWT authentication must be configured.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" {
		return fmt.Errorf("AUTH_ISSUER must be set when ENV is %q; refusing to start without authentication", c.Env)
	}
	return nil
}
