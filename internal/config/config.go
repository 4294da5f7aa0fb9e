package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	AWSRegion       string `mapstructure:"AWS_REGION"`
	AWSAccessKey    string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey    string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	FilesBucket     string `mapstructure:"FILES_BUCKET"`
	DBSecretName    string `mapstructure:"DB_SECRET_NAME"`
	CognitoPoolID   string `mapstructure:"COGNITO_POOL_ID"`
	SESSender       string `mapstructure:"SES_SENDER"`
	BugReportInbox  string `mapstructure:"BUG_REPORT_INBOX"`

	// Bundle pipeline tunables. Defaults were tuned on the original
	// deployment host; treat them as per-environment knobs.
	WorkDir             string  `mapstructure:"BUNDLE_WORK_DIR"`
	MaxCaseWorkers      int     `mapstructure:"BUNDLE_MAX_CASE_WORKERS"`
	CoreFraction        float64 `mapstructure:"BUNDLE_CORE_FRACTION"`
	FileWorkersPerCase  int     `mapstructure:"BUNDLE_FILE_WORKERS"`
	SmallBatchThreshold int     `mapstructure:"BUNDLE_SMALL_BATCH_THRESHOLD"`
	LargeBatchThreshold int     `mapstructure:"BUNDLE_LARGE_BATCH_THRESHOLD"`
	MediumBatchSize     int     `mapstructure:"BUNDLE_MEDIUM_BATCH_SIZE"`
	LargeBatchSize      int     `mapstructure:"BUNDLE_LARGE_BATCH_SIZE"`
	CompressionMode     string  `mapstructure:"COMPRESSION_MODE"`
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
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("BUNDLE_WORK_DIR", "/tmp/caseflow-bundles")
	v.SetDefault("BUNDLE_MAX_CASE_WORKERS", 24)
	v.SetDefault("BUNDLE_CORE_FRACTION", 0.75)
	v.SetDefault("BUNDLE_FILE_WORKERS", 4)
	v.SetDefault("BUNDLE_SMALL_BATCH_THRESHOLD", 10)
	v.SetDefault("BUNDLE_LARGE_BATCH_THRESHOLD", 50)
	v.SetDefault("BUNDLE_MEDIUM_BATCH_SIZE", 40)
	v.SetDefault("BUNDLE_LARGE_BATCH_SIZE", 30)
	v.SetDefault("COMPRESSION_MODE", "standard")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"CORS_ORIGINS", "JWT_SECRET",
		"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
		"FILES_BUCKET", "DB_SECRET_NAME", "COGNITO_POOL_ID",
		"SES_SENDER", "BUG_REPORT_INBOX",
		"BUNDLE_WORK_DIR", "BUNDLE_MAX_CASE_WORKERS", "BUNDLE_CORE_FRACTION",
		"BUNDLE_FILE_WORKERS", "BUNDLE_SMALL_BATCH_THRESHOLD",
		"BUNDLE_LARGE_BATCH_THRESHOLD", "BUNDLE_MEDIUM_BATCH_SIZE",
		"BUNDLE_LARGE_BATCH_SIZE", "COMPRESSION_MODE",
	} {
		v.BindEnv(key)
	}

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

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. DATABASE_URL may be
// omitted only when DB_SECRET_NAME is set, in which case the connection
// string is fetched from Secrets Manager at startup.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.DBSecretName == "" {
		return fmt.Errorf("DATABASE_URL or DB_SECRET_NAME is required")
	}
	if !c.IsDev() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	if c.CompressionMode != "standard" && c.CompressionMode != "aggressive" {
		return fmt.Errorf("COMPRESSION_MODE must be \"standard\" or \"aggressive\", got %q", c.CompressionMode)
	}
	if c.MaxCaseWorkers <= 0 {
		return fmt.Errorf("BUNDLE_MAX_CASE_WORKERS must be positive")
	}
	if c.CoreFraction <= 0 || c.CoreFraction > 1 {
		return fmt.Errorf("BUNDLE_CORE_FRACTION must be in (0, 1]")
	}
	return nil
}

// Bundle collects the pipeline tunables into the shape consumed by the
// casefiles package.
type BundleSettings struct {
	WorkDir             string
	MaxCaseWorkers      int
	CoreFraction        float64
	FileWorkersPerCase  int
	SmallBatchThreshold int
	LargeBatchThreshold int
	MediumBatchSize     int
	LargeBatchSize      int
}

func (c *Config) Bundle() BundleSettings {
	return BundleSettings{
		WorkDir:             c.WorkDir,
		MaxCaseWorkers:      c.MaxCaseWorkers,
		CoreFraction:        c.CoreFraction,
		FileWorkersPerCase:  c.FileWorkersPerCase,
		SmallBatchThreshold: c.SmallBatchThreshold,
		LargeBatchThreshold: c.LargeBatchThreshold,
		MediumBatchSize:     c.MediumBatchSize,
		LargeBatchSize:      c.LargeBatchSize,
	}
}
