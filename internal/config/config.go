package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment key.
const EnvPrefix = "HEALTHRISK"

// Artifact store backends.
const (
	StoreDir      = "dir"
	StorePostgres = "postgres"
	StoreHTTP     = "http"
)

// Config holds all healthrisk configuration.
type Config struct {
	Env             string        `mapstructure:"ENV" validate:"oneof=development production test"`
	Port            int           `mapstructure:"PORT" validate:"min=1,max=65535"`
	LogLevel        string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	ArtifactStore   string        `mapstructure:"ARTIFACT_STORE" validate:"oneof=dir postgres http"`
	ArtifactDir     string        `mapstructure:"ARTIFACT_DIR" validate:"required_if=ArtifactStore dir"`
	ArtifactURL     string        `mapstructure:"ARTIFACT_URL" validate:"required_if=ArtifactStore http,omitempty,url"`
	ArtifactToken   string        `mapstructure:"ARTIFACT_TOKEN"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL" validate:"required_if=ArtifactStore postgres"`
	DBMaxConns      int32         `mapstructure:"DB_MAX_CONNS" validate:"min=1"`
	ModelFormat     string        `mapstructure:"MODEL_FORMAT" validate:"oneof=onnx json"`
	ORTLib          string        `mapstructure:"ORT_LIB"`
	CORSOrigins     []string      `mapstructure:"CORS_ORIGINS"`
	ReloadGrace     time.Duration `mapstructure:"RELOAD_GRACE" validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"min=0"`
}

var keys = []string{
	"ENV", "PORT", "LOG_LEVEL", "ARTIFACT_STORE", "ARTIFACT_DIR", "ARTIFACT_URL",
	"ARTIFACT_TOKEN", "DATABASE_URL",
	"DB_MAX_CONNS", "MODEL_FORMAT", "ORT_LIB", "CORS_ORIGINS", "RELOAD_GRACE",
	"SHUTDOWN_TIMEOUT",
}

var (
	validate   = validator.New()
	configType = reflect.TypeOf(Config{})
)

// Load reads configuration from a .env file in the working directory (if
// present) and then the environment, which takes precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", 5000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ARTIFACT_STORE", StoreDir)
	v.SetDefault("ARTIFACT_DIR", "models")
	v.SetDefault("DB_MAX_CONNS", 4)
	v.SetDefault("MODEL_FORMAT", "onnx")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RELOAD_GRACE", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	// Bind explicitly so Unmarshal sees keys that only exist in the environment.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.Env = strings.ToLower(cfg.Env)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.ModelFormat = strings.ToLower(cfg.ModelFormat)
	cfg.CORSOrigins = splitOrigins(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s_%s failed %q", EnvPrefix, envKey(fe.Field()), fe.Tag()))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// IsDev reports whether the service runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// RuntimeLibrary returns the ONNX Runtime library path: ORT_LIB if set,
// otherwise libonnxruntime.so next to the model artifacts.
func (c *Config) RuntimeLibrary() string {
	if c.ORTLib != "" {
		return c.ORTLib
	}
	if c.ArtifactStore != StoreDir {
		return ""
	}
	return filepath.Join(c.ArtifactDir, "libonnxruntime.so")
}

func splitOrigins(in []string) []string {
	var out []string
	for _, s := range in {
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

// envKey maps a struct field name back to its environment key.
func envKey(field string) string {
	t, ok := configType.FieldByName(field)
	if !ok {
		return strings.ToUpper(field)
	}
	return t.Tag.Get("mapstructure")
}
