// Package config loads sales-edge settings from defaults, an optional YAML
// file, a .env file and SALES_EDGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/calance/sales-edge/internal/core"
)

// EnvPrefix is prepended to every environment override, e.g.
// SALES_EDGE_API_URL or SALES_EDGE_STORAGE_BACKEND.
const EnvPrefix = "SALES_EDGE"

// FileName is the config file looked up in the working and home directories.
const FileName = ".sales-edge.yaml"

// Config is the full runtime configuration, passed explicitly to every
// component at construction.
type Config struct {
	APIURL          string         `mapstructure:"api_url" yaml:"api_url,omitempty"`
	Timeout         time.Duration  `mapstructure:"timeout" yaml:"timeout,omitempty"`
	DefaultIndustry string         `mapstructure:"default_industry" yaml:"default_industry,omitempty"`
	Storage         StorageConfig  `mapstructure:"storage" yaml:"storage,omitempty"`
	Templates       TemplateConfig `mapstructure:"templates" yaml:"templates,omitempty"`
	Export          ExportConfig   `mapstructure:"export" yaml:"export,omitempty"`
	Brand           BrandConfig    `mapstructure:"brand" yaml:"brand,omitempty"`
	Log             LogConfig      `mapstructure:"log" yaml:"log,omitempty"`
}

// StorageConfig selects where drafts are kept between runs.
type StorageConfig struct {
	Backend string      `mapstructure:"backend" yaml:"backend,omitempty"` // "file" or "sqlite"
	Dir     string      `mapstructure:"dir" yaml:"dir,omitempty"`
	Keys    StorageKeys `mapstructure:"keys" yaml:"keys,omitempty"`
}

// StorageKeys names the durable entry of each module.
type StorageKeys struct {
	CaseStudy    string `mapstructure:"case_study" yaml:"case_study,omitempty"`
	Presentation string `mapstructure:"presentation" yaml:"presentation,omitempty"`
}

// Key returns the storage key for a module.
func (k StorageKeys) Key(m core.Module) (string, error) {
	switch m {
	case core.ModuleCaseStudy:
		return k.CaseStudy, nil
	case core.ModulePresentation:
		return k.Presentation, nil
	}
	return "", fmt.Errorf("module %s has no stored draft", m)
}

type TemplateConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
}

// ExportConfig chooses the export destination.
type ExportConfig struct {
	Dir string   `mapstructure:"dir" yaml:"dir,omitempty"`
	S3  S3Config `mapstructure:"s3" yaml:"s3,omitempty"`
}

type S3Config struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled,omitempty"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	Region    string `mapstructure:"region" yaml:"region,omitempty"`
	Bucket    string `mapstructure:"bucket" yaml:"bucket,omitempty"`
	Prefix    string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty"`
	UseSSL    bool   `mapstructure:"use_ssl" yaml:"use_ssl,omitempty"`
}

// BrandConfig is the branding shown on previews and exports.
type BrandConfig struct {
	Name    string `mapstructure:"name" yaml:"name,omitempty"`
	Tagline string `mapstructure:"tagline" yaml:"tagline,omitempty"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level,omitempty"`
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:          "http://localhost:5000",
		Timeout:         300 * time.Second,
		DefaultIndustry: core.DefaultIndustry,
		Storage: StorageConfig{
			Backend: "file",
			Dir:     defaultDataDir(),
			Keys: StorageKeys{
				CaseStudy:    "caseStudyForm",
				Presentation: "presentationForm",
			},
		},
		Templates: TemplateConfig{Dir: "data/templates"},
		Export:    ExportConfig{Dir: "."},
		Brand: BrandConfig{
			Name:    "CALANCE",
			Tagline: "Sales Edge",
		},
		Log: LogConfig{Level: "warn", Format: "text"},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sales-edge"
	}
	return filepath.Join(home, ".sales-edge")
}

// Load reads configuration. An empty path searches the working directory
// and then the home directory for FileName; a missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("default_industry", d.DefaultIndustry)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.keys.case_study", d.Storage.Keys.CaseStudy)
	v.SetDefault("storage.keys.presentation", d.Storage.Keys.Presentation)
	v.SetDefault("templates.dir", d.Templates.Dir)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.s3.enabled", false)
	v.SetDefault("export.s3.endpoint", "")
	v.SetDefault("export.s3.region", "us-east-1")
	v.SetDefault("export.s3.bucket", "")
	v.SetDefault("export.s3.prefix", "sales-edge")
	v.SetDefault("export.s3.access_key", "")
	v.SetDefault("export.s3.secret_key", "")
	v.SetDefault("export.s3.use_ssl", true)
	v.SetDefault("brand.name", d.Brand.Name)
	v.SetDefault("brand.tagline", d.Brand.Tagline)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return &core.ValidationError{Field: "api_url", Message: "required"}
	}
	if c.Timeout <= 0 {
		return &core.ValidationError{Field: "timeout", Message: "must be positive"}
	}
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return &core.ValidationError{Field: "storage.backend", Message: fmt.Sprintf("unknown backend %q", c.Storage.Backend)}
	}
	if c.Storage.Keys.CaseStudy == "" || c.Storage.Keys.Presentation == "" {
		return &core.ValidationError{Field: "storage.keys", Message: "both module keys are required"}
	}
	if c.Export.S3.Enabled && c.Export.S3.Bucket == "" {
		return &core.ValidationError{Field: "export.s3.bucket", Message: "required when s3 export is enabled"}
	}
	return nil
}

// HomePath is where the setup wizard writes its file.
func HomePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}
