// Package config loads runner configuration from an optional YAML file and
// CLOUDINFO_* environment variables. Module parameters always win over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CLOUDINFO_AWS_REGION.
const EnvPrefix = "CLOUDINFO"

type (
	// Config is the resolved runner configuration.
	Config struct {
		Log        LogConfig       `mapstructure:"log"`
		AWS        AWSConfig       `mapstructure:"aws"`
		Normalize  NormalizeConfig `mapstructure:"normalize"`
		Checkly    RESTConfig      `mapstructure:"checkly"`
		StatusCake RESTConfig      `mapstructure:"statuscake"`
		Minio      MinioConfig     `mapstructure:"minio"`
	}

	// LogConfig configures the stderr logger and the optional rotating file.
	LogConfig struct {
		Level      string `mapstructure:"level"`
		Format     string `mapstructure:"format"`
		File       string `mapstructure:"file"`
		MaxSizeMB  int    `mapstructure:"max_size_mb"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAgeDays int    `mapstructure:"max_age_days"`
	}

	// AWSConfig holds connection defaults for the AWS modules.
	AWSConfig struct {
		Region      string `mapstructure:"region"`
		Profile     string `mapstructure:"profile"`
		EndpointURL string `mapstructure:"endpoint_url"`
		MaxAttempts int    `mapstructure:"max_attempts"`
		RetryMode   string `mapstructure:"retry_mode"`
	}

	// NormalizeConfig tunes the response normalizer.
	NormalizeConfig struct {
		MissingField string `mapstructure:"missing_field"`
	}

	// RESTConfig holds defaults for an API-key REST provider.
	RESTConfig struct {
		BaseURL   string `mapstructure:"base_url"`
		APIKey    string `mapstructure:"api_key"`
		AccountID string `mapstructure:"account_id"`
		PageSize  int    `mapstructure:"page_size"`
	}

	// MinioConfig holds defaults for the Minio modules.
	MinioConfig struct {
		URL       string `mapstructure:"url"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
		Region    string `mapstructure:"region"`
	}
)

// NewViper creates a Viper instance with cloudinfo's defaults, search paths
// and environment binding. An explicit path replaces the search.
func NewViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("cloudinfo")
		v.SetConfigType("yaml")
		for _, dir := range configDirs() {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration. A missing file is fine unless path was given
// explicitly.
func Load(path string) (*Config, error) {
	v := NewViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("aws.region", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("aws.endpoint_url", "")
	v.SetDefault("aws.max_attempts", 5)
	v.SetDefault("aws.retry_mode", "standard")

	v.SetDefault("normalize.missing_field", "skip")

	v.SetDefault("checkly.base_url", "https://api.checklyhq.com")
	v.SetDefault("checkly.api_key", "")
	v.SetDefault("checkly.account_id", "")
	v.SetDefault("checkly.page_size", 100)

	v.SetDefault("statuscake.base_url", "https://api.statuscake.com")
	v.SetDefault("statuscake.api_key", "")
	v.SetDefault("statuscake.account_id", "")
	v.SetDefault("statuscake.page_size", 100)

	v.SetDefault("minio.url", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.region", "us-east-1")
}

// configDirs returns the XDG-style directories searched for cloudinfo.yaml.
func configDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "cloudinfo"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "cloudinfo"))
	}
	return dirs
}
