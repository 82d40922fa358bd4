package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("abspath", ValidateAbsPath)
	validate.RegisterValidation("identifier", ValidateIdentifier)
	validate.RegisterValidation("pathpattern", ValidatePathPattern)

	if err := validate.Struct(c); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Media.Providers))
	for _, p := range c.Media.Providers {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("duplicate media provider %q", p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	return nil
}

// envKeys are the scalar settings that may be supplied or overridden from the
// environment, e.g. SCRIBBLE_MEDIA_CATALOG_SQL_DSN. Provider lists are read
// from the file only.
var envKeys = []string{
	"debug",
	"server.address",
	"server.port",
	"server.limits.max_file_size",
	"server.limits.max_multipart_mem",
	"media.path_pattern",
	"media.metadata.s3.acl",
	"media.metadata.s3.storage",
	"media.metadata.s3.cache_control",
	"media.metadata.s3.encryption",
	"catalog.strategy",
	"catalog.sql.driver",
	"catalog.sql.dsn",
	"catalog.sql.table_prefix",
}

func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SCRIBBLE_MEDIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", file, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %q: %w", file, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", file, err)
	}

	return &cfg, nil
}
