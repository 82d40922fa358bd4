package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func validConfig() *Config {
	return &Config{
		Debug: true,
		Server: Server{
			Address: "127.0.0.1",
			Port:    8080,
			Limits: ServerLimits{
				MaxFileSize:     1,
				MaxMultipartMem: 1,
			},
		},
		Media: Media{
			PathPattern: "{year}/{month}/{filename}",
			Providers: []Provider{
				{
					Name: "image",
					Filesystem: Adapter{
						Strategy: "s3",
						S3: &S3Adapter{
							AccessKeyId: "key",
							SecretKeyId: "secret",
							Region:      "us-east-1",
							Bucket:      "bucket",
							Endpoint:    "https://s3.example.com",
							PublicUrl:   "https://cdn.example.com",
						},
					},
				},
				{
					Name: "file",
					Filesystem: Adapter{
						Strategy: "local",
						Local: &LocalAdapter{
							Path:      "/var/lib/scribble-media",
							PublicUrl: "https://example.org/uploads",
						},
					},
				},
			},
			Metadata: Metadata{
				S3: S3Metadata{
					Acl:          "public",
					Storage:      "standard",
					CacheControl: "max-age=86400",
				},
			},
		},
		Catalog: Catalog{
			Strategy: "noop",
		},
	}
}

func TestValidate_Success(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
}

func TestValidate_FailsForRelativeLocalPath(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Providers[1].Filesystem.Local.Path = "relative/path"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for relative local path")
	}
}

func TestValidate_FailsWithoutProviders(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Providers = nil

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail without providers")
	}
}

func TestValidate_FailsForDuplicateProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Providers[1].Name = "image"

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate provider error, got %v", err)
	}
}

func TestValidate_FailsForInvalidProviderName(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Providers[0].Name = "has spaces"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for invalid provider name")
	}
}

func TestValidate_FailsForMissingStrategyBlock(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Providers[0].Filesystem.S3 = nil

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail when s3 block is missing")
	}
}

func TestValidate_Replicate(t *testing.T) {
	t.Run("valid nested adapters", func(t *testing.T) {
		cfg := validConfig()
		cfg.Media.Providers[0].Filesystem = Adapter{
			Strategy: "replicate",
			Replicate: &ReplicateAdapter{
				Primary:   validConfig().Media.Providers[0].Filesystem,
				Secondary: validConfig().Media.Providers[1].Filesystem,
			},
		}

		if err := cfg.Validate(); err != nil {
			t.Fatalf("expected replicate config to validate, got %v", err)
		}
	})

	t.Run("invalid nested adapter", func(t *testing.T) {
		cfg := validConfig()
		cfg.Media.Providers[0].Filesystem = Adapter{
			Strategy: "replicate",
			Replicate: &ReplicateAdapter{
				Primary:   validConfig().Media.Providers[0].Filesystem,
				Secondary: Adapter{Strategy: "ftp"},
			},
		}

		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected validation to fail for unknown nested strategy")
		}
	})
}

func TestValidate_MetadataSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Metadata.S3.Acl = "everyone"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for unknown acl")
	}

	cfg = validConfig()
	cfg.Media.Metadata.S3.Encryption = "rot13"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for unknown encryption")
	}
}

func TestValidate_SQLCatalog(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Strategy = "sql"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail without sql block")
	}

	cfg.Catalog.SQL = &SQLCatalog{Driver: "postgres", DSN: "postgres://localhost/media"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected sql catalog to validate, got %v", err)
	}

	bad := "bad-prefix"
	cfg.Catalog.SQL.TablePrefix = &bad
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for invalid table prefix")
	}
}

func TestValidate_PathPatternTraversal(t *testing.T) {
	cfg := validConfig()
	cfg.Media.PathPattern = "../etc/passwd"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for path traversal pattern")
	}
}

func TestLoadConfig_Success(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yml")

	yaml := `debug: true
server:
  address: "127.0.0.1"
  port: 8080
  limits:
    max_file_size: 1
    max_multipart_mem: 1
media:
  path_pattern: "{year}/{filename}"
  metadata:
    s3:
      acl: "private"
      storage: "reduced"
      cache_control: "max-age=3600"
      encryption: "aes256"
      meta:
        owner: "scribble"
  providers:
    - name: "image"
      filesystem:
        strategy: "replicate"
        replicate:
          primary:
            strategy: "s3"
            s3:
              access_key_id: "key"
              secret_key_id: "secret"
              region: "us-east-1"
              bucket: "bucket"
          secondary:
            strategy: "local"
            local:
              path: "/srv/media"
              public_url: "https://example.org/media"
catalog:
  strategy: "sql"
  sql:
    driver: "mysql"
    dsn: "user:pass@tcp(localhost:3306)/media"
`

	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	p := cfg.Media.Providers[0]
	if p.Name != "image" || p.Filesystem.Replicate == nil {
		t.Fatalf("expected replicate provider, got %+v", p)
	}
	if p.Filesystem.Replicate.Primary.S3 == nil || p.Filesystem.Replicate.Primary.S3.Bucket != "bucket" {
		t.Fatalf("unexpected primary adapter: %+v", p.Filesystem.Replicate.Primary)
	}
	if p.Filesystem.Replicate.Secondary.Local == nil || p.Filesystem.Replicate.Secondary.Local.Path != "/srv/media" {
		t.Fatalf("unexpected secondary adapter: %+v", p.Filesystem.Replicate.Secondary)
	}
	if cfg.Media.Metadata.S3.Meta["owner"] != "scribble" {
		t.Fatalf("unexpected metadata meta: %+v", cfg.Media.Metadata.S3.Meta)
	}
	if cfg.Catalog.SQL == nil || cfg.Catalog.SQL.Driver != "mysql" {
		t.Fatalf("unexpected catalog: %+v", cfg.Catalog)
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	yaml := `server:
  port: 8080
  limits:
    max_file_size: 1
    max_multipart_mem: 1
media:
  providers:
    - name: "file"
      filesystem:
        strategy: "local"
        local:
          path: "/srv/files"
          public_url: "https://example.org/files"
catalog:
  strategy: "sql"
  sql:
    driver: "postgres"
`

	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	t.Setenv("SCRIBBLE_MEDIA_SERVER_ADDRESS", "0.0.0.0")
	t.Setenv("SCRIBBLE_MEDIA_SERVER_PORT", "9090")
	t.Setenv("SCRIBBLE_MEDIA_CATALOG_SQL_DSN", "postgres://media@db/media")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.Server.Address != "0.0.0.0" {
		t.Fatalf("expected address from environment, got %q", cfg.Server.Address)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.SQL.DSN != "postgres://media@db/media" {
		t.Fatalf("expected dsn from environment, got %q", cfg.Catalog.SQL.DSN)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yml")
	if err == nil {
		t.Fatalf("expected error when config file is missing")
	}
	if !strings.Contains(err.Error(), "/nonexistent/config.yml") {
		t.Fatalf("expected error to name the file, got %v", err)
	}
}

func TestLoadConfig_InvalidConfigIsWrapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("server:\n  port: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if !strings.HasPrefix(err.Error(), "invalid config") {
		t.Fatalf("unexpected error: %v", err)
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected wrapped validation errors, got %T", err)
	}
}

func TestCustomValidators(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("abspath", ValidateAbsPath)
	v.RegisterValidation("identifier", ValidateIdentifier)

	type sample struct {
		Abs   string `validate:"abspath"`
		Ident string `validate:"identifier"`
	}

	abs := filepath.Join(t.TempDir(), "file.txt")

	if err := v.Struct(sample{Abs: abs, Ident: "image_2"}); err != nil {
		t.Fatalf("expected validator to accept values: %v", err)
	}

	if err := v.Struct(sample{Abs: "relative", Ident: "2image"}); err == nil {
		t.Fatalf("expected validator to reject invalid values")
	}
}

func TestValidatePathPattern(t *testing.T) {
	v := validator.New()
	v.RegisterValidation("pathpattern", ValidatePathPattern)

	type testStruct struct {
		Pattern string `validate:"pathpattern"`
	}

	tests := []struct {
		name    string
		pattern string
		valid   bool
	}{
		{"empty pattern", "", true},
		{"flat pattern", "{filename}", true},
		{"nested pattern", "{year}/{month}/{filename}", true},
		{"path traversal with ..", "../etc/passwd", false},
		{"path traversal in middle", "media/../config", false},
		{"absolute unix path", "/etc/passwd", false},
		{"absolute windows path", "C:/Windows", false},
		{"null byte", "media/\x00evil", false},
		{"complex valid pattern", "{year}/{month}/{day}/{slug}{ext}", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(testStruct{Pattern: tc.pattern})
			if tc.valid && err != nil {
				t.Errorf("expected pattern %q to be valid, got error: %v", tc.pattern, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("expected pattern %q to be invalid, but validation passed", tc.pattern)
			}
		})
	}
}
