package config

type Config struct {
	Debug   bool    `mapstructure:"debug"`
	Server  Server  `mapstructure:"server"`
	Media   Media   `mapstructure:"media"`
	Catalog Catalog `mapstructure:"catalog"`
}

type Server struct {
	Address string       `mapstructure:"address" validate:"required,hostname|ip"`
	Port    int          `mapstructure:"port" validate:"required,min=1,max=65535"`
	Limits  ServerLimits `mapstructure:"limits"`
}

type ServerLimits struct {
	MaxFileSize     uint `mapstructure:"max_file_size" validate:"required"`
	MaxMultipartMem uint `mapstructure:"max_multipart_mem" validate:"required"`
}

type Media struct {
	PathPattern string     `mapstructure:"path_pattern" validate:"pathpattern"`
	Providers   []Provider `mapstructure:"providers" validate:"required,min=1,dive"`
	Metadata    Metadata   `mapstructure:"metadata"`
}

// Provider binds a media category (image, file, ...) to the filesystem its
// files are written to.
type Provider struct {
	Name       string  `mapstructure:"name" validate:"required,identifier"`
	Filesystem Adapter `mapstructure:"filesystem"`
}

// Adapter describes one storage backend. A replicate adapter nests two more.
type Adapter struct {
	Strategy  string            `mapstructure:"strategy" validate:"required,oneof=local s3 replicate"`
	Local     *LocalAdapter     `mapstructure:"local" validate:"required_if=Strategy local"`
	S3        *S3Adapter        `mapstructure:"s3" validate:"required_if=Strategy s3"`
	Replicate *ReplicateAdapter `mapstructure:"replicate" validate:"required_if=Strategy replicate"`
}

type LocalAdapter struct {
	Path      string `mapstructure:"path" validate:"required,abspath"`
	PublicUrl string `mapstructure:"public_url" validate:"required,url"`
}

type S3Adapter struct {
	AccessKeyId    string `mapstructure:"access_key_id" validate:"required"`
	SecretKeyId    string `mapstructure:"secret_key_id" validate:"required"`
	Region         string `mapstructure:"region"`
	Bucket         string `mapstructure:"bucket" validate:"required"`
	Endpoint       string `mapstructure:"endpoint" validate:"omitempty,url"`
	Prefix         string `mapstructure:"prefix"`
	PublicUrl      string `mapstructure:"public_url" validate:"omitempty,url"`
	ForcePathStyle bool   `mapstructure:"force_path_style"`
	DisableSSL     bool   `mapstructure:"disable_ssl"`
}

type ReplicateAdapter struct {
	Primary   Adapter `mapstructure:"primary"`
	Secondary Adapter `mapstructure:"secondary"`
}

type Metadata struct {
	S3 S3Metadata `mapstructure:"s3"`
}

type S3Metadata struct {
	Acl          string            `mapstructure:"acl" validate:"omitempty,oneof=private public open auth_read owner_read owner_full_control"`
	Storage      string            `mapstructure:"storage" validate:"omitempty,oneof=standard reduced"`
	CacheControl string            `mapstructure:"cache_control"`
	Encryption   string            `mapstructure:"encryption" validate:"omitempty,oneof=aes256"`
	Meta         map[string]string `mapstructure:"meta"`
}

type Catalog struct {
	Strategy string      `mapstructure:"strategy" validate:"required,oneof=noop memory sql"`
	SQL      *SQLCatalog `mapstructure:"sql" validate:"required_if=Strategy sql"`
}

type SQLCatalog struct {
	Driver      string  `mapstructure:"driver" validate:"required,oneof=postgres mysql"`
	DSN         string  `mapstructure:"dsn" validate:"required"`
	TablePrefix *string `mapstructure:"table_prefix" validate:"omitempty,identifier"`
}
