package metadata

import (
	"maps"
	"mime"
	"path"

	"github.com/indieinfra/scribble-media/config"
	"github.com/indieinfra/scribble-media/media"
	"github.com/indieinfra/scribble-media/storage/adapter"
)

var cannedACLs = map[string]string{
	"private":            "private",
	"public":             "public-read",
	"open":               "public-read-write",
	"auth_read":          "authenticated-read",
	"owner_read":         "bucket-owner-read",
	"owner_full_control": "bucket-owner-full-control",
}

var storageClasses = map[string]string{
	"standard": "STANDARD",
	"reduced":  "REDUCED_REDUNDANCY",
}

// S3Settings configures the object storage builder. Empty fields fall back to
// a public-read ACL and standard storage.
type S3Settings struct {
	ACL          string
	Storage      string
	CacheControl string
	Encryption   string
	Meta         map[string]string
}

func S3SettingsFromConfig(cfg config.S3Metadata) S3Settings {
	return S3Settings{
		ACL:          cfg.Acl,
		Storage:      cfg.Storage,
		CacheControl: cfg.CacheControl,
		Encryption:   cfg.Encryption,
		Meta:         cfg.Meta,
	}
}

// S3Builder produces headers for S3 compatible object storage: canned ACL,
// storage class, cache control, server side encryption, user metadata and a
// content type guessed from the filename.
type S3Builder struct {
	defaults map[string]any
}

func NewS3Builder(settings S3Settings) *S3Builder {
	if settings.ACL == "" {
		settings.ACL = "public"
	}
	if settings.Storage == "" {
		settings.Storage = "standard"
	}

	defaults := map[string]any{}

	if acl, ok := cannedACLs[settings.ACL]; ok {
		defaults[adapter.MetaACL] = acl
	}

	if class, ok := storageClasses[settings.Storage]; ok {
		defaults[adapter.MetaStorage] = class
	}

	if len(settings.Meta) > 0 {
		defaults[adapter.MetaMeta] = maps.Clone(settings.Meta)
	}

	if settings.CacheControl != "" {
		defaults[adapter.MetaCacheControl] = settings.CacheControl
	}

	if settings.Encryption == "aes256" {
		defaults[adapter.MetaEncryption] = adapter.EncryptionAES256
	}

	return &S3Builder{defaults: defaults}
}

func (b *S3Builder) Get(m media.Media, filename string) map[string]any {
	out := make(map[string]any, len(b.defaults)+1)
	for k, v := range b.defaults {
		if meta, ok := v.(map[string]string); ok {
			v = maps.Clone(meta)
		}
		out[k] = v
	}

	if ct := mime.TypeByExtension(path.Ext(filename)); ct != "" {
		out[adapter.MetaContentType] = ct
	}

	return out
}
