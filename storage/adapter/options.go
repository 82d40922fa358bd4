package adapter

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/encrypt"
)

// Metadata keys understood by the S3 adapter.
const (
	MetaACL          = "ACL"
	MetaStorage      = "storage"
	MetaMeta         = "meta"
	MetaCacheControl = "CacheControl"
	MetaEncryption   = "encryption"
	MetaContentType  = "contentType"
)

const EncryptionAES256 = "AES256"

const aclHeader = "x-amz-acl"

func putObjectOptions(md map[string]any) minio.PutObjectOptions {
	opts := minio.PutObjectOptions{}

	if v, ok := md[MetaContentType].(string); ok {
		opts.ContentType = v
	}

	if v, ok := md[MetaCacheControl].(string); ok {
		opts.CacheControl = v
	}

	if v, ok := md[MetaStorage].(string); ok {
		opts.StorageClass = v
	}

	if meta, ok := md[MetaMeta].(map[string]string); ok && len(meta) > 0 {
		opts.UserMetadata = make(map[string]string, len(meta)+1)
		for k, v := range meta {
			opts.UserMetadata[k] = v
		}
	}

	if v, ok := md[MetaACL].(string); ok && v != "" {
		if opts.UserMetadata == nil {
			opts.UserMetadata = make(map[string]string, 1)
		}
		opts.UserMetadata[aclHeader] = v
	}

	if v, ok := md[MetaEncryption].(string); ok && v == EncryptionAES256 {
		opts.ServerSideEncryption = encrypt.NewSSE()
	}

	return opts
}
