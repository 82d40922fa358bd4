// Package adapter contains the storage backends media files are written to.
//
// The set of adapters is closed: Local, S3 and Replicate. Callers that need
// backend specific behaviour switch on Kind rather than on Go types.
package adapter

import (
	"context"
	"errors"
	"io"
)

// ErrObjectExists is returned by adapters that refuse to replace an existing
// object.
var ErrObjectExists = errors.New("object already exists")

// Kind identifies an adapter variant.
type Kind int

const (
	KindLocal Kind = iota
	KindObjectStorage
	KindReplicate
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindObjectStorage:
		return "s3"
	case KindReplicate:
		return "replicate"
	default:
		return "unknown"
	}
}

// Adapter is a storage backend addressed by object key.
type Adapter interface {
	Kind() Kind

	// Write stores the contents of r under key. The metadata map is the
	// output of a metadata builder; adapters ignore keys they do not support.
	Write(ctx context.Context, key string, r io.Reader, size int64, metadata map[string]any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public location of key.
	URL(key string) string

	sealed()
}

// Classify returns the kind used to pick backend specific behaviour for a.
// A replicate adapter is classified by its primary child. Only one level is
// unwrapped, so a replicate nested as a primary classifies as KindReplicate.
func Classify(a Adapter) Kind {
	switch a.Kind() {
	case KindReplicate:
		return a.(*Replicate).Primary().Kind()
	default:
		return a.Kind()
	}
}
