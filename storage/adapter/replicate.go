package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"golang.org/x/sync/errgroup"
)

// Replicate writes every object to two adapters. Reads, existence checks and
// public URLs are served by the primary.
type Replicate struct {
	primary   Adapter
	secondary Adapter
}

func NewReplicate(primary, secondary Adapter) (*Replicate, error) {
	if primary == nil || secondary == nil {
		return nil, fmt.Errorf("replicate adapter requires a primary and a secondary")
	}

	return &Replicate{primary: primary, secondary: secondary}, nil
}

func (r *Replicate) Kind() Kind { return KindReplicate }

func (r *Replicate) sealed() {}

func (r *Replicate) Primary() Adapter { return r.primary }

func (r *Replicate) Secondary() Adapter { return r.secondary }

// Write streams src to both children at once. If either side fails, the copy
// written by the other side is removed so the pair never diverges. A child
// whose own write failed is left alone, which keeps an object that was already
// there when the child refused to overwrite it.
func (r *Replicate) Write(ctx context.Context, key string, src io.Reader, size int64, metadata map[string]any) error {
	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	var primaryWrote, secondaryWrote bool

	g.Go(func() error {
		err := r.secondary.Write(gctx, key, pr, size, metadata)
		if err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("secondary %s write: %w", r.secondary.Kind(), err)
		}
		secondaryWrote = true

		// Unblock the primary if the secondary returned before EOF.
		_, _ = io.Copy(io.Discard, pr)
		return nil
	})

	g.Go(func() error {
		err := r.primary.Write(gctx, key, io.TeeReader(src, pw), size, metadata)
		pw.CloseWithError(err)
		if err != nil {
			return fmt.Errorf("primary %s write: %w", r.primary.Kind(), err)
		}
		primaryWrote = true
		return nil
	})

	if err := g.Wait(); err != nil {
		cleanupCtx := context.WithoutCancel(ctx)
		if primaryWrote {
			if cleanupErr := r.primary.Delete(cleanupCtx, key); cleanupErr != nil {
				log.Printf("replicate cleanup of primary %q failed: %v", key, cleanupErr)
			}
		}
		if secondaryWrote {
			if cleanupErr := r.secondary.Delete(cleanupCtx, key); cleanupErr != nil {
				log.Printf("replicate cleanup of secondary %q failed: %v", key, cleanupErr)
			}
		}
		return err
	}

	return nil
}

func (r *Replicate) Delete(ctx context.Context, key string) error {
	return errors.Join(r.primary.Delete(ctx, key), r.secondary.Delete(ctx, key))
}

func (r *Replicate) Exists(ctx context.Context, key string) (bool, error) {
	return r.primary.Exists(ctx, key)
}

func (r *Replicate) URL(key string) string {
	return r.primary.URL(key)
}
