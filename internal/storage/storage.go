// Package storage provides durable object storage for blog bodies and images,
// backed by S3 with an in-memory fallback when the remote is unconfigured or
// unreachable. Backends are polymorphic over the same capability set so
// callers never know which is active.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"portfolio/internal/observability"
)

// Kind classifies storage failures so the API layer can map them to
// distinguishable HTTP statuses.
type Kind int

const (
	KindUnavailable Kind = iota // transport/unknown failure
	KindConfig                  // misconfiguration (bad bucket, missing settings)
	KindAccessDenied
	KindNotFound
)

// Error is a classified storage failure.
type Error struct {
	Kind Kind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("storage: %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("storage: %s", e.Key)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a missing-object storage error.
func IsNotFound(err error) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == KindNotFound
}

// KindOf extracts the failure kind, defaulting to KindUnavailable.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnavailable
}

// ObjectStore is the capability set both backends implement. Upload methods
// return a locator URL for the stored object.
type ObjectStore interface {
	UploadText(ctx context.Context, key, content string) (string, error)
	GetText(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	UploadBinary(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// TextKey normalizes a markdown body key under the blog/ prefix without
// double-prefixing.
func TextKey(key string) string {
	if strings.HasPrefix(key, "blog/") {
		return key
	}
	return "blog/" + key
}

// ImageKey normalizes an image key under the blog/images/ prefix.
func ImageKey(key string) string {
	if strings.HasPrefix(key, "blog/") {
		return key
	}
	if strings.HasPrefix(key, "images/") {
		return "blog/" + key
	}
	return "blog/images/" + key
}

// Store fronts the two backends. The remote backend is selected at startup
// when configuration is present; any remote failure falls back to the local
// store so requests keep working. Fallback content is per-process and is never
// reconciled with the remote.
type Store struct {
	remote ObjectStore
	local  *MemoryStore
	log    *slog.Logger
}

// NewStore builds a store front. remote may be nil, which pins the store in
// fallback mode.
func NewStore(remote ObjectStore, local *MemoryStore) *Store {
	if local == nil {
		local = NewMemoryStore("")
	}
	return &Store{
		remote: remote,
		local:  local,
		log:    slog.Default(),
	}
}

// FallbackMode reports whether no remote backend is configured.
func (s *Store) FallbackMode() bool {
	return s.remote == nil
}

// Fallback exposes the local store so the API can serve synthesized local
// URLs, and tests can reset state.
func (s *Store) Fallback() *MemoryStore {
	return s.local
}

// UploadText stores a markdown body. Idempotent upsert by key.
func (s *Store) UploadText(ctx context.Context, key, content string) (string, error) {
	key = TextKey(key)
	if s.remote != nil {
		locator, err := s.remote.UploadText(ctx, key, content)
		if err == nil {
			return locator, nil
		}
		s.log.Warn("remote text upload failed, using fallback store", "key", key, "error", err)
		observability.StorageFallbacks.WithLabelValues("upload_text").Inc()
	}
	return s.local.UploadText(ctx, key, content)
}

// GetText fetches a markdown body. A fallback copy is consulted when the
// remote fails or does not have the object.
func (s *Store) GetText(ctx context.Context, key string) (string, error) {
	key = TextKey(key)
	if s.remote == nil {
		return s.local.GetText(ctx, key)
	}

	content, err := s.remote.GetText(ctx, key)
	if err == nil {
		return content, nil
	}
	if local, lerr := s.local.GetText(ctx, key); lerr == nil {
		observability.StorageFallbacks.WithLabelValues("get_text").Inc()
		return local, nil
	}
	return "", err
}

// Delete removes an object from whichever backends hold it. Missing keys are
// not an error; remote failures are logged and swallowed.
func (s *Store) Delete(ctx context.Context, key string) error {
	key = TextKey(key)
	if s.remote != nil {
		if err := s.remote.Delete(ctx, key); err != nil {
			s.log.Warn("remote delete failed", "key", key, "error", err)
		}
	}
	return s.local.Delete(ctx, key)
}

// UploadBinary stores an image or other binary object.
func (s *Store) UploadBinary(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = ImageKey(key)
	if s.remote != nil {
		locator, err := s.remote.UploadBinary(ctx, key, data, contentType)
		if err == nil {
			return locator, nil
		}
		s.log.Warn("remote binary upload failed, using fallback store", "key", key, "error", err)
		observability.StorageFallbacks.WithLabelValues("upload_binary").Inc()
	}
	return s.local.UploadBinary(ctx, key, data, contentType)
}
