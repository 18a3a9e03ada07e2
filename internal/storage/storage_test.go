package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore simulates a remote backend whose every call fails.
type failingStore struct {
	err error
}

func (f *failingStore) UploadText(context.Context, string, string) (string, error) {
	return "", f.err
}

func (f *failingStore) GetText(context.Context, string) (string, error) {
	return "", f.err
}

func (f *failingStore) Delete(context.Context, string) error {
	return f.err
}

func (f *failingStore) UploadBinary(context.Context, string, []byte, string) (string, error) {
	return "", f.err
}

func TestTextKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"post.md", "blog/post.md"},
		{"blog/post.md", "blog/post.md"},
		{"nested/post.md", "blog/nested/post.md"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TextKey(tt.in))
	}
}

func TestImageKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"cover.png", "blog/images/cover.png"},
		{"images/cover.png", "blog/images/cover.png"},
		{"blog/images/cover.png", "blog/images/cover.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ImageKey(tt.in))
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("")

	locator, err := m.UploadText(ctx, "blog/hello.md", "# Hello")
	require.NoError(t, err)
	assert.Equal(t, "/api/storage/blog/hello.md", locator)

	content, err := m.GetText(ctx, "blog/hello.md")
	require.NoError(t, err)
	assert.Equal(t, "# Hello", content)

	// upsert by key
	_, err = m.UploadText(ctx, "blog/hello.md", "# Updated")
	require.NoError(t, err)
	content, err = m.GetText(ctx, "blog/hello.md")
	require.NoError(t, err)
	assert.Equal(t, "# Updated", content)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryStoreBinary(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("http://localhost:8080")

	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01}
	locator, err := m.UploadBinary(ctx, "blog/images/a.png", payload, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/storage/blog/images/a.png", locator)

	data, contentType, ok := m.Object("blog/images/a.png")
	require.True(t, ok)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/png", contentType)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	m := NewMemoryStore("")

	_, err := m.GetText(context.Background(), "blog/missing.md")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestMemoryStoreDeleteMissing(t *testing.T) {
	m := NewMemoryStore("")
	assert.NoError(t, m.Delete(context.Background(), "blog/missing.md"))
}

func TestStoreFallbackMode(t *testing.T) {
	assert.True(t, NewStore(nil, nil).FallbackMode())
	assert.False(t, NewStore(&failingStore{err: errors.New("down")}, nil).FallbackMode())
}

func TestStoreFallsBackOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	remoteErr := &Error{Kind: KindUnavailable, Key: "blog/post.md", Err: errors.New("connection refused")}
	store := NewStore(&failingStore{err: remoteErr}, nil)

	// upload lands in the fallback store
	locator, err := store.UploadText(ctx, "post.md", "# Body")
	require.NoError(t, err)
	assert.Equal(t, "/api/storage/blog/post.md", locator)
	assert.Equal(t, 1, store.Fallback().Len())

	// read finds the fallback copy even though the remote still errors
	content, err := store.GetText(ctx, "post.md")
	require.NoError(t, err)
	assert.Equal(t, "# Body", content)
}

func TestStoreGetPropagatesRemoteErrorWhenNoLocalCopy(t *testing.T) {
	remoteErr := &Error{Kind: KindAccessDenied, Key: "blog/secret.md"}
	store := NewStore(&failingStore{err: remoteErr}, nil)

	_, err := store.GetText(context.Background(), "secret.md")
	require.Error(t, err)
	assert.Equal(t, KindAccessDenied, KindOf(err))
}

func TestStoreDeleteSwallowsRemoteFailure(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&failingStore{err: errors.New("down")}, nil)

	_, err := store.UploadText(ctx, "post.md", "# Body")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "post.md"))
	assert.Equal(t, 0, store.Fallback().Len())
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, KindUnavailable, KindOf(errors.New("plain error")))
	assert.False(t, IsNotFound(errors.New("plain error")))
}
