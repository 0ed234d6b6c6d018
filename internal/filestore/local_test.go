package filestore

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/trailmark/internal/config"
)

type bytesBody struct {
	*bytes.Reader
}

func (bytesBody) Close() error { return nil }

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store, err := New(config.FileStoreConfig{
		Type: "LOCAL",
		Data: map[string]interface{}{"dir": t.TempDir(), "public_url": "https://cdn.example/photos/"},
	})
	require.NoError(t, err)
	require.Equal(t, "local", store.Type())
	require.Equal(t, "https://cdn.example/photos/a.png", store.URL("a.png"))

	body := bytesBody{bytes.NewReader([]byte("blob"))}
	_, _ = body.Seek(2, io.SeekStart)
	require.NoError(t, store.Save(ctx, "a.png", body, 4))

	rc, err := store.Open(ctx, "a.png")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "blob", string(got))

	require.NoError(t, store.Delete(ctx, "a.png"))
	require.NoError(t, store.Delete(ctx, "a.png"))
	_, err = store.Open(ctx, "a.png")
	require.Error(t, err)

	require.Error(t, store.Save(ctx, "../escape.png", body, 4))
	require.Error(t, store.Delete(ctx, ".."))
}

func TestNewRejects(t *testing.T) {
	_, err := New(config.FileStoreConfig{})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "ftp", Data: map[string]interface{}{}})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "local"})
	require.Error(t, err)
	_, err = New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{}})
	require.Error(t, err)
}

func TestLocalDefaultURL(t *testing.T) {
	store, err := New(config.FileStoreConfig{Type: "local", Data: map[string]interface{}{"dir": t.TempDir()}})
	require.NoError(t, err)
	require.Equal(t, "/api/files/k.jpg", store.URL("k.jpg"))
}

func TestValidKey(t *testing.T) {
	require.True(t, ValidKey("abc.png"))
	for _, key := range []string{"", ".", "..", "a/b", `a\b`} {
		require.False(t, ValidKey(key), key)
	}
}
