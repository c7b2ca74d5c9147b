package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for key, data := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	return out, nil
}

func (m *memoryStorage) DownloadObject(ctx context.Context, key, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(destPath, m.objects[key], 0o644)
}

func (m *memoryStorage) UploadObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func TestDownloaderFiltersByExtension(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{
		"records/2025/06.json": []byte(`[]`),
		"records/2025/05.json": []byte(`[]`),
		"records/readme.txt":   []byte(`hi`),
		"reports/x.xlsx":       []byte(`x`),
	}}
	dir := t.TempDir()
	d, err := NewDownloader(store, dir)
	require.NoError(t, err)

	paths, err := d.Download(context.Background(), "records/", "", ".json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "2025/05.json"),
		filepath.Join(dir, "2025/06.json"),
	}, paths)

	_, err = d.Download(context.Background(), "reports/", "", ".json")
	assert.Error(t, err)
}

func TestDownloaderOverride(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{"records/june.json": []byte(`[]`)}}
	d, err := NewDownloader(store, t.TempDir())
	require.NoError(t, err)

	paths, err := d.Download(context.Background(), "records", "june.json", ".json")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "june.json", filepath.Base(paths[0]))
}

func TestResolveObjectKey(t *testing.T) {
	assert.Equal(t, "records/june.json", ResolveObjectKey("records/", "/june.json"))
	assert.Equal(t, "records/june.json", ResolveObjectKey("records", "records/june.json"))
	assert.Equal(t, "june.json", ResolveObjectKey("", "/june.json"))
	assert.Equal(t, "records", ResolveObjectKey(" records ", ""))
}

func TestNormalizeEndpoint(t *testing.T) {
	endpoint, secure := normalizeEndpoint("https://s3.example.com/", false)
	assert.Equal(t, "s3.example.com", endpoint)
	assert.True(t, secure)

	endpoint, secure = normalizeEndpoint("http://localhost:9000", true)
	assert.Equal(t, "localhost:9000", endpoint)
	assert.False(t, secure)

	endpoint, secure = normalizeEndpoint("minio:9000", true)
	assert.Equal(t, "minio:9000", endpoint)
	assert.True(t, secure)
}
