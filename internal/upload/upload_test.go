package upload

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage simulates the object store with per-bucket failure modes.
type fakeStorage struct {
	missing   map[string]bool // buckets reporting not-found
	failing   map[string]bool // buckets failing with other errors
	urlBroken bool
	puts      []string // "bucket/path" in call order
}

func (f *fakeStorage) Put(bucket, path string, data []byte) error {
	f.puts = append(f.puts, bucket+"/"+path)
	if f.missing[bucket] {
		return fmt.Errorf("bucket %q: %w", bucket, ErrBucketNotFound)
	}
	if f.failing[bucket] {
		return errors.New("disk full")
	}
	return nil
}

func (f *fakeStorage) PublicURL(bucket, path string) (string, error) {
	if f.urlBroken {
		return "", errors.New("no public url")
	}
	return "https://cdn.test/" + bucket + "/" + path, nil
}

func TestUploadPrimaryBucket(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(fs)

	url := svc.Upload(File{Name: "me.jpg", Data: []byte("x")})

	assert.True(t, strings.HasPrefix(url, "https://cdn.test/user-uploads/"), "url: %s", url)
	assert.True(t, strings.HasSuffix(url, ".jpg"), "original extension is preserved: %s", url)
	require.Len(t, fs.puts, 1)
}

func TestUploadFallsBackToSecondary(t *testing.T) {
	fs := &fakeStorage{missing: map[string]bool{"user-uploads": true}}
	svc := NewService(fs)

	url := svc.Upload(File{Name: "me.jpg", Data: []byte("x")})

	assert.True(t, strings.HasPrefix(url, "https://cdn.test/public/"),
		"secondary bucket success must yield a real url, got %s", url)
	require.Len(t, fs.puts, 2)
	assert.True(t, strings.HasPrefix(fs.puts[0], "user-uploads/"))
	assert.True(t, strings.HasPrefix(fs.puts[1], "public/"))
}

func TestUploadFallsBackToTertiary(t *testing.T) {
	fs := &fakeStorage{missing: map[string]bool{"user-uploads": true, "public": true}}
	svc := NewService(fs)

	url := svc.Upload(File{Name: "me.jpg", Data: []byte("x")})

	assert.True(t, strings.HasPrefix(url, "https://cdn.test/avatars/"), "url: %s", url)
	require.Len(t, fs.puts, 3)
}

func TestUploadAllBucketsMissing(t *testing.T) {
	fs := &fakeStorage{missing: map[string]bool{"user-uploads": true, "public": true, "avatars": true}}
	svc := NewService(fs)

	url := svc.Upload(File{Name: "family photo.jpg", Data: []byte("x")})

	assert.True(t, strings.HasPrefix(url, "/placeholder.svg"), "url: %s", url)
	assert.Contains(t, url, "family+photo.jpg", "placeholder names the original file")
}

func TestUploadNonBucketErrorDoesNotFallBack(t *testing.T) {
	fs := &fakeStorage{failing: map[string]bool{"user-uploads": true}}
	svc := NewService(fs)

	url := svc.Upload(File{Name: "me.jpg", Data: []byte("x")})

	assert.True(t, strings.HasPrefix(url, "/placeholder.svg"), "url: %s", url)
	require.Len(t, fs.puts, 1, "only not-found failures advance to the next bucket")
}

func TestUploadPublicURLFailure(t *testing.T) {
	fs := &fakeStorage{urlBroken: true}
	svc := NewService(fs)

	url := svc.Upload(File{Name: "me.png", Data: []byte("x")})

	assert.True(t, strings.HasPrefix(url, "/placeholder.svg"), "url: %s", url)
	assert.Contains(t, url, "me.png")
}

func TestObjectNamesAreUnique(t *testing.T) {
	svc := NewService(&fakeStorage{})

	a := svc.objectName("me.jpg")
	b := svc.objectName("me.jpg")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
}
