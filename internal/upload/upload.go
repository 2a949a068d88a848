// Package upload stores customer photos in object storage. The service is
// best effort: every failure path still yields a usable URL, so a storage
// outage never blocks an order submission.
package upload

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"
)

// Bucket fallback order. Deployments that predate the dedicated uploads
// bucket only have the later ones; a missing bucket advances to the next.
var defaultBuckets = []string{"user-uploads", "public", "avatars"}

// ErrBucketNotFound marks the class of storage failure that triggers bucket
// fallback. Backends wrap it with errors.Is-compatible wrapping.
var ErrBucketNotFound = errors.New("bucket not found")

type File struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

// Storage is the object-store surface the service depends on.
type Storage interface {
	Put(bucket, path string, data []byte) error
	PublicURL(bucket, path string) (string, error)
}

type Service struct {
	storage Storage
	buckets []string
	now     func() time.Time
}

func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
		buckets: defaultBuckets,
		now:     time.Now,
	}
}

// Upload stores the file and returns its public URL. It never fails: when
// every bucket rejects the write, or the winning bucket cannot produce a
// URL, the caller gets a placeholder that still names the original file so
// the failure stays diagnosable. MIME type and size limits are enforced by
// the intake form before this is called.
func (s *Service) Upload(f File) string {
	name := s.objectName(f.Name)

	for _, bucket := range s.buckets {
		err := s.storage.Put(bucket, name, f.Data)
		if err == nil {
			publicURL, urlErr := s.storage.PublicURL(bucket, name)
			if urlErr != nil {
				slog.Error("Stored file but could not derive public URL", "bucket", bucket, "path", name, "error", urlErr)
				return Placeholder(f.Name)
			}
			return publicURL
		}
		if errors.Is(err, ErrBucketNotFound) {
			slog.Info("Bucket not found, trying next", "bucket", bucket, "file", f.Name)
			continue
		}
		slog.Error("Storage write failed", "bucket", bucket, "file", f.Name, "error", err)
		return Placeholder(f.Name)
	}

	slog.Error("All storage buckets failed", "file", f.Name)
	return Placeholder(f.Name)
}

// Placeholder is the degraded URL returned when storage is unavailable.
func Placeholder(originalName string) string {
	return "/placeholder.svg?height=300&width=300&text=" + url.QueryEscape(originalName)
}

// objectName builds a collision-resistant name preserving the original
// extension: unix millis, a random suffix, then ".jpg" etc.
func (s *Service) objectName(originalName string) string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Sprintf("%d%s", s.now().UnixNano(), filepath.Ext(originalName))
	}
	return fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), hex.EncodeToString(suffix), filepath.Ext(originalName))
}
