package upload

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// LocalStorage keeps uploads on disk under baseDir/<bucket>/. Only bucket
// directories that already exist accept writes, which gives the fallback
// chain the same shape it has against a remote object store.
type LocalStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage serves files from baseDir at baseURL + /static/uploads/.
// It creates the primary bucket directory so a fresh checkout works.
func NewLocalStorage(baseDir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, defaultBuckets[0]), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (l *LocalStorage) Put(bucket, path string, data []byte) error {
	dir := filepath.Join(l.baseDir, bucket)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("bucket %q: %w", bucket, ErrBucketNotFound)
	}
	return os.WriteFile(filepath.Join(dir, filepath.Base(path)), optimize(path, data), 0o644)
}

func (l *LocalStorage) PublicURL(bucket, path string) (string, error) {
	return l.baseURL + "/static/uploads/" + bucket + "/" + filepath.Base(path), nil
}

// Photos only ever feed on-screen previews and the fulfillment pipeline, so
// anything wider than this gets downscaled on write.
const maxImageWidth = 1200

// optimize downscales large JPEG/PNG uploads. On any decode trouble the
// original bytes are stored untouched.
func optimize(path string, data []byte) []byte {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case ".png":
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return data
	}
	if err != nil || img.Bounds().Dx() <= maxImageWidth {
		return data
	}

	scaled := resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if strings.ToLower(filepath.Ext(path)) == ".png" {
		err = png.Encode(&buf, scaled)
	} else {
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 80})
	}
	if err != nil {
		return data
	}
	return buf.Bytes()
}
