// Package blob stores uploaded images and returns their public URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotImage  = errors.New("only image uploads are allowed")
	ErrTooLarge  = errors.New("upload exceeds the size limit")
	ErrBadFolder = errors.New("invalid upload folder")
)

// DefaultFolder is used when an upload names no folder.
const DefaultFolder = "uploads"

// Object describes a stored blob.
type Object struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Uploader is the blob storage capability used by the upload endpoint.
type Uploader interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (Object, error)
}

// IsImage reports whether contentType is an image media type.
func IsImage(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.HasPrefix(mt, "image/")
}

// LocalStore keeps blobs on the local filesystem under dir and serves them
// under baseURL.
type LocalStore struct {
	dir      string
	baseURL  string
	maxBytes int64
	now      func() time.Time
}

var _ Uploader = (*LocalStore)(nil)

func NewLocalStore(dir, baseURL string, maxBytes int64) *LocalStore {
	return &LocalStore{
		dir:      dir,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

func (s *LocalStore) Dir() string { return s.dir }

// Upload stores r as folder/<unix-ms>-<random>.<ext>. The extension follows
// contentType, never filename, so a stored blob is always served as an image.
func (s *LocalStore) Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (Object, error) {
	ext, ok := imageExtension(contentType)
	if !ok {
		return Object{}, ErrNotImage
	}
	folder, err := cleanFolder(folder)
	if err != nil {
		return Object{}, err
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)
	pathname := path.Join(folder, name)
	target := filepath.Join(s.dir, filepath.FromSlash(pathname))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create blob: %w", err)
	}
	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	n, err := io.Copy(f, readerWithContext(ctx, src))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxBytes > 0 && n > s.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(target)
		if errors.Is(err, ErrTooLarge) {
			return Object{}, err
		}
		return Object{}, fmt.Errorf("write blob: %w", err)
	}

	return Object{
		URL:         s.baseURL + "/" + pathname,
		Pathname:    pathname,
		Size:        n,
		ContentType: contentType,
	}, nil
}

func cleanFolder(folder string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return DefaultFolder, nil
	}
	clean := path.Clean(folder)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.ContainsAny(clean, `\:`) {
		return "", ErrBadFolder
	}
	return clean, nil
}

var imageExtensions = map[string]string{
	"image/png":                ".png",
	"image/jpeg":               ".jpg",
	"image/gif":                ".gif",
	"image/webp":               ".webp",
	"image/avif":               ".avif",
	"image/svg+xml":            ".svg",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
}

// imageExtension maps an image media type to the extension it is stored
// under. The extension must map back to an image type when served.
func imageExtension(contentType string) (string, bool) {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mt, "image/") {
		return "", false
	}
	if ext, ok := imageExtensions[mt]; ok {
		return ext, true
	}
	exts, _ := mime.ExtensionsByType(mt)
	for _, ext := range exts {
		if strings.HasPrefix(mime.TypeByExtension(ext), "image/") {
			return ext, true
		}
	}
	return "", false
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
