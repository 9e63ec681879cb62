// Package storage persists uploaded images either in S3 or on local disk.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/twinj/uuid"
)

// MaxUploadBytes bounds the size of a single image upload.
const MaxUploadBytes = 10 << 20

var ErrNotImage = errors.New("upload is not a supported image")

// Uploader stores objects under a key and resolves the public URL of a key.
type Uploader interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Size is the target box an image is cropped to.
type Size struct {
	Width  int
	Height int
}

var (
	PostImageSize = Size{Width: 960, Height: 339}
	AvatarSize    = Size{Width: 300, Height: 300}
)

// ProcessImage decodes r, crops it to fill size around the centre and
// re-encodes it as JPEG.
func ProcessImage(r io.Reader, size Size) ([]byte, error) {
	src, err := imaging.Decode(io.LimitReader(r, MaxUploadBytes), imaging.AutoOrientation(true))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrNotImage
		}
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	dst := imaging.Fill(src, size.Width, size.Height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// NewKey returns a unique object key under prefix.
func NewKey(prefix string) string {
	return path.Join(prefix, uuid.NewV4().String()+".jpg")
}

// SaveImage processes r and stores it under a fresh key in prefix.
func SaveImage(ctx context.Context, u Uploader, prefix string, r io.Reader, size Size) (string, error) {
	body, err := ProcessImage(r, size)
	if err != nil {
		return "", err
	}
	key := NewKey(prefix)
	if err := u.Put(ctx, key, body, "image/jpeg"); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return key, nil
}

// Disk stores objects below Root and serves them under BaseURL.
type Disk struct {
	Root    string
	BaseURL string
}

func NewDisk(root, baseURL string) *Disk {
	return &Disk{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (d *Disk) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(d.Root, clean), nil
}

func (d *Disk) Put(_ context.Context, key string, body []byte, _ string) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, body, 0o644)
}

func (d *Disk) Delete(_ context.Context, key string) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (d *Disk) URL(key string) string {
	if key == "" {
		return ""
	}
	return d.BaseURL + "/" + strings.TrimLeft(key, "/")
}
