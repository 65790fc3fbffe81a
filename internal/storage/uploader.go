// Package storage hands product and category images to object storage and
// returns the public URL they are served from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file exceeds upload size limit")
)

// Uploader stores a file and returns a publicly resolvable URL for it.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// FSUploader writes uploads to a filesystem served under PublicURL.
type FSUploader struct {
	fs        afero.Fs
	dir       string
	publicURL string
	maxBytes  int64
}

func NewFSUploader(fs afero.Fs, dir, publicURL string, maxBytes int64) *FSUploader {
	return &FSUploader{
		fs:        fs,
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
	}
}

// NewDiskUploader stores uploads in dir on the local disk.
func NewDiskUploader(dir, publicURL string, maxBytes int64) *FSUploader {
	return NewFSUploader(afero.NewOsFs(), dir, publicURL, maxBytes)
}

// Upload accepts images only. The stored key is random; name only
// contributes its extension when the content type has none.
func (u *FSUploader) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		return "", ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}
	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(name))
	}

	key := uuid.NewString() + ext
	if err := u.fs.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := afero.WriteFile(u.fs, filepath.Join(u.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return u.publicURL + "/" + key, nil
}
