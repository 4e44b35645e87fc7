package repositories

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore holds the bytes of uploaded files. Paths returned by Put are what
// the metadata store records.
type BlobStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Remove(ctx context.Context, path string) error
}

// BlobName returns a collision-free storage name that keeps the original base
// name for readability.
func BlobName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return uuid.NewString() + "_" + base
}

// DiskStore keeps blobs as plain files under a root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates root if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", root, err)
	}
	return &DiskStore{root: root}, nil
}

// Put writes r to a temp file and renames it into place once fully written.
func (d *DiskStore) Put(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	dstPath := filepath.Join(d.root, name)
	tmpPath := dstPath + ".tmp"

	dst, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dstPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move %s into place: %w", dstPath, err)
	}
	return dstPath, nil
}

func (d *DiskStore) Open(_ context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return f, nil
}

// Remove deletes the blob. A missing blob is reported, not ignored.
func (d *DiskStore) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove blob: %w", err)
	}
	return nil
}
