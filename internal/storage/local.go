package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/wellcore/wellcore/internal/errors"
)

// LocalStore implements ObjectStorage on the local filesystem. It backs
// development setups where logs sit in a directory, and the tests.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a store rooted at basePath.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.NewStorageError(errors.CodeDownloadFailed,
			"failed to create base directory", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Download copies an object to a local file.
func (l *LocalStore) Download(ctx context.Context, objectPath, localPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	srcPath := l.fullPath(objectPath)
	if _, err := os.Stat(srcPath); os.IsNotExist(err) {
		return errors.NewStorageError(errors.CodeObjectNotFound, "object not found: "+objectPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return errors.NewStorageError(errors.CodeDownloadFailed, "download failed: "+objectPath, err)
	}
	return copyFile(srcPath, localPath)
}

// Upload copies a local file into the store.
func (l *LocalStore) Upload(ctx context.Context, localPath, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	destPath := l.fullPath(objectPath)
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.NewStorageError(errors.CodeDownloadFailed, "upload failed: "+objectPath, err)
	}
	return copyFile(localPath, destPath)
}

// Exists checks whether an object is present.
func (l *LocalStore) Exists(ctx context.Context, objectPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(l.fullPath(objectPath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListObjects returns all object paths under the given prefix.
func (l *LocalStore) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var objects []string
	err := filepath.Walk(l.fullPath(prefix), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil // prefix doesn't exist, return empty list
			}
			return err
		}
		if !info.IsDir() {
			rel, err := filepath.Rel(l.basePath, path)
			if err != nil {
				return err
			}
			objects = append(objects, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return objects, nil
}

func (l *LocalStore) fullPath(objectPath string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(objectPath))
}

func copyFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return errors.NewStorageError(errors.CodeDownloadFailed, "copy failed", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return errors.NewStorageError(errors.CodeDownloadFailed, "copy failed", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return errors.NewStorageError(errors.CodeDownloadFailed, "copy failed", err)
	}
	return nil
}
