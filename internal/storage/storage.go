// Package storage locates raw LIS files in object storage or on the
// local filesystem and stages them for the record reader. It also pushes
// export artifacts back out.
package storage

import (
	"context"
	"path"
	"path/filepath"
	"strings"
)

// ObjectStorage abstracts where raw LIS files and export artifacts live.
// Implementations include S3 and the local filesystem.
type ObjectStorage interface {
	// Download copies an object to a local file.
	Download(ctx context.Context, objectPath, localPath string) error

	// Upload copies a local file to an object. Used for export artifacts.
	Upload(ctx context.Context, localPath, objectPath string) error

	// Exists reports whether the object is present.
	Exists(ctx context.Context, objectPath string) (bool, error)

	// ListObjects returns all object paths under the given prefix.
	ListObjects(ctx context.Context, prefix string) ([]string, error)
}

// Location is a parsed source URI. S3 sources use the s3://bucket/key
// form; everything else is a local filesystem path.
type Location struct {
	Bucket string
	Key    string
}

// IsS3 reports whether the location points at object storage.
func (l Location) IsS3() bool { return l.Bucket != "" }

// ParseLocation splits a source URI into bucket and key. A URI without
// the s3:// scheme is returned as a bare key (local path).
func ParseLocation(uri string) Location {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return Location{Key: uri}
	}
	bucket, key, _ := strings.Cut(rest, "/")
	return Location{Bucket: bucket, Key: key}
}

// Stage makes the object available as a local file under dir and returns
// its path. The staged name is the object's base name, so repeat calls
// for the same object land on the same path.
func Stage(ctx context.Context, store ObjectStorage, objectPath, dir string) (string, error) {
	local := filepath.Join(dir, path.Base(objectPath))
	if err := store.Download(ctx, objectPath, local); err != nil {
		return "", err
	}
	return local, nil
}
