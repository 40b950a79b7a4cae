package storage

import "context"

// ObjectInfo is metadata for one remote object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage is the minimal S3-compatible surface the export and ingest
// paths need.
type ObjectStorage interface {
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	DownloadObject(ctx context.Context, key string, destPath string) error
	UploadObject(ctx context.Context, key string, data []byte) error
}
