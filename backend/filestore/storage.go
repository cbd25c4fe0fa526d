package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/zaunist/filebox/backend/common"
)

// ErrNotFound marks a blob that is absent from the backing store.
var ErrNotFound = errors.New("blob not found")

// Storage stores file content by an opaque key it assigns. Metadata lives in
// the database; the store only ever sees bytes.
type Storage interface {
	// Save streams content into the store and returns the key under which it
	// was stored, the hex sha256 of the content, and the byte count.
	Save(ctx context.Context, r io.Reader) (key string, hash string, size int64, err error)
	// Open returns a reader over the stored content. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// New builds the storage backend selected by configuration.
func New(ctx context.Context) (Storage, error) {
	switch common.StorageDriver {
	case "local", "":
		return NewLocalStorage(common.StoragePath)
	case "s3":
		if common.S3Bucket == "" {
			return nil, errors.New("storage driver s3 requires S3_BUCKET")
		}
		return NewS3Storage(ctx, common.S3Bucket)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", common.StorageDriver)
	}
}
