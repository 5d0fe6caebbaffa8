package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// Presigner issues time-limited GET URLs for stored objects. downloadName, when
// non-empty, forces a Content-Disposition attachment filename.
type Presigner interface {
	PresignGet(ctx context.Context, storageKey string, expiry time.Duration, downloadName string) (string, error)
}
