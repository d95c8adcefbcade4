package extract

import (
	"context"
	"io"
)

// Store reads artifacts by slash-separated key. Open wraps fs.ErrNotExist
// for missing keys.
type Store interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
	HasPrefix(ctx context.Context, prefix string) (bool, error)
	ListDirs(ctx context.Context, prefix string) ([]string, error)
}
