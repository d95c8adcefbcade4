// Package blobstore reads simulation artifacts from a gocloud.dev bucket.
// Local directories ("file:///srv/cell2fire/results"), S3 and GCS are all
// addressed by URL.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"strings"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// URLs
	_ "gocloud.dev/blob/memblob"  // mem:// URLs
	"gocloud.dev/gcerrors"
)

// Store is a read-only view of one bucket.
type Store struct {
	bucket *blob.Bucket
	name   string
}

// Open opens the bucket at url.
func Open(ctx context.Context, name, url string) (*Store, error) {
	b, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open %s bucket %q: %w", name, url, err)
	}
	return New(name, b), nil
}

// New wraps an already opened bucket.
func New(name string, b *blob.Bucket) *Store {
	return &Store{bucket: b, name: name}
}

// Open returns a reader for key. A missing key yields an error wrapping
// fs.ErrNotExist.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%s %s: %w", s.name, key, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("%s %s: %w", s.name, key, err)
	}
	return r, nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%s exists %s: %w", s.name, key, err)
	}
	return ok, nil
}

// HasPrefix reports whether at least one key starts with prefix.
func (s *Store) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	it := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	_, err := it.Next(ctx)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s list %s: %w", s.name, prefix, err)
	}
	return true, nil
}

// ListDirs returns the sorted names of the directories directly below prefix.
func (s *Store) ListDirs(ctx context.Context, prefix string) ([]string, error) {
	it := s.bucket.List(&blob.ListOptions{Prefix: prefix, Delimiter: "/"})

	var dirs []string
	for {
		obj, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s list %s: %w", s.name, prefix, err)
		}
		if !obj.IsDir {
			continue
		}
		dirs = append(dirs, strings.TrimSuffix(strings.TrimPrefix(obj.Key, prefix), "/"))
	}
	sort.Strings(dirs)
	return dirs, nil
}

// CheckReadiness returns an error if the bucket cannot be reached.
func (s *Store) CheckReadiness(ctx context.Context) error {
	ok, err := s.bucket.IsAccessible(ctx)
	if err != nil {
		return fmt.Errorf("%s bucket: %w", s.name, err)
	}
	if !ok {
		return fmt.Errorf("%s bucket is not accessible", s.name)
	}
	return nil
}

// Close releases the bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// Group reports readiness for several stores at once.
type Group []*Store

// CheckReadiness returns the first store error.
func (g Group) CheckReadiness(ctx context.Context) error {
	for _, s := range g {
		if err := s.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every store and returns the joined errors.
func (g Group) Close() error {
	var errs []error
	for _, s := range g {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
