package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// CachingStore wraps a BlobStore and keeps recently opened blobs in an
// in-memory LRU cache. Concurrent opens of the same uncached blob are
// deduplicated so the inner store sees a single fetch.
//
// Only blobs up to maxBlobSize bytes are cached; larger blobs pass
// through to the inner store.
type CachingStore struct {
	inner       BlobStore
	cache       *lru.Cache[string, []byte]
	group       singleflight.Group
	maxBlobSize int64
}

var _ BlobStore = (*CachingStore)(nil)

// NewCachingStore creates a CachingStore holding up to maxEntries blobs of
// at most maxBlobSize bytes each.
func NewCachingStore(inner BlobStore, maxEntries int, maxBlobSize int64) (*CachingStore, error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("blobstore: maxEntries must be positive, got %d", maxEntries)
	}
	if maxBlobSize <= 0 {
		maxBlobSize = 64 << 20
	}

	cache, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, err
	}

	return &CachingStore{
		inner:       inner,
		cache:       cache,
		maxBlobSize: maxBlobSize,
	}, nil
}

// Open opens a blob, serving cached contents when available.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(name); ok {
		return &memoryBlob{data: data}, nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		b, err := s.inner.Open(ctx, name)
		if err != nil {
			return nil, err
		}

		if b.Size() > s.maxBlobSize {
			// Too large to cache; every waiter opens its own handle.
			return nil, b.Close()
		}
		defer b.Close()

		data := make([]byte, b.Size())
		n, err := b.ReadAt(ctx, data, 0)
		if err != nil && !(errors.Is(err, io.EOF) && n == len(data)) {
			return nil, err
		}
		s.cache.Add(name, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	if data, ok := v.([]byte); ok {
		return &memoryBlob{data: data}, nil
	}
	return s.inner.Open(ctx, name)
}

// Put writes through to the inner store and invalidates the cache entry.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Remove(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Remove(name)
	return s.inner.Delete(ctx, name)
}

// List delegates to the inner store.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}
