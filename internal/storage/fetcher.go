package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spaolacci/murmur3"
	"golang.org/x/sync/semaphore"
)

// Fetcher stages batches of LIS files in parallel. Files already present
// in the stage directory are reused instead of downloaded again, so a
// batch run over the same source set is cheap to repeat.
type Fetcher struct {
	store       ObjectStorage
	concurrency int
	stageDir    string
}

// FetchResult is the outcome of a batch fetch: object path to staged
// local path for successes, object path to error for failures.
type FetchResult struct {
	LocalPaths map[string]string
	Errors     map[string]error
	CacheHits  int
	Downloads  int
}

// NewFetcher creates a fetcher staging into stageDir with at most
// concurrency parallel downloads.
func NewFetcher(store ObjectStorage, concurrency int, stageDir string) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{store: store, concurrency: concurrency, stageDir: stageDir}
}

// Fetch stages every object in the list.
func (f *Fetcher) Fetch(ctx context.Context, objectPaths []string) (*FetchResult, error) {
	result := &FetchResult{
		LocalPaths: make(map[string]string),
		Errors:     make(map[string]error),
	}
	if len(objectPaths) == 0 {
		return result, nil
	}

	var queue []string
	for _, p := range objectPaths {
		local := f.localPath(p)
		if _, err := os.Stat(local); err == nil {
			result.LocalPaths[p] = local
			result.CacheHits++
			continue
		}
		queue = append(queue, p)
	}

	sem := semaphore.NewWeighted(int64(f.concurrency))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, p := range queue {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			result.Errors[p] = err
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(objectPath, local string) {
			defer sem.Release(1)
			defer wg.Done()

			if err := f.store.Download(ctx, objectPath, local); err != nil {
				mu.Lock()
				result.Errors[objectPath] = err
				mu.Unlock()
				return
			}

			mu.Lock()
			result.LocalPaths[objectPath] = local
			result.Downloads++
			mu.Unlock()
		}(p, f.localPath(p))
	}

	wg.Wait()
	return result, nil
}

// localPath maps an object path onto the stage directory. The staged name
// carries a fingerprint of the full object path, so objects that share a
// base name under different prefixes stage to different files. Dropping
// the directory part also blocks path traversal through object names.
func (f *Fetcher) localPath(objectPath string) string {
	name := fmt.Sprintf("%08x-%s", murmur3.Sum32([]byte(objectPath)),
		filepath.Base(filepath.FromSlash(objectPath)))
	if f.stageDir == "" {
		return name
	}
	return filepath.Join(f.stageDir, name)
}
