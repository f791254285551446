package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
)

type fakeObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// fakeStore is an in-memory objectStore. Function fields override the
// default behaviour when set.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]fakeObject
	calls   []string

	listErr   error
	statFunc  func(key string) error
	putFunc   func(key string) error
	removeErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string]fakeObject)}
}

func (f *fakeStore) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeStore) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeStore) object(key string) (fakeObject, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	return obj, ok
}

func (f *fakeStore) list(ctx context.Context, _, prefix string) <-chan minio.ObjectInfo {
	f.record("list")

	f.mu.Lock()
	var infos []minio.ObjectInfo
	if f.listErr != nil {
		infos = append(infos, minio.ObjectInfo{Err: f.listErr})
	} else {
		for key, obj := range f.objects {
			if strings.HasPrefix(key, prefix) {
				infos = append(infos, minio.ObjectInfo{
					Key:          key,
					Size:         int64(len(obj.data)),
					LastModified: obj.modified,
				})
			}
		}
		sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	}
	f.mu.Unlock()

	ch := make(chan minio.ObjectInfo)
	go func() {
		defer close(ch)
		for _, info := range infos {
			select {
			case ch <- info:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (f *fakeStore) stat(_ context.Context, _, key string) (minio.ObjectInfo, error) {
	f.record("stat")
	if f.statFunc != nil {
		if err := f.statFunc(key); err != nil {
			return minio.ObjectInfo{}, err
		}
	}
	obj, ok := f.object(key)
	if !ok {
		return minio.ObjectInfo{}, noSuchKey(key)
	}
	return minio.ObjectInfo{Key: key, Size: int64(len(obj.data))}, nil
}

func (f *fakeStore) get(_ context.Context, _, key string) (io.ReadCloser, error) {
	f.record("get")
	obj, ok := f.object(key)
	if !ok {
		return nil, noSuchKey(key)
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// put reads exactly size bytes, the way minio-go does for a known size.
func (f *fakeStore) put(
	_ context.Context,
	_, key string,
	r io.Reader,
	size int64,
	opts minio.PutObjectOptions,
) error {
	f.record("put")
	if f.putFunc != nil {
		if err := f.putFunc(key); err != nil {
			return err
		}
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = fakeObject{data: data, contentType: opts.ContentType, modified: time.Now()}
	return nil
}

func (f *fakeStore) remove(_ context.Context, _, key string) error {
	f.record("remove")
	if f.removeErr != nil {
		return f.removeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func noSuchKey(key string) error {
	return minio.ErrorResponse{
		StatusCode: 404,
		Code:       "NoSuchKey",
		Message:    "The specified key does not exist.",
		Key:        key,
	}
}
