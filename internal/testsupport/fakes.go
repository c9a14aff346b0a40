package testsupport

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"butler/internal/remote"
	"butler/internal/services/ffmpeg"
)

// FakeTranscoder stands in for ffmpeg: it copies the input to the output
// path with a marker appended so transcoded sizes differ from sources.
type FakeTranscoder struct {
	Err   error
	Calls []string
}

func (f *FakeTranscoder) transcode(inputPath, outputPath string) error {
	if f.Err != nil {
		return f.Err
	}
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	data = append(data, []byte("|transcoded")...)
	return os.WriteFile(outputPath, data, 0o644)
}

func (f *FakeTranscoder) TranscodeVideo(ctx context.Context, inputPath, outputPath string) error {
	f.Calls = append(f.Calls, "video:"+inputPath)
	return f.transcode(inputPath, outputPath)
}

func (f *FakeTranscoder) TranscodeAudio(ctx context.Context, inputPath, outputPath string) error {
	f.Calls = append(f.Calls, "audio:"+inputPath)
	return f.transcode(inputPath, outputPath)
}

var _ ffmpeg.Client = (*FakeTranscoder)(nil)

// FakeRemote is an in-memory object store.
type FakeRemote struct {
	mu        sync.Mutex
	objects   map[string][]byte
	UploadErr error
	// DeleteErrs maps keys to the error their deletion should fail with.
	DeleteErrs map[string]error
	Deleted    []string
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{objects: map[string][]byte{}}
}

func (f *FakeRemote) Upload(ctx context.Context, localPath, key, contentType string) (remote.UploadInfo, error) {
	if f.UploadErr != nil {
		return remote.UploadInfo{}, f.UploadErr
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return remote.UploadInfo{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return remote.UploadInfo{Key: key, ETag: fmt.Sprintf("etag-%d", len(data)), Size: int64(len(data))}, nil
}

func (f *FakeRemote) Delete(ctx context.Context, key string) error {
	if err, ok := f.DeleteErrs[key]; ok {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.Deleted = append(f.Deleted, key)
	return nil
}

func (f *FakeRemote) Head(ctx context.Context, key string) (*remote.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, nil
	}
	return &remote.ObjectInfo{Key: key, Size: int64(len(data)), ETag: fmt.Sprintf("etag-%d", len(data)), LastModified: time.Now().UTC()}, nil
}

// Has reports whether the fake currently holds an object at key.
func (f *FakeRemote) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

var _ remote.Store = (*FakeRemote)(nil)

// ApproveAll is a Confirmer that accepts every oversize prompt.
type ApproveAll struct{}

func (ApproveAll) ConfirmOversize(file string, sizeBytes, limitBytes int64) (bool, error) {
	return true, nil
}

// DeclineAll is a Confirmer that rejects every oversize prompt.
type DeclineAll struct{}

func (DeclineAll) ConfirmOversize(file string, sizeBytes, limitBytes int64) (bool, error) {
	return false, nil
}
