package remote

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"butler/internal/config"
	"butler/internal/services"
)

// MinioStore implements Store against any S3-compatible endpoint.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore builds a client from the remote configuration. The endpoint
// may carry a scheme; https is assumed when it does not.
func NewMinioStore(cfg config.Remote) (*MinioStore, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "parse endpoint", cfg.Endpoint, err)
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "create client", "", err)
	}
	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// Upload streams the file at localPath to key using the client's internal
// chunked transfer.
func (s *MinioStore) Upload(ctx context.Context, localPath, key, contentType string) (UploadInfo, error) {
	info, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return UploadInfo{}, wrapRemote("upload", key, err)
	}
	return UploadInfo{
		Key:  key,
		ETag: strings.Trim(info.ETag, `"`),
		Size: info.Size,
	}, nil
}

// Delete removes the object at key. Missing keys are treated as deleted.
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return wrapRemote("delete", key, err)
	}
	return nil
}

// Head probes for the object at key, returning nil for absent objects.
func (s *MinioStore) Head(ctx context.Context, key string) (*ObjectInfo, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, wrapRemote("head", key, err)
	}
	return &ObjectInfo{
		Key:          key,
		Size:         stat.Size,
		ETag:         strings.Trim(stat.ETag, `"`),
		LastModified: stat.LastModified,
	}, nil
}

func splitEndpoint(endpoint string) (host string, secure bool, err error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("endpoint is empty")
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", false, err
	}
	if parsed.Host == "" {
		return "", false, fmt.Errorf("endpoint %q has no host", endpoint)
	}
	return parsed.Host, parsed.Scheme != "http", nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.StatusCode == 404 || resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}

func wrapRemote(operation, key string, err error) error {
	detail := key
	if resp := minio.ToErrorResponse(err); resp.Code != "" {
		detail = fmt.Sprintf("%s (%s, status %d)", key, resp.Code, resp.StatusCode)
	}
	return services.Wrap(services.ErrRemote, "remote", operation, detail, err)
}

var _ Store = (*MinioStore)(nil)
