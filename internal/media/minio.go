package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// minioAPI is the subset of *minio.Client used by MinioStore.
type minioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// MinioStore implements Store for MinIO/S3 compatible storage.
// Objects are addressed as <publicURL>/<bucket>/<folder>/<uuid>.<ext>; the
// bucket must allow anonymous reads for the URLs to resolve.
type MinioStore struct {
	client    minioAPI
	bucket    string
	folder    string
	publicURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket, folder, publicURL string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	if publicURL == "" {
		scheme := "http"
		if useSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + endpoint
	}
	return newMinioStore(client, bucket, folder, publicURL), nil
}

func newMinioStore(c minioAPI, bucket, folder, publicURL string) *MinioStore {
	return &MinioStore{
		client:    c,
		bucket:    bucket,
		folder:    strings.Trim(folder, "/"),
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (m *MinioStore) Store(ctx context.Context, f File) (StoredImage, error) {
	contentType := f.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(f.Data).String()
	}
	key := uuid.NewString() + extensionFor(contentType)
	if m.folder != "" {
		key = m.folder + "/" + key
	}
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(f.Data), int64(len(f.Data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return StoredImage{}, fmt.Errorf("%w: put object: %v", ErrUpload, err)
	}
	return StoredImage{URL: m.objectURL(key), Handle: key, Size: int64(len(f.Data))}, nil
}

func (m *MinioStore) Delete(ctx context.Context, handle string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, handle, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: remove object: %v", ErrDelete, err)
	}
	return nil
}

func (m *MinioStore) DeriveHandle(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	prefix := m.publicURL + "/" + m.bucket + "/"
	if strings.HasPrefix(raw, prefix) && len(raw) > len(prefix) {
		return raw[len(prefix):], nil
	}
	// URL мог быть выдан с другого хоста (CDN), поэтому берём путь после имени бакета
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadURL, raw)
	}
	p := strings.TrimPrefix(u.Path, "/")
	if rest, ok := strings.CutPrefix(p, m.bucket+"/"); ok && rest != "" {
		return rest, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadURL, raw)
}

func (m *MinioStore) List(ctx context.Context) ([]Object, error) {
	prefix := ""
	if m.folder != "" {
		prefix = m.folder + "/"
	}
	var out []Object
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		out = append(out, Object{Handle: obj.Key, CreatedAt: obj.LastModified, Size: obj.Size})
	}
	return out, nil
}

func (m *MinioStore) objectURL(key string) string {
	return m.publicURL + "/" + m.bucket + "/" + key
}

func extensionFor(contentType string) string {
	if mt := mimetype.Lookup(contentType); mt != nil {
		return mt.Extension()
	}
	return ""
}
