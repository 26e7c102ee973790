package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"study_tracker/internal/config"
	"study_tracker/internal/util"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const jsonContentType = "application/json"

func objectKey(prefix, key string) string {
	return prefix + key + util.RecordExt
}

func keyFromObject(prefix, name string) (string, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, util.RecordExt) {
		return "", false
	}
	key := strings.TrimSuffix(strings.TrimPrefix(name, prefix), util.RecordExt)
	if key == "" || strings.Contains(key, "/") {
		return "", false
	}
	return key, true
}

// MinioBackend MinIO 对象存储实现
type MinioBackend struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioBackend(cfg *config.StorageConfig) (*MinioBackend, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioBackend{Config: cfg, Client: client}, nil
}

func (b *MinioBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.Client.StatObject(ctx, b.Config.MinioBucket, objectKey(b.Config.Prefix, key), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (b *MinioBackend) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := b.Client.GetObject(ctx, b.Config.MinioBucket, objectKey(b.Config.Prefix, key), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return data, nil
}

func (b *MinioBackend) Write(ctx context.Context, key string, data []byte) error {
	_, err := b.Client.PutObject(ctx, b.Config.MinioBucket, objectKey(b.Config.Prefix, key), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: jsonContentType,
	})
	return err
}

func (b *MinioBackend) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range b.Client.ListObjects(ctx, b.Config.MinioBucket, minio.ListObjectsOptions{
		Prefix:    b.Config.Prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if key, ok := keyFromObject(b.Config.Prefix, obj.Key); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *MinioBackend) Ping(ctx context.Context) error {
	ok, err := b.Client.BucketExists(ctx, b.Config.MinioBucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", b.Config.MinioBucket)
	}
	return nil
}

// OSSBackend 阿里云 OSS 实现
type OSSBackend struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSBackend(cfg *config.StorageConfig) (*OSSBackend, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSBackend{Config: cfg, Client: client}, nil
}

func (b *OSSBackend) bucket() (*oss.Bucket, error) {
	return b.Client.Bucket(b.Config.OSSBucket)
}

func (b *OSSBackend) Exists(ctx context.Context, key string) (bool, error) {
	bucket, err := b.bucket()
	if err != nil {
		return false, err
	}
	return bucket.IsObjectExist(objectKey(b.Config.Prefix, key))
}

func (b *OSSBackend) Read(ctx context.Context, key string) ([]byte, error) {
	bucket, err := b.bucket()
	if err != nil {
		return nil, err
	}

	name := objectKey(b.Config.Prefix, key)
	exists, err := bucket.IsObjectExist(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRecordNotFound
	}

	body, err := bucket.GetObject(name)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (b *OSSBackend) Write(ctx context.Context, key string, data []byte) error {
	bucket, err := b.bucket()
	if err != nil {
		return err
	}
	return bucket.PutObject(objectKey(b.Config.Prefix, key), bytes.NewReader(data), oss.ContentType(jsonContentType))
}

func (b *OSSBackend) Keys(ctx context.Context) ([]string, error) {
	bucket, err := b.bucket()
	if err != nil {
		return nil, err
	}

	var keys []string
	token := ""
	for {
		opts := []oss.Option{oss.Prefix(b.Config.Prefix)}
		if token != "" {
			opts = append(opts, oss.ContinuationToken(token))
		}
		result, err := bucket.ListObjectsV2(opts...)
		if err != nil {
			return nil, err
		}
		for _, obj := range result.Objects {
			if key, ok := keyFromObject(b.Config.Prefix, obj.Key); ok {
				keys = append(keys, key)
			}
		}
		if !result.IsTruncated {
			break
		}
		token = result.NextContinuationToken
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *OSSBackend) Ping(ctx context.Context) error {
	ok, err := b.Client.IsBucketExist(b.Config.OSSBucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", b.Config.OSSBucket)
	}
	return nil
}
