package minio

import (
	"context"
	"io"
	"strings"

	"github.com/haierkeys/fast-file-share-service/pkg/fileurl"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

type Config struct {
	BucketName      string `yaml:"bucket-name"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type MinIO struct {
	Client *minio.Client
	Config *Config
}

// NewClient 创建 MinIO 存储实例
// endpoint 支持 http:// 或 https:// 前缀，https 时启用 TLS
func NewClient(conf *Config) (*MinIO, error) {
	if conf.Endpoint == "" {
		return nil, errors.New("minio: endpoint is empty")
	}

	endpoint := conf.Endpoint
	secure := false
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint = strings.TrimPrefix(endpoint, "https://")
		secure = true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint = strings.TrimPrefix(endpoint, "http://")
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKeyID, conf.AccessKeySecret, ""),
		Secure: secure,
		Region: conf.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "minio")
	}

	return &MinIO{Client: client, Config: conf}, nil
}

func (p *MinIO) objectKey(fileKey string) string {
	return fileurl.JoinKey(p.Config.CustomPath, fileKey)
}

// SendFile 流式上传，大小未知时由 SDK 分片
func (p *MinIO) SendFile(ctx context.Context, fileKey string, file io.Reader, itype string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.BucketName, p.objectKey(fileKey), file, -1, minio.PutObjectOptions{
		ContentType: itype,
	})
	if err != nil {
		return "", errors.Wrap(err, "minio")
	}
	return fileKey, nil
}

func (p *MinIO) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	key := p.objectKey(fileKey)
	// GetObject 是惰性的，先 Stat 以便立即暴露不存在的对象
	if _, err := p.Client.StatObject(ctx, p.Config.BucketName, key, minio.StatObjectOptions{}); err != nil {
		return nil, errors.Wrap(err, "minio")
	}
	obj, err := p.Client.GetObject(ctx, p.Config.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "minio")
	}
	return obj, nil
}

func (p *MinIO) Exists(ctx context.Context, fileKey string) (bool, error) {
	_, err := p.Client.StatObject(ctx, p.Config.BucketName, p.objectKey(fileKey), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, "minio")
	}
	return true, nil
}

func (p *MinIO) Delete(ctx context.Context, fileKey string) error {
	if err := p.Client.RemoveObject(ctx, p.Config.BucketName, p.objectKey(fileKey), minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, "minio")
	}
	return nil
}
