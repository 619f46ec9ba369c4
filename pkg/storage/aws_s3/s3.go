package aws_s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	Region          string `yaml:"region"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

// S3 is an S3-compatible object store. MinIO and Cloudflare R2 reuse it with
// their own endpoint settings.
type S3 struct {
	S3Client        *s3.Client
	TransferManager *transfermanager.Client
	BucketName      string
	CustomPath      string
	logger          *zap.Logger
}

// Option 配置选项函数类型
type Option func(*S3)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewClient 创建 S3 存储实例
func NewClient(conf *Config, opts ...Option) (*S3, error) {
	client, err := NewS3Client(conf.Region, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}
	return New(client, conf.BucketName, conf.CustomPath, opts...), nil
}

// NewS3Client 使用静态凭证创建 s3.Client
func NewS3Client(region, accessKeyID, accessKeySecret string, optFns ...func(*s3.Options)) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, optFns...), nil
}

// New 基于已有的 s3.Client 创建存储实例
func New(client *s3.Client, bucketName, customPath string, opts ...Option) *S3 {
	s := &S3{
		S3Client:        client,
		TransferManager: transfermanager.New(client),
		BucketName:      bucketName,
		CustomPath:      customPath,
		logger:          zap.NewNop(), // 默认空日志器
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
