package cloudflare_r2

import (
	"fmt"

	"github.com/haierkeys/fast-file-share-service/pkg/storage/aws_s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

type Config struct {
	AccountID       string `yaml:"account-id"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

// R2 Cloudflare R2 storage over the S3 API
// R2 通过 S3 协议访问 Cloudflare R2
type R2 struct {
	*aws_s3.S3
}

// NewClient creates an R2 storage instance
// NewClient 创建 R2 存储实例
func NewClient(conf *Config, opts ...aws_s3.Option) (*R2, error) {
	if conf.AccountID == "" {
		return nil, errors.New("cloudflare_r2: account-id is empty")
	}

	client, err := aws_s3.NewS3Client("auto", conf.AccessKeyID, conf.AccessKeySecret, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", conf.AccountID))
	})
	if err != nil {
		return nil, errors.Wrap(err, "cloudflare_r2")
	}

	return &R2{S3: aws_s3.New(client, conf.BucketName, conf.CustomPath, opts...)}, nil
}
