package aws_s3

import (
	"context"
	"io"

	"github.com/haierkeys/fast-file-share-service/pkg/fileurl"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (p *S3) objectKey(fileKey string) string {
	return fileurl.JoinKey(p.CustomPath, fileKey)
}

// SendFile 分片流式上传文件
func (p *S3) SendFile(ctx context.Context, fileKey string, file io.Reader, itype string) (string, error) {
	input := &transfermanager.UploadObjectInput{
		Bucket: aws.String(p.BucketName),
		Key:    aws.String(p.objectKey(fileKey)),
		Body:   file,
	}
	if itype != "" {
		input.ContentType = aws.String(itype)
	}

	if _, err := p.TransferManager.UploadObject(ctx, input); err != nil {
		var noBucket *types.NoSuchBucket
		if errors.As(err, &noBucket) {
			p.logger.Error("bucket does not exist", zap.String("bucket", p.BucketName))
		}
		return "", errors.Wrap(err, "aws_s3")
	}

	return fileKey, nil
}

func (p *S3) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	out, err := p.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(p.BucketName),
		Key:    aws.String(p.objectKey(fileKey)),
	})
	if err != nil {
		return nil, errors.Wrap(err, "aws_s3")
	}
	return out.Body, nil
}

func (p *S3) Exists(ctx context.Context, fileKey string) (bool, error) {
	_, err := p.S3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(p.BucketName),
		Key:    aws.String(p.objectKey(fileKey)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, errors.Wrap(err, "aws_s3")
	}
	return true, nil
}

func (p *S3) Delete(ctx context.Context, fileKey string) error {
	_, err := p.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.BucketName),
		Key:    aws.String(p.objectKey(fileKey)),
	})
	if err != nil {
		return errors.Wrap(err, "aws_s3")
	}
	return nil
}
