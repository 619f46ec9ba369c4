package aliyun_oss

import (
	"context"
	"io"

	"github.com/haierkeys/fast-file-share-service/pkg/fileurl"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
)

func (p *OSS) objectKey(fileKey string) string {
	return fileurl.JoinKey(p.Config.CustomPath, fileKey)
}

func (p *OSS) SendFile(ctx context.Context, fileKey string, file io.Reader, itype string) (string, error) {
	var opts []oss.Option
	if itype != "" {
		opts = append(opts, oss.ContentType(itype))
	}
	if err := p.Bucket.PutObject(p.objectKey(fileKey), file, opts...); err != nil {
		return "", errors.Wrap(err, "aliyun_oss")
	}
	return fileKey, nil
}

func (p *OSS) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	rc, err := p.Bucket.GetObject(p.objectKey(fileKey))
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}
	return rc, nil
}

func (p *OSS) Exists(ctx context.Context, fileKey string) (bool, error) {
	ok, err := p.Bucket.IsObjectExist(p.objectKey(fileKey))
	if err != nil {
		return false, errors.Wrap(err, "aliyun_oss")
	}
	return ok, nil
}

func (p *OSS) Delete(ctx context.Context, fileKey string) error {
	if err := p.Bucket.DeleteObject(p.objectKey(fileKey)); err != nil {
		return errors.Wrap(err, "aliyun_oss")
	}
	return nil
}
