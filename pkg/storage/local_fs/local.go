package local_fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/haierkeys/fast-file-share-service/pkg/fileurl"

	"github.com/gookit/goutil/fsutil"
	"github.com/pkg/errors"
)

type Config struct {
	SavePath   string `yaml:"save-path" default:"storage/uploads"`
	CustomPath string `yaml:"custom-path"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(conf *Config) (*LocalFS, error) {
	if conf.SavePath == "" {
		return nil, errors.New("local_fs: save-path is empty")
	}
	return &LocalFS{
		Config: conf,
	}, nil
}

func (p *LocalFS) getSavePath(fileKey string) string {
	return filepath.Join(p.Config.SavePath, filepath.FromSlash(fileurl.JoinKey(p.Config.CustomPath, fileKey)))
}

// SendFile 以流的方式写入本地文件
// 先写入同目录临时文件再重命名，读者不会看到写了一半的文件
func (p *LocalFS) SendFile(ctx context.Context, fileKey string, file io.Reader, cType string) (string, error) {
	dst := p.getSavePath(fileKey)

	if err := fsutil.MkParentDir(dst); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	tmpName := tmp.Name()

	if _, err = io.Copy(tmp, &ctxReader{ctx: ctx, r: file}); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", errors.Wrap(err, "local_fs")
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", errors.Wrap(err, "local_fs")
	}
	if err = os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return "", errors.Wrap(err, "local_fs")
	}

	return fileKey, nil
}

func (p *LocalFS) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	f, err := os.Open(p.getSavePath(fileKey))
	if err != nil {
		return nil, errors.Wrap(err, "local_fs")
	}
	return f, nil
}

func (p *LocalFS) Exists(ctx context.Context, fileKey string) (bool, error) {
	return fsutil.IsFile(p.getSavePath(fileKey)), nil
}

func (p *LocalFS) Delete(ctx context.Context, fileKey string) error {
	dst := p.getSavePath(fileKey)
	if !fsutil.PathExists(dst) {
		return nil
	}
	if err := os.Remove(dst); err != nil {
		return errors.Wrap(err, "local_fs")
	}
	return nil
}

// ctxReader 在客户端断开时中止拷贝
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
