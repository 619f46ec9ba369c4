package webdav

import (
	"context"
	"io"
	"path"

	"github.com/haierkeys/fast-file-share-service/pkg/fileurl"

	"github.com/pkg/errors"
	"github.com/studio-b12/gowebdav"
)

func (w *WebDAV) remotePath(fileKey string) string {
	return "/" + fileurl.JoinKey(fileurl.JoinKey(w.Config.Path, w.Config.CustomPath), fileKey)
}

// SendFile 将文件流上传到 WebDAV 服务器
func (w *WebDAV) SendFile(ctx context.Context, fileKey string, file io.Reader, itype string) (string, error) {
	dst := w.remotePath(fileKey)

	if err := w.Client.MkdirAll(path.Dir(dst), 0755); err != nil {
		return "", errors.Wrap(err, "webdav")
	}
	if err := w.Client.WriteStream(dst, file, 0644); err != nil {
		return "", errors.Wrap(err, "webdav")
	}

	return fileKey, nil
}

func (w *WebDAV) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	rc, err := w.Client.ReadStream(w.remotePath(fileKey))
	if err != nil {
		return nil, errors.Wrap(err, "webdav")
	}
	return rc, nil
}

func (w *WebDAV) Exists(ctx context.Context, fileKey string) (bool, error) {
	if _, err := w.Client.Stat(w.remotePath(fileKey)); err != nil {
		if gowebdav.IsErrNotFound(err) {
			return false, nil
		}
		return false, errors.Wrap(err, "webdav")
	}
	return true, nil
}

func (w *WebDAV) Delete(ctx context.Context, fileKey string) error {
	if err := w.Client.Remove(w.remotePath(fileKey)); err != nil && !gowebdav.IsErrNotFound(err) {
		return errors.Wrap(err, "webdav")
	}
	return nil
}
