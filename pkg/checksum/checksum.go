// Package checksum computes content digests for deduplication.
// checksum 计算用于去重的内容摘要
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/pkg/errors"
)

// ChunkSize 每次读取的块大小
const ChunkSize = 64 * 1024

// Size 十六进制摘要长度
const Size = md5.Size * 2

// Compute reads rs in ChunkSize chunks from the start and returns the hex
// MD5 digest. The read position is rewound to the start before returning,
// so the same stream can be persisted afterwards.
// Compute 从头按块读取 rs 计算 MD5，返回前将读位置重置到开头
func Compute(rs io.ReadSeeker) (string, int64, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", 0, errors.Wrap(err, "checksum seek")
	}

	h := md5.New()
	buf := make([]byte, ChunkSize)
	n, err := io.CopyBuffer(h, onlyReader{rs}, buf)
	if err != nil {
		return "", 0, errors.Wrap(err, "checksum read")
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", 0, errors.Wrap(err, "checksum seek")
	}

	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// onlyReader hides WriterTo/ReaderFrom so io.CopyBuffer keeps using buf
type onlyReader struct {
	io.Reader
}
