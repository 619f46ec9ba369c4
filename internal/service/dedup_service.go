package service

import (
	"context"
	"errors"
	"io"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/pkg/logger"
	"github.com/haierkeys/fast-file-share-service/pkg/storage"

	"go.uber.org/zap"
)

// DedupIndex maps a content digest to its one canonical stored blob
// DedupIndex 内容摘要到唯一物理对象的索引
type DedupIndex struct {
	blobRepo domain.BlobRepository
	store    storage.Storager
	logger   *zap.Logger
}

// NewDedupIndex 创建去重索引
func NewDedupIndex(blobRepo domain.BlobRepository, store storage.Storager, lg *zap.Logger) *DedupIndex {
	return &DedupIndex{blobRepo: blobRepo, store: store, logger: lg}
}

// Resolve 查找摘要对应的对象，不存在时返回 (nil, nil)
func (d *DedupIndex) Resolve(ctx context.Context, digest string) (*domain.StoredBlob, error) {
	blob, err := d.blobRepo.GetByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return blob, nil
}

// Register writes the bytes under fileKey and records them as canonical for digest.
// When another registration of the same digest won the race, the bytes just written
// are removed and the winner is returned with created=false.
// Register 写入字节并登记为该摘要的规范对象；并发登记失败时删除本次写入的字节并返回胜者
func (d *DedupIndex) Register(ctx context.Context, digest string, size int64, contentType, fileKey string, r io.Reader) (blob *domain.StoredBlob, created bool, err error) {
	key, err := d.Stage(ctx, fileKey, r, contentType)
	if err != nil {
		return nil, false, err
	}
	return d.Record(ctx, digest, size, contentType, key)
}

// Stage writes bytes to the blob store without touching the database, so a
// slow store never holds a database transaction open.
// Stage 只写入存储，不访问数据库
func (d *DedupIndex) Stage(ctx context.Context, fileKey string, r io.Reader, contentType string) (string, error) {
	return d.store.SendFile(ctx, fileKey, r, contentType)
}

// Record inserts the blob row for bytes already staged under key.
// On a digest conflict the staged bytes are removed and the winner is returned.
// Any other failure also removes them.
// Record 为已写入的字节登记规范记录；冲突时删除本次字节并返回胜者
func (d *DedupIndex) Record(ctx context.Context, digest string, size int64, contentType, key string) (blob *domain.StoredBlob, created bool, err error) {
	blob, err = d.blobRepo.Create(ctx, &domain.StoredBlob{
		Digest:      digest,
		FileKey:     key,
		Size:        size,
		ContentType: contentType,
	})
	if err == nil {
		return blob, true, nil
	}

	d.discard(ctx, key)

	if !errors.Is(err, domain.ErrConflict) {
		return nil, false, err
	}

	d.logger.Info("dedup register lost race, resolving winner", zap.String(logger.FieldDigest, digest))
	winner, rerr := d.Resolve(ctx, digest)
	if rerr != nil {
		return nil, false, rerr
	}
	if winner == nil {
		// 冲突的一方随后又回滚了，交给调用方重试
		return nil, false, err
	}
	return winner, false, nil
}

// Open 打开对象读取流
func (d *DedupIndex) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	return d.store.Open(ctx, fileKey)
}

// discard 尽力删除未被登记的字节
func (d *DedupIndex) discard(ctx context.Context, key string) {
	if err := d.store.Delete(context.WithoutCancel(ctx), key); err != nil {
		d.logger.Warn("discard unregistered blob failed",
			zap.String(logger.FieldFileKey, key),
			zap.Error(err),
		)
	}
}
