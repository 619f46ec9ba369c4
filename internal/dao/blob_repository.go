package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/model"
	"github.com/haierkeys/fast-file-share-service/pkg/timex"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// blobRepository 实现 domain.BlobRepository 接口
type blobRepository struct {
	dao *Dao
}

// NewBlobRepository 创建 BlobRepository 实例
func NewBlobRepository(dao *Dao) domain.BlobRepository {
	return &blobRepository{dao: dao}
}

func (r *blobRepository) toDomain(m *model.StoredBlob) *domain.StoredBlob {
	return &domain.StoredBlob{
		ID:          m.ID,
		Digest:      m.Digest,
		FileKey:     m.FileKey,
		Size:        m.Size,
		ContentType: m.ContentType,
		CreatedAt:   m.CreatedAt.Time(),
	}
}

// GetByDigest 根据摘要获取
// 事务内使用共享锁读，可重复读隔离下也能看到并发登记已提交的行
func (r *blobRepository) GetByDigest(ctx context.Context, digest string) (*domain.StoredBlob, error) {
	var m model.StoredBlob
	db := r.dao.db(ctx)
	if inTx(ctx) {
		db = db.Clauses(clause.Locking{Strength: "SHARE"})
	}
	if err := db.Where("digest = ?", digest).Take(&m).Error; err != nil {
		return nil, translate(err)
	}
	return r.toDomain(&m), nil
}

// Create inserts inside a savepoint so a unique violation leaves the
// surrounding transaction usable (postgres aborts it otherwise)
// Create 在保存点中插入，唯一约束冲突后外层事务仍可继续
func (r *blobRepository) Create(ctx context.Context, blob *domain.StoredBlob) (*domain.StoredBlob, error) {
	m := &model.StoredBlob{
		Digest:      blob.Digest,
		FileKey:     blob.FileKey,
		Size:        blob.Size,
		ContentType: blob.ContentType,
		CreatedAt:   timex.Of(time.Now().UTC()),
	}
	err := r.dao.db(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return r.toDomain(m), nil
}

// Stats 统计去重后的对象数量与字节数
func (r *blobRepository) Stats(ctx context.Context) (*domain.BlobStats, error) {
	var out struct {
		Count int64
		Bytes int64
	}
	err := r.dao.db(ctx).Model(&model.StoredBlob{}).
		Select("COUNT(*) AS count, COALESCE(SUM(size), 0) AS bytes").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return &domain.BlobStats{Count: out.Count, Bytes: out.Bytes}, nil
}
