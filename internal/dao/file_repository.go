package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/model"
	"github.com/haierkeys/fast-file-share-service/pkg/timex"

	"gorm.io/gorm"
)

// fileRepository 实现 domain.FileRepository 接口
// 所有用户范围的查询都使用 (id, uid, is_deleted) 单一谓词
type fileRepository struct {
	dao *Dao
}

// NewFileRepository 创建 FileRepository 实例
func NewFileRepository(dao *Dao) domain.FileRepository {
	return &fileRepository{dao: dao}
}

func (r *fileRepository) toDomain(m *model.File) *domain.File {
	f := &domain.File{
		ID:           m.ID,
		UID:          m.UID,
		BlobID:       m.BlobID,
		Digest:       m.Digest,
		FileKey:      m.FileKey,
		OriginalName: m.OriginalName,
		Size:         m.Size,
		ContentType:  m.ContentType,
		Description:  m.Description,
		IsDeleted:    m.IsDeleted,
		CreatedAt:    m.CreatedAt.Time(),
		UpdatedAt:    m.UpdatedAt.Time(),
	}
	if !m.DeletedAt.IsZero() {
		t := m.DeletedAt.Time()
		f.DeletedAt = &t
	}
	return f
}

func (r *fileRepository) toModel(f *domain.File) *model.File {
	return &model.File{
		ID:           f.ID,
		UID:          f.UID,
		BlobID:       f.BlobID,
		Digest:       f.Digest,
		FileKey:      f.FileKey,
		OriginalName: f.OriginalName,
		Size:         f.Size,
		ContentType:  f.ContentType,
		Description:  f.Description,
		IsDeleted:    f.IsDeleted,
		CreatedAt:    timex.Of(f.CreatedAt),
		UpdatedAt:    timex.Of(f.UpdatedAt),
		DeletedAt:    timex.OfPtr(f.DeletedAt),
	}
}

// Create 创建文件记录
func (r *fileRepository) Create(ctx context.Context, file *domain.File) (*domain.File, error) {
	m := r.toModel(file)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = timex.Of(time.Now().UTC())
	}
	m.UpdatedAt = m.CreatedAt
	if err := r.dao.db(ctx).Create(m).Error; err != nil {
		return nil, translate(err)
	}
	return r.toDomain(m), nil
}

// GetByID 获取用户未删除的文件
func (r *fileRepository) GetByID(ctx context.Context, id string, uid int64) (*domain.File, error) {
	var m model.File
	err := r.dao.db(ctx).
		Where("id = ? AND uid = ? AND is_deleted = ?", id, uid, false).
		Take(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.toDomain(&m), nil
}

// GetByIDUnscoped 不限用户获取文件（包含已删除）
func (r *fileRepository) GetByIDUnscoped(ctx context.Context, id string) (*domain.File, error) {
	var m model.File
	if err := r.dao.db(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, translate(err)
	}
	return r.toDomain(&m), nil
}

// List 用户未删除的文件，按创建时间倒序，时间相同时按 id 排序保证稳定
func (r *fileRepository) List(ctx context.Context, uid int64) ([]*domain.File, error) {
	var ms []*model.File
	err := r.dao.db(ctx).
		Where("uid = ? AND is_deleted = ?", uid, false).
		Order("created_at DESC").Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make([]*domain.File, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// SoftDelete 标记删除
func (r *fileRepository) SoftDelete(ctx context.Context, id string, uid int64, at time.Time) error {
	res := r.dao.db(ctx).Model(&model.File{}).
		Where("id = ? AND uid = ? AND is_deleted = ?", id, uid, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": timex.Of(at),
			"updated_at": timex.Of(at),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

// UpdateDescription 修改描述
func (r *fileRepository) UpdateDescription(ctx context.Context, id string, uid int64, description string) (*domain.File, error) {
	res := r.dao.db(ctx).Model(&model.File{}).
		Where("id = ? AND uid = ? AND is_deleted = ?", id, uid, false).
		Updates(map[string]interface{}{
			"description": description,
			"updated_at":  timex.Of(time.Now().UTC()),
		})
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, translate(gorm.ErrRecordNotFound)
	}
	return r.GetByID(ctx, id, uid)
}

// SumSize 用户未删除文件的大小总和
func (r *fileRepository) SumSize(ctx context.Context, uid int64) (int64, error) {
	var total int64
	err := r.dao.db(ctx).Model(&model.File{}).
		Where("uid = ? AND is_deleted = ?", uid, false).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, translate(err)
	}
	return total, nil
}

// SumSizeAll 所有未删除文件的大小总和
func (r *fileRepository) SumSizeAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.dao.db(ctx).Model(&model.File{}).
		Where("is_deleted = ?", false).
		Select("COALESCE(SUM(size), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, translate(err)
	}
	return total, nil
}
