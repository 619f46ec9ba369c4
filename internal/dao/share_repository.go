package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/model"
	"github.com/haierkeys/fast-file-share-service/pkg/timex"

	"gorm.io/gorm"
)

// shareRepository 实现 domain.ShareRepository 接口
type shareRepository struct {
	dao *Dao
}

// NewShareRepository 创建 ShareRepository 实例
func NewShareRepository(dao *Dao) domain.ShareRepository {
	return &shareRepository{dao: dao}
}

func (r *shareRepository) toDomain(m *model.ShareLink) *domain.ShareLink {
	s := &domain.ShareLink{
		ID:             m.ID,
		FileID:         m.FileID,
		OwnerUID:       m.OwnerUID,
		RecipientEmail: m.RecipientEmail,
		Token:          m.Token,
		Message:        m.Message,
		ExpiresAt:      m.ExpiresAt.Time(),
		CreatedAt:      m.CreatedAt.Time(),
		Accessed:       m.Accessed,
		IsActive:       m.IsActive,
	}
	if !m.AccessedAt.IsZero() {
		t := m.AccessedAt.Time()
		s.AccessedAt = &t
	}
	return s
}

// Create 创建分享链接；插入在保存点中执行，token 冲突时调用方可重试
func (r *shareRepository) Create(ctx context.Context, link *domain.ShareLink) (*domain.ShareLink, error) {
	m := &model.ShareLink{
		ID:             link.ID,
		FileID:         link.FileID,
		OwnerUID:       link.OwnerUID,
		RecipientEmail: link.RecipientEmail,
		Token:          link.Token,
		Message:        link.Message,
		ExpiresAt:      timex.Of(link.ExpiresAt),
		CreatedAt:      timex.Of(link.CreatedAt),
		Accessed:       link.Accessed,
		AccessedAt:     timex.OfPtr(link.AccessedAt),
		IsActive:       link.IsActive,
	}
	err := r.dao.db(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(m).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return r.toDomain(m), nil
}

// GetByToken 根据 token 精确查找
func (r *shareRepository) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	var m model.ShareLink
	if err := r.dao.db(ctx).Where("token = ?", token).Take(&m).Error; err != nil {
		return nil, translate(err)
	}
	return r.toDomain(&m), nil
}

// GetByID 获取所有者的分享链接
func (r *shareRepository) GetByID(ctx context.Context, id string, ownerUID int64) (*domain.ShareLink, error) {
	var m model.ShareLink
	err := r.dao.db(ctx).Where("id = ? AND owner_uid = ?", id, ownerUID).Take(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.toDomain(&m), nil
}

// ListByFile 文件的全部分享链接
func (r *shareRepository) ListByFile(ctx context.Context, fileID string, ownerUID int64) ([]*domain.ShareLink, error) {
	var ms []*model.ShareLink
	err := r.dao.db(ctx).
		Where("file_id = ? AND owner_uid = ?", fileID, ownerUID).
		Order("created_at DESC").Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make([]*domain.ShareLink, 0, len(ms))
	for _, m := range ms {
		out = append(out, r.toDomain(m))
	}
	return out, nil
}

// Deactivate 撤销分享链接，重复撤销不报错
func (r *shareRepository) Deactivate(ctx context.Context, id string, ownerUID int64) error {
	res := r.dao.db(ctx).Model(&model.ShareLink{}).
		Where("id = ? AND owner_uid = ?", id, ownerUID).
		Update("is_active", false)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// 已撤销的行在 mysql 上不计入 RowsAffected，再确认一次是否存在
		if _, err := r.GetByID(ctx, id, ownerUID); err != nil {
			return err
		}
	}
	return nil
}

// MarkAccessed 条件更新 accessed，只有首次兑换会写入 accessed_at
func (r *shareRepository) MarkAccessed(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.dao.db(ctx).Model(&model.ShareLink{}).
		Where("id = ? AND accessed = ?", id, false).
		Updates(map[string]interface{}{
			"accessed":    true,
			"accessed_at": timex.Of(at),
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}
