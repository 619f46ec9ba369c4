package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/model"
	"github.com/haierkeys/fast-file-share-service/pkg/timex"
)

// userRepository 实现 domain.UserRepository 接口
type userRepository struct {
	dao *Dao
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(dao *Dao) domain.UserRepository {
	return &userRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *userRepository) toDomain(m *model.User) *domain.User {
	if m == nil {
		return nil
	}
	u := &domain.User{
		UID:       m.UID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Password:  m.Password,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt.Time(),
		UpdatedAt: m.UpdatedAt.Time(),
	}
	if !m.DateOfBirth.IsZero() {
		dob := m.DateOfBirth.Time()
		u.DateOfBirth = &dob
	}
	return u
}

// toModel 将领域模型转换为数据库模型
func (r *userRepository) toModel(u *domain.User) *model.User {
	return &model.User{
		UID:         u.UID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DateOfBirth: timex.OfPtr(u.DateOfBirth),
		Password:    u.Password,
		IsActive:    u.IsActive,
		CreatedAt:   timex.Of(u.CreatedAt),
		UpdatedAt:   timex.Of(u.UpdatedAt),
	}
}

// GetByUID 根据UID获取用户
func (r *userRepository) GetByUID(ctx context.Context, uid int64) (*domain.User, error) {
	var m model.User
	if err := r.dao.db(ctx).Where("uid = ?", uid).Take(&m).Error; err != nil {
		return nil, translate(err)
	}
	return r.toDomain(&m), nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m model.User
	if err := r.dao.db(ctx).Where("email = ?", email).Take(&m).Error; err != nil {
		return nil, translate(err)
	}
	return r.toDomain(&m), nil
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m := r.toModel(user)
	now := time.Now().UTC()
	m.CreatedAt = timex.Of(now)
	m.UpdatedAt = timex.Of(now)

	if err := r.dao.db(ctx).Create(m).Error; err != nil {
		return nil, translate(err)
	}
	return r.toDomain(m), nil
}
