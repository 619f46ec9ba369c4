package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	apperrors "github.com/haierkeys/fast-file-share-service/pkg/errors"
	"github.com/haierkeys/fast-file-share-service/pkg/logger"
	"github.com/haierkeys/fast-file-share-service/pkg/metrics"
	"github.com/haierkeys/fast-file-share-service/pkg/timex"
	"github.com/haierkeys/fast-file-share-service/pkg/util"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
)

// ShareIssueInput 签发分享链接的参数
type ShareIssueInput struct {
	OwnerUID       int64
	OwnerEmail     string
	FileID         string
	RecipientEmail string
	DurationHours  int
	Message        string
	BaseURL        string // 配置了 public-url 时忽略
}

// Redemption 兑换结果，调用方负责关闭 Reader
type Redemption struct {
	Reader      io.ReadCloser
	FileName    string
	ContentType string
	Size        int64
}

// ShareService 分享链接签发、管理与兑换
type ShareService interface {
	// Issue 签发分享链接并异步通知收件人
	Issue(ctx context.Context, in ShareIssueInput) (*dto.ShareDTO, error)

	// List 文件的分享链接
	List(ctx context.Context, uid int64, fileID string) ([]*dto.ShareDTO, error)

	// Revoke 撤销分享链接
	Revoke(ctx context.Context, uid int64, shareID string) error

	// Redeem 校验 token 并打开文件内容
	Redeem(ctx context.Context, token string) (*Redemption, error)
}

type shareService struct {
	shareRepo domain.ShareRepository
	fileRepo  domain.FileRepository
	dedup     *DedupIndex
	notifier  Notifier
	logger    *zap.Logger
	config    *ServiceConfig

	now      func() time.Time
	newToken func() (string, error)
}

// ShareOption 配置 shareService
type ShareOption func(*shareService)

// WithClock 替换时钟
func WithClock(now func() time.Time) ShareOption {
	return func(s *shareService) { s.now = now }
}

// WithTokenSource 替换 token 生成器
func WithTokenSource(fn func() (string, error)) ShareOption {
	return func(s *shareService) { s.newToken = fn }
}

// NewShareService 创建 ShareService 实例
func NewShareService(
	shareRepo domain.ShareRepository,
	fileRepo domain.FileRepository,
	dedup *DedupIndex,
	notifier Notifier,
	lg *zap.Logger,
	config *ServiceConfig,
	opts ...ShareOption,
) ShareService {
	s := &shareService{
		shareRepo: shareRepo,
		fileRepo:  fileRepo,
		dedup:     dedup,
		notifier:  notifier,
		logger:    lg,
		config:    config.withDefaults(),
		now:       time.Now,
	}
	s.newToken = func() (string, error) {
		return util.RandomURLToken(s.config.Share.TokenBytes)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShareURL 拼接分享地址
func ShareURL(base, token string) string {
	return strings.TrimRight(base, "/") + "/share/" + token
}

func (s *shareService) toDTO(link *domain.ShareLink, withToken bool, baseURL string) *dto.ShareDTO {
	out := &dto.ShareDTO{}
	_ = copier.Copy(out, link)
	out.ExpiresAt = timex.Of(link.ExpiresAt)
	out.CreatedAt = timex.Of(link.CreatedAt)
	out.AccessedAt = nil
	if link.AccessedAt != nil {
		t := timex.Of(*link.AccessedAt)
		out.AccessedAt = &t
	}
	if withToken {
		out.ShareURL = ShareURL(baseURL, link.Token)
	} else {
		out.Token = ""
	}
	return out
}

// Issue 签发分享链接
func (s *shareService) Issue(ctx context.Context, in ShareIssueInput) (*dto.ShareDTO, error) {
	if in.DurationHours < s.config.Share.MinHours || in.DurationHours > s.config.Share.MaxHours {
		return nil, code.ErrorShareInvalidDuration
	}

	file, err := s.fileRepo.GetByID(ctx, in.FileID, in.OwnerUID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorFileNotFound
		}
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}

	now := s.now().UTC()
	link := &domain.ShareLink{
		FileID:         file.ID,
		OwnerUID:       in.OwnerUID,
		RecipientEmail: util.NormalizeEmail(in.RecipientEmail),
		Message:        in.Message,
		ExpiresAt:      now.Add(time.Duration(in.DurationHours) * time.Hour),
		CreatedAt:      now,
		IsActive:       true,
	}

	var created *domain.ShareLink
	for attempt := 1; attempt <= s.config.Share.TokenAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			return nil, apperrors.Wrap(code.ErrorShareTokenGenerate, err)
		}
		link.ID = uuid.NewString()
		link.Token = token

		created, err = s.shareRepo.Create(ctx, link)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, apperrors.Wrap(code.ErrorDBQuery, err)
		}
		s.logger.Warn("share token collision, regenerating", zap.Int("attempt", attempt))
	}
	if created == nil {
		return nil, code.ErrorShareTokenGenerate
	}

	metrics.SharesIssued.Inc()

	baseURL := in.BaseURL
	if s.config.Share.PublicURL != "" {
		baseURL = s.config.Share.PublicURL
	}
	out := s.toDTO(created, true, baseURL)

	s.notifier.NotifyShare(ctx, ShareNotification{
		SenderEmail: in.OwnerEmail,
		FileName:    file.OriginalName,
		ShareURL:    out.ShareURL,
		Link:        created,
	})

	s.logger.Info("share issued",
		zap.Int64(logger.FieldUID, in.OwnerUID),
		zap.String(logger.FieldFileID, file.ID),
		zap.String(logger.FieldShareID, created.ID),
	)
	return out, nil
}

// List 文件的分享链接，不回显 token
func (s *shareService) List(ctx context.Context, uid int64, fileID string) ([]*dto.ShareDTO, error) {
	if _, err := s.fileRepo.GetByID(ctx, fileID, uid); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorFileNotFound
		}
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	links, err := s.shareRepo.ListByFile(ctx, fileID, uid)
	if err != nil {
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	out := make([]*dto.ShareDTO, 0, len(links))
	for _, l := range links {
		out = append(out, s.toDTO(l, false, ""))
	}
	return out, nil
}

// Revoke 撤销分享链接
func (s *shareService) Revoke(ctx context.Context, uid int64, shareID string) error {
	if err := s.shareRepo.Deactivate(ctx, shareID, uid); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return code.ErrorShareNotFound
		}
		return apperrors.Wrap(code.ErrorDBQuery, err)
	}
	s.logger.Info("share revoked", zap.Int64(logger.FieldUID, uid), zap.String(logger.FieldShareID, shareID))
	return nil
}

// Redeem 兑换顺序：token → 激活状态 → 过期 → 文件 → 内容
// accessed 只做记录，不限制重复兑换
func (s *shareService) Redeem(ctx context.Context, token string) (*Redemption, error) {
	link, err := s.shareRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.Redemptions.WithLabelValues("not_found").Inc()
			return nil, code.ErrorShareNotFound
		}
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}

	if !link.IsActive {
		metrics.Redemptions.WithLabelValues("revoked").Inc()
		return nil, code.ErrorShareRevoked
	}

	now := s.now().UTC()
	if link.IsExpired(now) {
		metrics.Redemptions.WithLabelValues("expired").Inc()
		return nil, code.ErrorShareExpired
	}

	// 文件被删除后链接失效，按不存在处理
	file, err := s.fileRepo.GetByIDUnscoped(ctx, link.FileID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	if file == nil || file.IsDeleted {
		metrics.Redemptions.WithLabelValues("not_found").Inc()
		return nil, code.ErrorShareNotFound
	}

	rc, err := s.dedup.Open(ctx, file.FileKey)
	if err != nil {
		return nil, apperrors.Wrap(code.ErrorStorage, err)
	}

	if first, err := s.shareRepo.MarkAccessed(ctx, link.ID, now); err != nil {
		s.logger.Warn("mark share accessed failed", zap.String(logger.FieldShareID, link.ID), zap.Error(err))
	} else if first {
		s.logger.Info("share first accessed", zap.String(logger.FieldShareID, link.ID))
	}

	metrics.Redemptions.WithLabelValues("ok").Inc()
	return &Redemption{
		Reader:      rc,
		FileName:    file.OriginalName,
		ContentType: file.ContentType,
		Size:        file.Size,
	}, nil
}
