package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	"github.com/haierkeys/fast-file-share-service/pkg/checksum"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	apperrors "github.com/haierkeys/fast-file-share-service/pkg/errors"
	"github.com/haierkeys/fast-file-share-service/pkg/fileurl"
	"github.com/haierkeys/fast-file-share-service/pkg/logger"
	"github.com/haierkeys/fast-file-share-service/pkg/metrics"
	"github.com/haierkeys/fast-file-share-service/pkg/timex"
	"github.com/haierkeys/fast-file-share-service/pkg/writequeue"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadInput 一个待上传的文件
// Reader 需要可 Seek：先计算摘要，再回到开头写入存储
type UploadInput struct {
	Name        string
	ContentType string
	Reader      io.ReadSeeker
}

// FileService 文件目录与上传管线
type FileService interface {
	// Upload 一次请求中的全部文件在同一个事务中入库
	Upload(ctx context.Context, uid int64, files []UploadInput, description string) ([]*dto.UploadedFileDTO, error)

	// List 未删除的文件，最新的在前
	List(ctx context.Context, uid int64) ([]*dto.FileDTO, error)

	// Get 获取用户自己的文件
	Get(ctx context.Context, uid int64, fileID string) (*domain.File, error)

	// Download 打开用户自己文件的内容
	Download(ctx context.Context, uid int64, fileID string) (io.ReadCloser, *domain.File, error)

	// Delete 软删除，重复删除返回 NotFound
	Delete(ctx context.Context, uid int64, fileID string) error

	// UpdateDescription 修改描述
	UpdateDescription(ctx context.Context, uid int64, fileID string, description string) (*dto.FileDTO, error)

	// Usage 存储用量
	Usage(ctx context.Context, uid int64) (*dto.UsageDTO, error)
}

type fileService struct {
	fileRepo   domain.FileRepository
	tx         domain.Transactor
	dedup      *DedupIndex
	quota      *QuotaLedger
	writeQueue *writequeue.Manager
	logger     *zap.Logger
	config     *ServiceConfig
	now        func() time.Time
}

// NewFileService 创建 FileService 实例
func NewFileService(
	fileRepo domain.FileRepository,
	tx domain.Transactor,
	dedup *DedupIndex,
	quota *QuotaLedger,
	writeQueue *writequeue.Manager,
	lg *zap.Logger,
	config *ServiceConfig,
) FileService {
	return &fileService{
		fileRepo:   fileRepo,
		tx:         tx,
		dedup:      dedup,
		quota:      quota,
		writeQueue: writeQueue,
		logger:     lg,
		config:     config.withDefaults(),
		now:        time.Now,
	}
}

// BlobKey 对象存储键：userfiles/user_<uid>/<file_id>/<filename>
func BlobKey(uid int64, fileID, name string) string {
	return fmt.Sprintf("userfiles/user_%d/%s/%s", uid, fileID, fileurl.SafeFileName(name))
}

func fileToDTO(f *domain.File) *dto.FileDTO {
	return &dto.FileDTO{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		FileSize:     f.Size,
		ContentType:  f.ContentType,
		Description:  f.Description,
		CreatedAt:    timex.Of(f.CreatedAt),
	}
}

// digested 计算过摘要的上传文件
type digested struct {
	UploadInput
	fileID string
	digest string
	size   int64
	// staged 事务前写入存储的键，摘要已存在时为空
	staged string
}

// Upload 上传管线：checksum → quota → dedup → catalog
// 同一用户的上传经写队列串行。新内容的字节在事务外写入存储，
// 事务只包含配额复核、对象登记与目录写入，整批提交或回滚
func (s *fileService) Upload(ctx context.Context, uid int64, files []UploadInput, description string) ([]*dto.UploadedFileDTO, error) {
	if len(files) == 0 {
		return nil, code.ErrorFileRequired
	}
	if len(files) > s.config.Quota.MaxFilesPerReq {
		return nil, code.ErrorFileTooMany.WithDetails(fmt.Sprintf("max %d", s.config.Quota.MaxFilesPerReq))
	}

	// 摘要在写队列外计算，不占用该用户的串行时间
	items := make([]digested, 0, len(files))
	var incoming int64
	for _, f := range files {
		digest, size, err := checksum.Compute(f.Reader)
		if err != nil {
			return nil, apperrors.Wrap(code.ErrorStorage, err)
		}
		if size == 0 {
			return nil, code.ErrorFileEmpty.WithDetails(f.Name)
		}
		if size > s.config.Quota.MaxFileSize {
			return nil, code.ErrorFileTooLarge.WithDetails(f.Name)
		}
		items = append(items, digested{UploadInput: f, fileID: uuid.NewString(), digest: digest, size: size})
		incoming += size
	}

	var out []*dto.UploadedFileDTO
	err := s.writeQueue.Execute(ctx, uid, func(ctx context.Context) error {
		// 写字节前先检查一次，超额的上传不产生任何存储写入
		if err := s.quota.CheckAndReserve(ctx, uid, incoming); err != nil {
			return err
		}
		if err := s.stage(ctx, uid, items); err != nil {
			s.discardStaged(ctx, items, nil)
			return err
		}

		res, kept, err := s.uploadTx(ctx, uid, items, description)
		if err != nil {
			// 事务已回滚，本次写入的对象不再被引用
			s.discardStaged(ctx, items, nil)
			return err
		}
		s.discardStaged(ctx, items, kept)
		out = res
		return nil
	})
	if err != nil {
		if errors.Is(err, writequeue.ErrWriteQueueFull) || errors.Is(err, writequeue.ErrWriteTimeout) {
			return nil, code.ErrorTooManyRequests
		}
		return nil, err
	}

	var hits int
	for _, f := range out {
		if f.IsDuplicate {
			metrics.UploadedFiles.WithLabelValues("hit").Inc()
			hits++
		} else {
			metrics.UploadedFiles.WithLabelValues("miss").Inc()
		}
	}
	metrics.UploadedBytes.Add(float64(incoming))

	s.logger.Info("files uploaded",
		zap.Int64(logger.FieldUID, uid),
		zap.Int("count", len(out)),
		zap.Int("duplicates", hits),
		zap.Int64(logger.FieldSize, incoming),
	)
	return out, nil
}

// stage 为尚无规范对象的摘要写入字节，同一请求内相同摘要只写一次
func (s *fileService) stage(ctx context.Context, uid int64, items []digested) error {
	seen := make(map[string]bool, len(items))
	for i := range items {
		it := &items[i]
		if seen[it.digest] {
			continue
		}
		seen[it.digest] = true

		blob, err := s.dedup.Resolve(ctx, it.digest)
		if err != nil {
			return apperrors.Wrap(code.ErrorDBQuery, err)
		}
		if blob != nil {
			continue
		}
		key, err := s.dedup.Stage(ctx, BlobKey(uid, it.fileID, it.Name), it.Reader, it.ContentType)
		if err != nil {
			return apperrors.Wrap(code.ErrorStorage, err)
		}
		it.staged = key
	}
	return nil
}

// discardStaged 删除未被登记引用的已写入字节，kept 中的键保留
func (s *fileService) discardStaged(ctx context.Context, items []digested, kept map[string]bool) {
	for _, it := range items {
		if it.staged != "" && !kept[it.staged] {
			s.dedup.discard(ctx, it.staged)
		}
	}
}

// uploadTx 只做数据库写入，返回被登记为规范对象的已写入键
func (s *fileService) uploadTx(ctx context.Context, uid int64, items []digested, description string) ([]*dto.UploadedFileDTO, map[string]bool, error) {
	var out []*dto.UploadedFileDTO
	kept := make(map[string]bool)
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var incoming int64
		for _, it := range items {
			incoming += it.size
		}
		if err := s.quota.CheckAndReserve(ctx, uid, incoming); err != nil {
			return err
		}

		now := s.now().UTC()
		for _, it := range items {
			blob, err := s.dedup.Resolve(ctx, it.digest)
			if err != nil {
				return apperrors.Wrap(code.ErrorDBQuery, err)
			}
			duplicate := blob != nil

			if blob == nil {
				if it.staged == "" {
					// 事务前可见的对象已不存在
					return apperrors.Wrap(code.ErrorServerInternal, fmt.Errorf("blob for digest %s vanished", it.digest))
				}
				var created bool
				blob, created, err = s.dedup.Record(ctx, it.digest, it.size, it.ContentType, it.staged)
				if err != nil {
					return apperrors.Wrap(code.ErrorDBQuery, err)
				}
				if created {
					kept[it.staged] = true
				} else {
					duplicate = true
				}
			}

			file, err := s.fileRepo.Create(ctx, &domain.File{
				ID:           it.fileID,
				UID:          uid,
				BlobID:       blob.ID,
				Digest:       blob.Digest,
				FileKey:      blob.FileKey,
				OriginalName: it.Name,
				Size:         it.size,
				ContentType:  it.ContentType,
				Description:  description,
				CreatedAt:    now,
			})
			if err != nil {
				return apperrors.Wrap(code.ErrorDBQuery, err)
			}

			out = append(out, &dto.UploadedFileDTO{
				ID:          file.ID,
				Name:        file.OriginalName,
				Size:        file.Size,
				ContentType: file.ContentType,
				Checksum:    file.Digest,
				CreatedAt:   timex.Of(file.CreatedAt),
				IsDuplicate: duplicate,
			})
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, kept, nil
}

// List 未删除的文件
func (s *fileService) List(ctx context.Context, uid int64) ([]*dto.FileDTO, error) {
	files, err := s.fileRepo.List(ctx, uid)
	if err != nil {
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	out := make([]*dto.FileDTO, 0, len(files))
	for _, f := range files {
		out = append(out, fileToDTO(f))
	}
	return out, nil
}

// Get 获取用户自己的文件，他人的文件视为不存在
func (s *fileService) Get(ctx context.Context, uid int64, fileID string) (*domain.File, error) {
	file, err := s.fileRepo.GetByID(ctx, fileID, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorFileNotFound
		}
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	return file, nil
}

// Download 打开文件内容，调用方负责关闭
func (s *fileService) Download(ctx context.Context, uid int64, fileID string) (io.ReadCloser, *domain.File, error) {
	file, err := s.Get(ctx, uid, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.dedup.Open(ctx, file.FileKey)
	if err != nil {
		return nil, nil, apperrors.Wrap(code.ErrorStorage, err)
	}
	return rc, file, nil
}

// Delete 软删除，对象与其他引用它的文件不受影响
func (s *fileService) Delete(ctx context.Context, uid int64, fileID string) error {
	err := s.fileRepo.SoftDelete(ctx, fileID, uid, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return code.ErrorFileNotFound
		}
		return apperrors.Wrap(code.ErrorDBQuery, err)
	}
	return nil
}

// UpdateDescription 修改描述
func (s *fileService) UpdateDescription(ctx context.Context, uid int64, fileID string, description string) (*dto.FileDTO, error) {
	file, err := s.fileRepo.UpdateDescription(ctx, fileID, uid, description)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, code.ErrorFileNotFound
		}
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	return fileToDTO(file), nil
}

// Usage 存储用量
func (s *fileService) Usage(ctx context.Context, uid int64) (*dto.UsageDTO, error) {
	return s.quota.Usage(ctx, uid)
}
