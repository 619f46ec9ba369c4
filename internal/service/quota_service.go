package service

import (
	"context"
	"strconv"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	"github.com/haierkeys/fast-file-share-service/pkg/code"
	apperrors "github.com/haierkeys/fast-file-share-service/pkg/errors"
	"github.com/haierkeys/fast-file-share-service/pkg/metrics"

	"golang.org/x/sync/singleflight"
)

// QuotaLedger 每用户存储配额
// 按逻辑文件大小计费，去重命中的上传与新内容同样占用配额
type QuotaLedger struct {
	fileRepo   domain.FileRepository
	quotaBytes int64
	sf         singleflight.Group
}

// NewQuotaLedger 创建配额账本
func NewQuotaLedger(fileRepo domain.FileRepository, quotaBytes int64) *QuotaLedger {
	if quotaBytes <= 0 {
		quotaBytes = DefaultQuotaBytes
	}
	return &QuotaLedger{fileRepo: fileRepo, quotaBytes: quotaBytes}
}

// QuotaBytes 每用户配额
func (q *QuotaLedger) QuotaBytes() int64 {
	return q.quotaBytes
}

// CheckAndReserve 检查 used+incoming 是否超出配额，超出时不做任何修改
// 调用方需在用户写队列与事务中调用，读到的 used 才是一致的
func (q *QuotaLedger) CheckAndReserve(ctx context.Context, uid int64, incoming int64) error {
	used, err := q.fileRepo.SumSize(ctx, uid)
	if err != nil {
		return apperrors.Wrap(code.ErrorDBQuery, err)
	}
	if used+incoming > q.quotaBytes {
		metrics.QuotaRejections.Inc()
		return code.ErrorQuotaExceeded.WithData(dto.QuotaExceededDTO{AvailableBytes: available(q.quotaBytes, used)})
	}
	return nil
}

// Usage 查询用量，同一用户的并发查询合并为一次
func (q *QuotaLedger) Usage(ctx context.Context, uid int64) (*dto.UsageDTO, error) {
	v, err, _ := q.sf.Do(strconv.FormatInt(uid, 10), func() (interface{}, error) {
		return q.fileRepo.SumSize(ctx, uid)
	})
	if err != nil {
		return nil, apperrors.Wrap(code.ErrorDBQuery, err)
	}
	used := v.(int64)
	return &dto.UsageDTO{
		UsedBytes:      used,
		QuotaBytes:     q.quotaBytes,
		AvailableBytes: available(q.quotaBytes, used),
	}, nil
}

func available(quota, used int64) int64 {
	if used >= quota {
		return 0
	}
	return quota - used
}
