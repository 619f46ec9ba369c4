package task

import (
	"context"

	"github.com/haierkeys/fast-file-share-service/internal/domain"
	"github.com/haierkeys/fast-file-share-service/pkg/metrics"
)

// StorageStatsTask 刷新物理存储与逻辑用量指标
type StorageStatsTask struct {
	blobRepo domain.BlobRepository
	fileRepo domain.FileRepository
	schedule string
}

// NewStorageStatsTask 创建存储用量统计任务
func NewStorageStatsTask(blobRepo domain.BlobRepository, fileRepo domain.FileRepository, schedule string) *StorageStatsTask {
	if schedule == "" {
		schedule = "@every 5m"
	}
	return &StorageStatsTask{blobRepo: blobRepo, fileRepo: fileRepo, schedule: schedule}
}

func (t *StorageStatsTask) Name() string       { return "StorageStatsTask" }
func (t *StorageStatsTask) Schedule() string   { return t.schedule }
func (t *StorageStatsTask) IsStartupRun() bool { return true }

// Run 物理字节与逻辑字节之差即去重节省的空间
func (t *StorageStatsTask) Run(ctx context.Context) error {
	stats, err := t.blobRepo.Stats(ctx)
	if err != nil {
		return err
	}
	logical, err := t.fileRepo.SumSizeAll(ctx)
	if err != nil {
		return err
	}
	metrics.StoredBlobs.Set(float64(stats.Count))
	metrics.StoredBytes.Set(float64(stats.Bytes))
	metrics.LogicalBytes.Set(float64(logical))
	return nil
}
