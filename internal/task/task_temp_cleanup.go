package task

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gookit/goutil/fsutil"
	"go.uber.org/zap"
)

// TempCleanupTask 清理上传临时目录中超过保留时间的文件
type TempCleanupTask struct {
	dir       string
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewTempCleanupTask 创建临时文件清理任务
func NewTempCleanupTask(dir string, retention time.Duration, logger *zap.Logger) *TempCleanupTask {
	return &TempCleanupTask{dir: dir, retention: retention, logger: logger, now: time.Now}
}

func (t *TempCleanupTask) Name() string       { return "TempCleanupTask" }
func (t *TempCleanupTask) Schedule() string   { return "@hourly" }
func (t *TempCleanupTask) IsStartupRun() bool { return true }

// Run 删除 mtime 早于 now-retention 的文件，目录本身保留
func (t *TempCleanupTask) Run(ctx context.Context) error {
	if t.dir == "" || !fsutil.IsDir(t.dir) {
		return nil
	}
	cutoff := t.now().Add(-t.retention)

	var removed int
	err := filepath.WalkDir(t.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				t.logger.Warn("remove temp file failed", zap.String("path", path), zap.Error(err))
				return nil
			}
			removed++
		}
		return nil
	})

	t.logger.Info("temp cleanup finished", zap.String("path", t.dir), zap.Int("removed", removed))
	return err
}
