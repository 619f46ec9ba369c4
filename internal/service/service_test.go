package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/dao"
	"github.com/haierkeys/fast-file-share-service/pkg/storage"
	"github.com/haierkeys/fast-file-share-service/pkg/writequeue"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEnv 使用临时 sqlite 与本地文件存储组装服务
type testEnv struct {
	dao    *dao.Dao
	store  storage.Storager
	dedup  *DedupIndex
	quota  *QuotaLedger
	files  *fileService
	shares *shareService
	notes  *recordingNotifier
	clock  *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ShareNotification
}

func (r *recordingNotifier) NotifyShare(_ context.Context, n ShareNotification) {
	r.mu.Lock()
	r.sent = append(r.sent, n)
	r.mu.Unlock()
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func newTestEnv(t *testing.T, cfg *ServiceConfig, opts ...ShareOption) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, cfg, nil, opts...)
}

// newTestEnvWithStore lets a test wrap the local blob store
func newTestEnvWithStore(t *testing.T, cfg *ServiceConfig, wrap func(storage.Storager) storage.Storager, opts ...ShareOption) *testEnv {
	t.Helper()
	dir := t.TempDir()

	dbCfg := dao.DatabaseConfig{Type: "sqlite", Path: filepath.Join(dir, "test.db"), MaxOpenConns: 4}
	db, err := dao.NewDBEngineWithConfig(dbCfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	d := dao.New(db, dao.WithConfig(&dbCfg))
	require.NoError(t, d.AutoMigrate())

	store, err := storage.NewClient(&storage.Config{Type: storage.LOCAL, SavePath: filepath.Join(dir, "blobs")}, zap.NewNop())
	require.NoError(t, err)
	if wrap != nil {
		store = wrap(store)
	}

	wq := writequeue.New(nil, zap.NewNop())
	t.Cleanup(func() { _ = wq.Shutdown(context.Background()) })

	cfg = cfg.withDefaults()
	fileRepo := dao.NewFileRepository(d)
	dedup := NewDedupIndex(dao.NewBlobRepository(d), store, zap.NewNop())
	quota := NewQuotaLedger(fileRepo, cfg.Quota.QuotaBytes)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	notes := &recordingNotifier{}

	files := NewFileService(fileRepo, d, dedup, quota, wq, zap.NewNop(), cfg).(*fileService)
	files.now = clock.Now

	opts = append([]ShareOption{WithClock(clock.Now)}, opts...)
	shares := NewShareService(dao.NewShareRepository(d), fileRepo, dedup, notes, zap.NewNop(), cfg, opts...).(*shareService)

	return &testEnv{dao: d, store: store, dedup: dedup, quota: quota, files: files, shares: shares, notes: notes, clock: clock}
}
