package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/dao"
	"github.com/haierkeys/fast-file-share-service/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDedupIndex_ResolveMissing(t *testing.T) {
	env := newTestEnv(t, nil)

	blob, err := env.dedup.Resolve(context.Background(), "00000000000000000000000000000000")
	require.NoError(t, err)
	assert.Nil(t, blob)
}

// A second Register of the same digest behaves like the loser of a race:
// its bytes are removed and the first blob comes back.
func TestDedupIndex_RegisterLosesRace(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	const digest = "5eb63bbbe01eeed093cb22bb8f5acdc3"

	winner, created, err := env.dedup.Register(ctx, digest, 11, "text/plain", "userfiles/user_1/a/hello.txt", strings.NewReader("hello world"))
	require.NoError(t, err)
	require.True(t, created)

	loser, created, err := env.dedup.Register(ctx, digest, 11, "text/plain", "userfiles/user_2/b/hello.txt", strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, loser.ID)
	assert.Equal(t, winner.FileKey, loser.FileKey)

	exists, err := env.store.Exists(ctx, "userfiles/user_2/b/hello.txt")
	require.NoError(t, err)
	assert.False(t, exists, "losing bytes must be discarded")

	exists, err = env.store.Exists(ctx, winner.FileKey)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileService_ConcurrentIdenticalUploads(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	const users = 4

	var wg sync.WaitGroup
	errs := make([]error, users)
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, errs[uid-1] = env.files.Upload(ctx, uid, []UploadInput{upload("same.txt", "identical content")}, "")
		}(int64(i + 1))
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	stats, err := dao.NewBlobRepository(env.dao).Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Count)
	assert.EqualValues(t, len("identical content"), stats.Bytes)

	for uid := int64(1); uid <= users; uid++ {
		list, err := env.files.List(ctx, uid)
		require.NoError(t, err)
		require.Len(t, list, 1)
	}
}

// gatedStore holds SendFile for keys containing match until opened
type gatedStore struct {
	storage.Storager
	match       string
	started     chan struct{}
	release     chan struct{}
	startOnce   sync.Once
	releaseOnce sync.Once
}

func newGatedStore(match string) *gatedStore {
	return &gatedStore{match: match, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedStore) open() {
	g.releaseOnce.Do(func() { close(g.release) })
}

func (g *gatedStore) SendFile(ctx context.Context, fileKey string, r io.Reader, cType string) (string, error) {
	if strings.Contains(fileKey, g.match) {
		g.startOnce.Do(func() { close(g.started) })
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.Storager.SendFile(ctx, fileKey, r, cType)
}

// A slow blob write of one user must not hold the database against others.
func TestFileService_SlowBlobWriteDoesNotBlockOtherUsers(t *testing.T) {
	gate := newGatedStore("user_1/")
	env := newTestEnvWithStore(t, nil, func(s storage.Storager) storage.Storager {
		gate.Storager = s
		return gate
	})
	t.Cleanup(gate.open)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := env.files.Upload(ctx, 1, []UploadInput{upload("big.bin", "slow user content")}, "")
		done <- err
	}()

	select {
	case <-gate.started:
	case <-time.After(5 * time.Second):
		t.Fatal("user 1 never reached the blob store")
	}

	begin := time.Now()
	res, err := env.files.Upload(ctx, 2, []UploadInput{upload("tiny.txt", "fast")}, "")
	elapsed := time.Since(begin)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Less(t, elapsed, 2*time.Second)

	// 其他写操作同样不被阻塞
	require.NoError(t, env.files.Delete(ctx, 2, res[0].ID))

	gate.open()
	require.NoError(t, <-done)

	list, err := env.files.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
