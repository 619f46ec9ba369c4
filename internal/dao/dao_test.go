package dao

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDao(t *testing.T) *Dao {
	t.Helper()
	cfg := DatabaseConfig{Type: "sqlite", Path: filepath.Join(t.TempDir(), "test.db"), MaxOpenConns: 4}
	db, err := NewDBEngineWithConfig(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	d := New(db, WithConfig(&cfg))
	require.NoError(t, d.AutoMigrate())
	return d
}

func newFile(uid int64, blob *domain.StoredBlob, name string, created time.Time) *domain.File {
	return &domain.File{
		ID:           uuid.NewString(),
		UID:          uid,
		BlobID:       blob.ID,
		Digest:       blob.Digest,
		FileKey:      blob.FileKey,
		OriginalName: name,
		Size:         blob.Size,
		ContentType:  blob.ContentType,
		CreatedAt:    created,
	}
}

func TestBlobRepository_UniqueDigest(t *testing.T) {
	d := newTestDao(t)
	repo := NewBlobRepository(d)
	ctx := context.Background()

	_, err := repo.GetByDigest(ctx, "0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := repo.Create(ctx, &domain.StoredBlob{Digest: "0123456789abcdef0123456789abcdef", FileKey: "a", Size: 3})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.StoredBlob{Digest: "0123456789abcdef0123456789abcdef", FileKey: "b", Size: 3})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByDigest(ctx, first.Digest)
	require.NoError(t, err)
	assert.Equal(t, "a", got.FileKey)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)
	assert.Equal(t, int64(3), stats.Bytes)
}

func TestBlobRepository_ConflictInsideTransactionKeepsTxUsable(t *testing.T) {
	d := newTestDao(t)
	repo := NewBlobRepository(d)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.StoredBlob{Digest: "ffffffffffffffffffffffffffffffff", FileKey: "winner", Size: 1})
	require.NoError(t, err)

	err = d.Transaction(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, &domain.StoredBlob{Digest: "ffffffffffffffffffffffffffffffff", FileKey: "loser", Size: 1})
		if !errors.Is(err, domain.ErrConflict) {
			return errors.New("expected conflict")
		}
		// 保存点回滚后事务仍然可用
		b, err := repo.GetByDigest(ctx, "ffffffffffffffffffffffffffffffff")
		if err != nil {
			return err
		}
		if b.FileKey != "winner" {
			return errors.New("resolved wrong blob")
		}
		return nil
	})
	assert.NoError(t, err)
}

func TestFileRepository_OwnershipAndSoftDelete(t *testing.T) {
	d := newTestDao(t)
	blobs := NewBlobRepository(d)
	files := NewFileRepository(d)
	ctx := context.Background()

	blob, err := blobs.Create(ctx, &domain.StoredBlob{Digest: "00000000000000000000000000000001", FileKey: "k", Size: 10})
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older, err := files.Create(ctx, newFile(1, blob, "old.txt", base))
	require.NoError(t, err)
	newer, err := files.Create(ctx, newFile(1, blob, "new.txt", base.Add(time.Minute)))
	require.NoError(t, err)
	other, err := files.Create(ctx, newFile(2, blob, "theirs.txt", base))
	require.NoError(t, err)

	list, err := files.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	// 他人的文件与不存在的文件无法区分
	_, err = files.GetByID(ctx, other.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = files.GetByID(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	total, err := files.SumSize(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(20), total)

	require.NoError(t, files.SoftDelete(ctx, older.ID, 1, time.Now()))
	assert.ErrorIs(t, files.SoftDelete(ctx, older.ID, 1, time.Now()), domain.ErrNotFound)
	assert.ErrorIs(t, files.SoftDelete(ctx, other.ID, 1, time.Now()), domain.ErrNotFound)

	list, err = files.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	total, err = files.SumSize(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)

	all, err := files.SumSizeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20), all)

	deleted, err := files.GetByIDUnscoped(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
	assert.NotNil(t, deleted.DeletedAt)

	updated, err := files.UpdateDescription(ctx, newer.ID, 1, "notes")
	require.NoError(t, err)
	assert.Equal(t, "notes", updated.Description)
	_, err = files.UpdateDescription(ctx, older.ID, 1, "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDao_TransactionRollback(t *testing.T) {
	d := newTestDao(t)
	blobs := NewBlobRepository(d)
	ctx := context.Background()

	boom := errors.New("boom")
	err := d.Transaction(ctx, func(ctx context.Context) error {
		if _, err := blobs.Create(ctx, &domain.StoredBlob{Digest: "00000000000000000000000000000002", FileKey: "k", Size: 1}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = blobs.GetByDigest(ctx, "00000000000000000000000000000002")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShareRepository(t *testing.T) {
	d := newTestDao(t)
	shares := NewShareRepository(d)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	link := &domain.ShareLink{
		ID:             uuid.NewString(),
		FileID:         uuid.NewString(),
		OwnerUID:       1,
		RecipientEmail: "bob@x.com",
		Token:          "tok-1",
		ExpiresAt:      now.Add(time.Hour),
		CreatedAt:      now,
		IsActive:       true,
	}
	_, err := shares.Create(ctx, link)
	require.NoError(t, err)

	dup := *link
	dup.ID = uuid.NewString()
	_, err = shares.Create(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := shares.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.False(t, got.Accessed)
	assert.True(t, got.ExpiresAt.Equal(now.Add(time.Hour)))

	first, err := shares.MarkAccessed(ctx, link.ID, now)
	require.NoError(t, err)
	assert.True(t, first)
	again, err := shares.MarkAccessed(ctx, link.ID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, again)

	got, err = shares.GetByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, got.AccessedAt)
	assert.True(t, got.AccessedAt.Equal(now))

	list, err := shares.ListByFile(ctx, link.FileID, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = shares.ListByFile(ctx, link.FileID, 2)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, shares.Deactivate(ctx, link.ID, 2), domain.ErrNotFound)
	require.NoError(t, shares.Deactivate(ctx, link.ID, 1))
	require.NoError(t, shares.Deactivate(ctx, link.ID, 1))
	got, err = shares.GetByID(ctx, link.ID, 1)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = shares.GetByToken(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	d := newTestDao(t)
	users := NewUserRepository(d)
	ctx := context.Background()

	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	u, err := users.Create(ctx, &domain.User{Email: "a@b.com", FirstName: "A", Password: "hash", IsActive: true, DateOfBirth: &dob})
	require.NoError(t, err)
	assert.NotZero(t, u.UID)

	_, err = users.Create(ctx, &domain.User{Email: "a@b.com", FirstName: "B", Password: "hash"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := users.GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, u.UID, got.UID)
	require.NotNil(t, got.DateOfBirth)
	assert.True(t, got.DateOfBirth.Equal(dob))

	_, err = users.GetByUID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
