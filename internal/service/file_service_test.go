package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/fast-file-share-service/internal/dao"
	"github.com/haierkeys/fast-file-share-service/internal/dto"
	"github.com/haierkeys/fast-file-share-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(name, body string) UploadInput {
	return UploadInput{Name: name, ContentType: "text/plain", Reader: strings.NewReader(body)}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestFileService_UploadDedupAcrossUsers(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.files.Upload(ctx, 1, []UploadInput{upload("a.txt", "same bytes")}, "first")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].IsDuplicate)
	assert.Equal(t, "b7c7a19ff9841101a57b7867181d267e", first[0].Checksum)

	second, err := env.files.Upload(ctx, 2, []UploadInput{upload("b.txt", "same bytes")}, "")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].IsDuplicate)
	assert.Equal(t, first[0].Checksum, second[0].Checksum)

	stats, err := dao.NewBlobRepository(env.dao).Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Count)

	// 两个用户各自计费
	u1, err := env.files.Usage(ctx, 1)
	require.NoError(t, err)
	u2, err := env.files.Usage(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 10, u1.UsedBytes)
	assert.EqualValues(t, 10, u2.UsedBytes)

	rc, f, err := env.files.Download(ctx, 2, second[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "b.txt", f.OriginalName)
	assert.Equal(t, "same bytes", readAll(t, rc))
}

func TestFileService_SameRequestDuplicates(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	out, err := env.files.Upload(ctx, 1, []UploadInput{upload("x.txt", "twice"), upload("y.txt", "twice")}, "")
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.False(t, out[0].IsDuplicate)
	assert.True(t, out[1].IsDuplicate)

	stats, err := dao.NewBlobRepository(env.dao).Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Count)
	assert.EqualValues(t, 5, stats.Bytes)

	usage, err := env.files.Usage(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 10, usage.UsedBytes)
}

func TestFileService_QuotaExceeded(t *testing.T) {
	env := newTestEnv(t, &ServiceConfig{Quota: QuotaServiceConfig{QuotaBytes: 10}})
	ctx := context.Background()

	_, err := env.files.Upload(ctx, 1, []UploadInput{upload("a.txt", "12345678")}, "")
	require.NoError(t, err)

	_, err = env.files.Upload(ctx, 1, []UploadInput{upload("b.txt", "12345")}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, code.ErrorQuotaExceeded))

	var c *code.Code
	require.True(t, errors.As(err, &c))
	assert.Equal(t, http.StatusBadRequest, c.StatusCode())
	assert.Equal(t, dto.QuotaExceededDTO{AvailableBytes: 2}, c.Data())

	// 被拒绝的上传不留下任何记录或对象
	list, err := env.files.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	stats, err := dao.NewBlobRepository(env.dao).Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Count)

	// 恰好用满配额是允许的
	_, err = env.files.Upload(ctx, 1, []UploadInput{upload("c.txt", "12")}, "")
	require.NoError(t, err)
}

func TestFileService_QuotaCountsWholeBatch(t *testing.T) {
	env := newTestEnv(t, &ServiceConfig{Quota: QuotaServiceConfig{QuotaBytes: 10}})
	ctx := context.Background()

	_, err := env.files.Upload(ctx, 1, []UploadInput{upload("a.txt", "123456"), upload("b.txt", "654321")}, "")
	assert.ErrorIs(t, err, code.ErrorQuotaExceeded)

	list, err := env.files.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileService_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t, &ServiceConfig{Quota: QuotaServiceConfig{MaxFileSize: 4, MaxFilesPerReq: 2}})
	ctx := context.Background()

	_, err := env.files.Upload(ctx, 1, nil, "")
	assert.ErrorIs(t, err, code.ErrorFileRequired)

	_, err = env.files.Upload(ctx, 1, []UploadInput{upload("e.txt", "")}, "")
	assert.ErrorIs(t, err, code.ErrorFileEmpty)

	_, err = env.files.Upload(ctx, 1, []UploadInput{upload("big.txt", "12345")}, "")
	assert.ErrorIs(t, err, code.ErrorFileTooLarge)

	_, err = env.files.Upload(ctx, 1, []UploadInput{upload("1", "a"), upload("2", "b"), upload("3", "c")}, "")
	assert.ErrorIs(t, err, code.ErrorFileTooMany)
}

func TestFileService_OwnershipAndSoftDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	out, err := env.files.Upload(ctx, 1, []UploadInput{upload("mine.txt", "private")}, "desc")
	require.NoError(t, err)
	id := out[0].ID

	_, _, err = env.files.Download(ctx, 2, id)
	assert.ErrorIs(t, err, code.ErrorFileNotFound)
	assert.ErrorIs(t, env.files.Delete(ctx, 2, id), code.ErrorFileNotFound)
	_, err = env.files.UpdateDescription(ctx, 2, id, "hijack")
	assert.ErrorIs(t, err, code.ErrorFileNotFound)

	updated, err := env.files.UpdateDescription(ctx, 1, id, "new desc")
	require.NoError(t, err)
	assert.Equal(t, "new desc", updated.Description)

	require.NoError(t, env.files.Delete(ctx, 1, id))
	assert.ErrorIs(t, env.files.Delete(ctx, 1, id), code.ErrorFileNotFound)

	list, err := env.files.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)

	usage, err := env.files.Usage(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, usage.UsedBytes)
	assert.EqualValues(t, DefaultQuotaBytes, usage.AvailableBytes)

	// 对象保留，之后同样内容的上传仍命中去重
	again, err := env.files.Upload(ctx, 3, []UploadInput{upload("copy.txt", "private")}, "")
	require.NoError(t, err)
	assert.True(t, again[0].IsDuplicate)
}

func TestFileService_ListNewestFirst(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.files.Upload(ctx, 1, []UploadInput{upload("old.txt", "1")}, "")
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	_, err = env.files.Upload(ctx, 1, []UploadInput{upload("new.txt", "2")}, "")
	require.NoError(t, err)

	list, err := env.files.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new.txt", list[0].OriginalName)
	assert.Equal(t, "old.txt", list[1].OriginalName)
}

func TestBlobKey(t *testing.T) {
	assert.Equal(t, "userfiles/user_7/abc/report.pdf", BlobKey(7, "abc", "report.pdf"))
}
