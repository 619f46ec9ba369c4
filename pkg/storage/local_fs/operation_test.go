package local_fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_SendFileAndOpen(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()

	client, err := NewClient(&Config{SavePath: tempDir})
	require.NoError(t, err)

	key := "userfiles/user_1/abc/test_file.txt"
	content := "hello world"

	savedKey, err := client.SendFile(ctx, key, strings.NewReader(content), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, key, savedKey)

	// 文件落在 save-path 下
	onDisk, err := os.ReadFile(filepath.Join(tempDir, "userfiles", "user_1", "abc", "test_file.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, string(onDisk))

	rc, err := client.Open(ctx, savedKey)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))

	ok, err := client.Exists(ctx, savedKey)
	require.NoError(t, err)
	assert.True(t, ok)

	// 不残留临时文件
	entries, err := os.ReadDir(filepath.Join(tempDir, "userfiles", "user_1", "abc"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalFS_CustomPath(t *testing.T) {
	tempDir := t.TempDir()
	client, err := NewClient(&Config{SavePath: tempDir, CustomPath: "prefix"})
	require.NoError(t, err)

	_, err = client.SendFile(context.Background(), "a.txt", strings.NewReader("x"), "")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(tempDir, "prefix", "a.txt"))
	assert.NoError(t, err)
}

func TestLocalFS_Delete(t *testing.T) {
	tempDir := t.TempDir()
	ctx := context.Background()
	client, err := NewClient(&Config{SavePath: tempDir})
	require.NoError(t, err)

	key, err := client.SendFile(ctx, "del/me.bin", strings.NewReader("bytes"), "")
	require.NoError(t, err)

	require.NoError(t, client.Delete(ctx, key))
	ok, err := client.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// 删除不存在的键不报错
	assert.NoError(t, client.Delete(ctx, key))

	_, err = client.Open(ctx, key)
	assert.Error(t, err)
}

func TestLocalFS_SendFileCanceled(t *testing.T) {
	tempDir := t.TempDir()
	client, err := NewClient(&Config{SavePath: tempDir})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = client.SendFile(ctx, "c/x.txt", strings.NewReader("data"), "")
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(tempDir, "c"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewClient_EmptySavePath(t *testing.T) {
	_, err := NewClient(&Config{})
	assert.Error(t, err)
}
