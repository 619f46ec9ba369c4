package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 7},
		{"1GB", 1 << 30},
		{"100MB", 100 << 20},
		{"64kb", 64 << 10},
		{"512B", 512},
		{"2048", 2048},
		{"abc", 7},
		{"-1MB", 7},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSize(tt.in, 7), tt.in)
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.0 KB", FormatSize(1024))
	assert.Equal(t, "1.5 MB", FormatSize(1536*1024))
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("7d")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	d, err = ParseDuration("60m")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	d, err = ParseDuration("30")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1990-05-17")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("17/05/1990")
	assert.Error(t, err)
}

func TestRandomURLToken(t *testing.T) {
	a, err := RandomURLToken(32)
	require.NoError(t, err)
	b, err := RandomURLToken(32)
	require.NoError(t, err)

	// 32 字节 base64 无填充编码为 43 个字符
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "=")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}

func TestGetRandomString(t *testing.T) {
	s := GetRandomString(32)
	assert.Len(t, s, 32)
	assert.NotEqual(t, s, GetRandomString(32))
}

func TestPasswordHash(t *testing.T) {
	hash, err := GeneratePasswordHash("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash(hash, "s3cret-pass"))
	assert.False(t, CheckPasswordHash(hash, "wrong"))
}

func TestEmail(t *testing.T) {
	assert.True(t, IsValidEmail("bob@x.com"))
	assert.False(t, IsValidEmail("bob@"))
	assert.Equal(t, "bob@x.com", NormalizeEmail("  Bob@X.com "))
}

func TestGetMachineID_Stable(t *testing.T) {
	// 不同环境可能读不到机器码，只要求结果稳定
	assert.Equal(t, GetMachineID(), GetMachineID())

	assert.Len(t, protect("app", "serial"), 64)
	assert.NotEqual(t, protect("app", "serial"), protect("other", "serial"))
}
