package checksum

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute_KnownValue(t *testing.T) {
	sum, n, err := Compute(strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sum)
	assert.Equal(t, int64(11), n)
	assert.Len(t, sum, Size)
}

func TestCompute_Empty(t *testing.T) {
	sum, n, err := Compute(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", sum)
	assert.Zero(t, n)
}

func TestCompute_RewindsStream(t *testing.T) {
	data := bytes.Repeat([]byte("abcdef"), ChunkSize) // 跨越多个块
	r := bytes.NewReader(data)

	// 读位置不在开头也从头计算
	_, _ = r.Seek(100, io.SeekStart)

	_, n, err := Compute(r)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, rest)
}

func TestCompute_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("matches md5 of the whole content", prop.ForAll(
		func(data []byte) bool {
			sum, n, err := Compute(bytes.NewReader(data))
			want := md5.Sum(data)
			return err == nil && n == int64(len(data)) && sum == hex.EncodeToString(want[:])
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("identical content gives identical digest", prop.ForAll(
		func(data []byte) bool {
			a, _, errA := Compute(bytes.NewReader(data))
			b, _, errB := Compute(bytes.NewReader(append([]byte(nil), data...)))
			return errA == nil && errB == nil && a == b
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("stream is readable again after compute", prop.ForAll(
		func(data []byte) bool {
			r := bytes.NewReader(data)
			if _, _, err := Compute(r); err != nil {
				return false
			}
			again, err := io.ReadAll(r)
			return err == nil && bytes.Equal(again, data)
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}
