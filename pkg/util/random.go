package util

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
)

// GetRandomString 生成指定长度的随机字符串（crypto/rand）
func GetRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	max := big.NewInt(int64(len(charset)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}

// RandomURLToken returns n bytes from crypto/rand encoded as unpadded URL-safe base64
// RandomURLToken 生成 n 字节随机数据并编码为 URL 安全的 base64（无填充）
func RandomURLToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
