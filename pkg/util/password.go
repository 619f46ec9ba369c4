package util

import (
	"golang.org/x/crypto/bcrypt"
)

// passwordCost bcrypt 成本因子
const passwordCost = 10

// GeneratePasswordHash 生成密码的 bcrypt 哈希
func GeneratePasswordHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether password matches hash. A malformed hash
// never matches.
// CheckPasswordHash 校验密码与哈希是否匹配，格式错误的哈希视为不匹配
func CheckPasswordHash(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
