package app

import (
	"fmt"
	"strconv"
	"time"

	"github.com/haierkeys/fast-file-share-service/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 默认 Token 签发者
const DefaultTokenIssuer = "fast-file-share-service"

// Token 类型，写入 Subject
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrTokenType 令牌类型与期望不符
var ErrTokenType = fmt.Errorf("unexpected token type")

// TokenConfig 定义 Token 管理器的配置
type TokenConfig struct {
	SecretKey     string        `yaml:"secret-key"`     // JWT 签名密钥
	Expiry        time.Duration `yaml:"expiry"`         // Access Token 过期时间，默认 60 分钟
	RefreshExpiry time.Duration `yaml:"refresh-expiry"` // Refresh Token 过期时间，默认 7 天
	Issuer        string        `yaml:"issuer"`         // Token 签发者
}

// TokenPair 一次登录签发的令牌对
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenManager 定义 Token 管理接口
type TokenManager interface {
	Generate(uid int64, email, ip string) (string, error)
	GeneratePair(uid int64, email, ip string) (*TokenPair, error)
	Parse(token string) (*UserEntity, error)
	ParseRefresh(token string) (*UserEntity, error)
	Validate(token string) error
	GetSecretKey() string
}

// tokenManager 实现 TokenManager 接口
type tokenManager struct {
	config TokenConfig
}

// NewTokenManager 创建一个新的 TokenManager 实例
func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 60 * time.Minute
	}
	if cfg.RefreshExpiry == 0 {
		cfg.RefreshExpiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

type UserEntity struct {
	UID   int64  `json:"uid"`
	Email string `json:"email"`
	IP    string `json:"ip"`
	jwt.RegisteredClaims
}

func (t *tokenManager) sign(uid int64, email, ip, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &UserEntity{
		UID:   uid,
		Email: email,
		IP:    ip,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   typ,
			ID:        strconv.FormatInt(uid, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey(t.config.SecretKey))
}

// Generate 生成 Access Token
func (t *tokenManager) Generate(uid int64, email, ip string) (string, error) {
	return t.sign(uid, email, ip, TokenTypeAccess, t.config.Expiry)
}

// GeneratePair 生成 Access 与 Refresh 令牌对
func (t *tokenManager) GeneratePair(uid int64, email, ip string) (*TokenPair, error) {
	access, err := t.Generate(uid, email, ip)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(uid, email, ip, TokenTypeRefresh, t.config.RefreshExpiry)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// Parse 解析 Access Token
func (t *tokenManager) Parse(token string) (*UserEntity, error) {
	return parseTyped(token, t.config.SecretKey, TokenTypeAccess)
}

// ParseRefresh 解析 Refresh Token
func (t *tokenManager) ParseRefresh(token string) (*UserEntity, error) {
	return parseTyped(token, t.config.SecretKey, TokenTypeRefresh)
}

// Validate 验证 Access Token 是否有效
func (t *tokenManager) Validate(token string) error {
	_, err := t.Parse(token)
	return err
}

// GetSecretKey 获取密钥
func (t *tokenManager) GetSecretKey() string {
	return t.config.SecretKey
}

// 密钥与机器码绑定，换机后旧令牌失效
func signingKey(secretKey string) []byte {
	return []byte(secretKey + "_" + util.GetMachineID())
}

func parseTyped(tokenString, secretKey, typ string) (*UserEntity, error) {
	claims := &UserEntity{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.Subject != typ {
		return nil, ErrTokenType
	}

	return claims, nil
}

// ParseTokenWithKey 使用指定密钥解析 Access Token
func ParseTokenWithKey(tokenString string, secretKey string) (*UserEntity, error) {
	return parseTyped(tokenString, secretKey, TokenTypeAccess)
}

// GetUID extracts the user ID from the request context.
func GetUID(ctx *gin.Context) (out int64) {
	user, exist := ctx.Get("user_token")
	if exist {
		if userEntity, ok := user.(*UserEntity); ok {
			out = userEntity.UID
		}
	}
	return
}

// GetEmail extracts the user email from the request context.
func GetEmail(ctx *gin.Context) (out string) {
	user, exist := ctx.Get("user_token")
	if exist {
		if userEntity, ok := user.(*UserEntity); ok {
			out = userEntity.Email
		}
	}
	return
}
