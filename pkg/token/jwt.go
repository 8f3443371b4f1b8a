// Package token 负责签发和校验登录用的 JWT。
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer 写入 iss 字段，校验时要求一致
const Issuer = "alertdesk"

// TokenType 区分访问令牌和刷新令牌，受保护接口只接受 access
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType 表示把 refresh token 当作 access token 使用（或反之）
var ErrWrongTokenType = errors.New("wrong token type")

// JWTManager 负责生成和验证 JWT
type JWTManager struct {
	secretKey            []byte
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
}

// CustomClaims 在标准 Claims 之外携带用户 ID、用户名、角色和令牌类型
type CustomClaims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func NewJWTManager(secretKey string, accessTokenDuration, refreshTokenDuration time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:            []byte(secretKey),
		accessTokenDuration:  accessTokenDuration,
		refreshTokenDuration: refreshTokenDuration,
	}
}

// GenerateToken 同时签发 access token 和 refresh token
func (manager *JWTManager) GenerateToken(userID uint, username, role string) (string, string, error) {
	now := time.Now()

	accessToken, err := manager.sign(now, manager.accessTokenDuration, &CustomClaims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenType: TokenTypeAccess,
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err := manager.sign(now, manager.refreshTokenDuration, &CustomClaims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		TokenType: TokenTypeRefresh,
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (manager *JWTManager) sign(now time.Time, ttl time.Duration, claims *CustomClaims) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    Issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(manager.secretKey)
}

// VerifyToken 校验签名、有效期和签发者，不关心令牌类型
func (manager *JWTManager) VerifyToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		return manager.secretKey, nil
	},
		// 只允许 HS256，拒绝 alg=none 之类的算法篡改
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(Issuer),
	)
	if err != nil {
		return nil, err
	}
	return token.Claims.(*CustomClaims), nil
}

// VerifyAccessToken 在 VerifyToken 的基础上要求令牌类型为 access
func (manager *JWTManager) VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	claims, err := manager.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
