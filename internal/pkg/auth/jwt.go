/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2025-10-21 17:34:45
 * @LastEditors: 安知鱼
 */
package auth

import (
	"fmt"
	"time"

	"github.com/anzhiyu-c/anheyu-press/pkg/idgen"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL 是 Access Token 的默认有效期
const DefaultTokenTTL = 15 * time.Minute

const issuer = "anheyu-press"

// GenerateToken 生成一个新的 JWT Access Token，ttl 不大于 0 时使用 DefaultTokenTTL
func GenerateToken(userID uint, secretKey []byte, ttl time.Duration) (string, error) {
	if len(secretKey) == 0 {
		return "", fmt.Errorf("JWT Secret 不能为空")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	publicUserID, err := idgen.GeneratePublicID(userID, idgen.EntityTypeUser)
	if err != nil {
		return "", fmt.Errorf("生成用户公共ID失败: %w", err)
	}

	now := time.Now()
	claims := CustomClaims{
		UserID: publicUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken 解析 JWT Token
func ParseToken(tokenStr string, secretKey []byte) (*CustomClaims, error) {
	if len(secretKey) == 0 {
		return nil, fmt.Errorf("JWT Secret 不能为空")
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, fmt.Errorf("解析token失败: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("无效或过期Token")
	}

	return claims, nil
}

// DBUserID 从 Claims 中解码出数据库用户ID
func (c *CustomClaims) DBUserID() (uint, error) {
	return idgen.DecodeTypedPublicID(c.UserID, idgen.EntityTypeUser)
}
