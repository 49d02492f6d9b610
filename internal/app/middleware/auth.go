/*
 * @Description: JWT 认证中间件
 * @Author: 安知鱼
 * @Date: 2025-06-15 13:02:11
 * @LastEditTime: 2025-10-21 17:52:36
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/anzhiyu-c/anheyu-press/internal/pkg/auth"
	"github.com/anzhiyu-c/anheyu-press/pkg/constant"
	"github.com/anzhiyu-c/anheyu-press/pkg/response"

	"github.com/gin-gonic/gin"
)

type Middleware struct {
	secret []byte
}

func NewMiddleware(secret []byte) *Middleware {
	return &Middleware{secret: secret}
}

// JWTAuth 是一个强制性的JWT认证中间件
func (m *Middleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			response.Fail(c, http.StatusUnauthorized, "请求未携带Token，无权限访问")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Fail(c, http.StatusUnauthorized, "Token格式不正确")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(parts[1], m.secret)
		if err != nil {
			log.Printf("[JWTAuth] JWT token解析失败: %v", err)
			response.Fail(c, http.StatusUnauthorized, "无效或过期的Token")
			c.Abort()
			return
		}

		if _, err := claims.DBUserID(); err != nil {
			log.Printf("[JWTAuth] 解析用户ID失败: %v", err)
			response.Fail(c, http.StatusUnauthorized, "权限信息无效：用户ID无法解析")
			c.Abort()
			return
		}

		c.Set(auth.ClaimsKey, claims)
		c.Next()
	}
}

// CurrentUserID 从上下文中取出当前登录用户的数据库ID
func CurrentUserID(c *gin.Context) (uint, error) {
	claimsValue, exists := c.Get(auth.ClaimsKey)
	if !exists {
		return 0, constant.ErrUnauthorized
	}
	claims, ok := claimsValue.(*auth.CustomClaims)
	if !ok {
		return 0, constant.ErrUnauthorized
	}
	userID, err := claims.DBUserID()
	if err != nil {
		return 0, constant.ErrInvalidToken
	}
	return userID, nil
}
