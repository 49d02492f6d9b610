/*
 * @Description: 跨域中间件
 * @Author: 安知鱼
 * @Date: 2025-06-15 13:10:42
 * @LastEditTime: 2025-10-23 10:14:05
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Cors 只对 /api/ 下的路由生效，允许任意来源携带凭证访问，预检请求返回 204
func Cors() gin.HandlerFunc {
	handler := cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return origin != "" },
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}
		handler(c)
	}
}
