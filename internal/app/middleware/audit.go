/*
 * @Description: 写操作审计日志中间件
 * @Author: 安知鱼
 * @Date: 2025-01-20 15:30:00
 * @LastEditTime: 2025-10-21 18:05:17
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anzhiyu-c/anheyu-press/pkg/util"
)

// RequestIDHeader 是请求ID在请求头与响应头中的名称
const RequestIDHeader = "X-Request-ID"

// RequestIDKey 是请求ID在 gin.Context 中的键
const RequestIDKey = "request_id"

// RequestID 为每个请求分配ID，客户端已携带时沿用
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// AuditLog 记录所有会修改数据的 API 请求：操作者、状态码和耗时
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		if !shouldAudit(c.Request) {
			return
		}

		actor := "anonymous"
		if userID, err := CurrentUserID(c); err == nil {
			actor = "user:" + strconv.FormatUint(uint64(userID), 10)
		}

		log.Printf("[Audit] request_id=%s actor=%s ip=%s %s %s status=%d latency=%s",
			c.GetString(RequestIDKey), actor, util.GetRealClientIP(c), c.Request.Method, c.Request.URL.RequestURI(),
			c.Writer.Status(), time.Since(startTime))
	}
}

// shouldAudit 只审计 /api/ 下的写请求
func shouldAudit(r *http.Request) bool {
	if !strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
