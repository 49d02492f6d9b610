// pkg/util/ip.go
package util

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// proxyHeaders 按优先级排列的代理头部，均可能携带客户端真实IP
// 支持的 CDN: Cloudflare, 腾讯云 EdgeOne, 阿里云 CDN/ESA
var proxyHeaders = []string{
	"X-Real-IP",
	"CF-Connecting-IP",
	"EO-Connecting-IP",
	"Ali-CDN-Real-IP",
	"True-Client-IP",
}

// GetRealClientIP 获取客户端真实IP地址，投票限流按它区分来源
// 优先级：X-Forwarded-For > proxyHeaders > RemoteAddr
func GetRealClientIP(c *gin.Context) string {
	// X-Forwarded-For 格式：client, proxy1, proxy2，取第一个
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if ip := parseIP(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}

	for _, header := range proxyHeaders {
		if ip := parseIP(c.GetHeader(header)); ip != "" {
			return ip
		}
	}

	if ip, _, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
		return ip
	}
	return c.Request.RemoteAddr
}

// parseIP 去掉空白和端口后校验格式，不合法时返回空串
func parseIP(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}
	if net.ParseIP(raw) == nil {
		return ""
	}
	return raw
}
