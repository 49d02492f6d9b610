/*
 * @Description: 频率限制中间件
 * @Author: 安知鱼
 * @Date: 2025-11-08 00:00:00
 * @LastEditTime: 2025-11-09 10:21:44
 * @LastEditors: 安知鱼
 */
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/anzhiyu-c/anheyu-press/pkg/config"
	"github.com/anzhiyu-c/anheyu-press/pkg/response"
	"github.com/anzhiyu-c/anheyu-press/pkg/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipRateLimiter 用于存储每个IP地址的限流器
type ipRateLimiter struct {
	limiters map[string]*limiterInfo
	mu       sync.RWMutex
	// 每个IP每分钟允许的请求数
	requestsPerMinute int
	// 突发请求数（允许短时间内的突发流量）
	burst int
	// 清理过期限流器的时间间隔
	cleanupInterval time.Duration
}

// limiterInfo 存储限流器及其最后访问时间
type limiterInfo struct {
	limiter      *rate.Limiter
	lastAccessed time.Time
}

// newIPRateLimiter 创建一个新的IP限流器
func newIPRateLimiter(requestsPerMinute, burst int) *ipRateLimiter {
	limiter := &ipRateLimiter{
		limiters:          make(map[string]*limiterInfo),
		requestsPerMinute: requestsPerMinute,
		burst:             burst,
		cleanupInterval:   5 * time.Minute,
	}

	// 启动定期清理协程
	go limiter.cleanupStaleEntries()

	return limiter
}

// getLimiter 获取指定IP的限流器
func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	info, exists := i.limiters[ip]
	if !exists {
		// 创建新的限流器
		// rate.Every(time.Minute / time.Duration(i.requestsPerMinute)) 表示每分钟允许 i.requestsPerMinute 个请求
		limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(i.requestsPerMinute)), i.burst)
		info = &limiterInfo{
			limiter:      limiter,
			lastAccessed: time.Now(),
		}
		i.limiters[ip] = info
	} else {
		// 更新最后访问时间
		info.lastAccessed = time.Now()
	}

	return info.limiter
}

// cleanupStaleEntries 定期清理超过一定时间未使用的限流器
func (i *ipRateLimiter) cleanupStaleEntries() {
	ticker := time.NewTicker(i.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		i.mu.Lock()
		for ip, info := range i.limiters {
			// 如果超过10分钟未访问，则删除该限流器
			if time.Since(info.lastAccessed) > 10*time.Minute {
				delete(i.limiters, ip)
			}
		}
		i.mu.Unlock()
	}
}

// 投票接口的默认限流参数：每个IP每分钟 30 次，突发 10 次
const (
	DefaultVotesPerMinute = 30
	DefaultVoteBurst      = 10
)

// VoteRateLimit 点赞/点踩频率限制中间件，参数从配置读取
func VoteRateLimit(cfg *config.Config) gin.HandlerFunc {
	perMinute := cfg.GetIntOrDefault(config.KeyRateLimitVotesPerMinute, DefaultVotesPerMinute)
	burst := cfg.GetIntOrDefault(config.KeyRateLimitVoteBurst, DefaultVoteBurst)
	return rateLimit(newIPRateLimiter(perMinute, burst), "投票过于频繁，请稍后再试")
}

func rateLimit(limiter *ipRateLimiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := util.GetRealClientIP(c)

		if !limiter.getLimiter(ip).Allow() {
			response.Fail(c, http.StatusTooManyRequests, message)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CustomRateLimit 创建一个自定义的频率限制中间件
// requestsPerMinute: 每分钟允许的请求数
// burst: 突发请求数
func CustomRateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	return rateLimit(newIPRateLimiter(requestsPerMinute, burst), "请求过于频繁，请稍后再试")
}
