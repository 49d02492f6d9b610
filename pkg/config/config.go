/*
 * @Description: 统一配置管理 (手动加载 ini + 环境变量覆盖)
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2025-10-21 12:20:43
 * @LastEditors: 安知鱼
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// DefaultConfigPath 是默认的配置文件位置
const DefaultConfigPath = "data/conf.ini"

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName, KeyDBDebug,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyJWTSecret, KeyIDSeed,
	KeyRabbitMQURL, KeyRabbitMQExchange,
	KeyTaskCategoryMergeCron, KeyTaskRankingRebuildCron,
	KeyRateLimitVotesPerMinute, KeyRateLimitVoteBurst,
}

const (
	KeyServerPort    = "System.Port"
	KeyServerDebug   = "System.Debug"
	KeyDBType        = "Database.Type"
	KeyDBHost        = "Database.Host"
	KeyDBPort        = "Database.Port"
	KeyDBUser        = "Database.User"
	KeyDBPassword    = "Database.Password"
	KeyDBName        = "Database.Name"
	KeyDBDebug       = "Database.Debug"
	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeyJWTSecret = "JWT.Secret"
	// 公共ID编码种子，为空时每次启动随机生成
	KeyIDSeed = "JWT.IDSeed"

	// RabbitMQ 未配置 URL 时不转发领域事件
	KeyRabbitMQURL      = "RabbitMQ.URL"
	KeyRabbitMQExchange = "RabbitMQ.Exchange"

	// 为空时不注册定时合并分类任务
	KeyTaskCategoryMergeCron = "Task.CategoryMergeCron"
	// 为空时只在启动时从数据库重建一次排行榜
	KeyTaskRankingRebuildCron = "Task.RankingRebuildCron"

	KeyRateLimitVotesPerMinute = "RateLimit.VotesPerMinute"
	KeyRateLimitVoteBurst      = "RateLimit.VoteBurst"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认路径加载配置
func NewConfig() (*Config, error) {
	return NewConfigFromFile(DefaultConfigPath)
}

// NewConfigFromFile 手动加载指定的 ini 文件，文件不存在时创建默认配置
func NewConfigFromFile(filePath string) (*Config, error) {
	vp := viper.New()

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				log.Printf("✅ 已创建默认配置文件: %s", filePath)
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				// 构建 Viper 使用的 key，例如 "Database.Host"
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Printf("从 %s 文件加载了默认配置。", filePath)
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	applyEnvOverrides(vp)

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

// NewConfigFromValues 用给定的键值构造配置，主要供测试与命令行工具使用
func NewConfigFromValues(values map[string]interface{}) *Config {
	vp := viper.New()
	for k, v := range values {
		vp.Set(k, v)
	}
	return &Config{vp: vp}
}

func applyEnvOverrides(vp *viper.Viper) {
	envReplacer := strings.NewReplacer(".", "_")
	envPrefix := "ANHEYU"

	for _, key := range allKeys {
		// 构建环境变量名，例如 ANHEYU_DATABASE_HOST
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetIntOrDefault 在键未设置或值不大于 0 时返回 def
func (c *Config) GetIntOrDefault(key string, def int) int {
	if v := c.vp.GetInt(key); v > 0 {
		return v
	}
	return def
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// 默认配置内容（使用 SQLite 作为默认数据库）
	defaultConfig := `[System]
Port = 8091
Debug = false

[Database]
Type = sqlite
Name = anheyu_press.db
Debug = false

# Redis 配置（可选）
# 如果不配置或留空 Addr，点赞排行榜将使用内存实现
[Redis]
Addr = 
Password =
DB = 0

[JWT]
Secret = change-me
IDSeed =

# RabbitMQ 配置（可选），留空 URL 则不转发领域事件
[RabbitMQ]
URL =
Exchange = anheyu.press.events

# 定时任务（可选），例如 "0 0 3 * * *" 表示每天凌晨三点合并同名分类
[Task]
CategoryMergeCron =
RankingRebuildCron = 0 */10 * * * *

[RateLimit]
VotesPerMinute = 30
VoteBurst = 10
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}
