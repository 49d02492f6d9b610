/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-28 00:21:55
 * @LastEditTime: 2025-10-22 17:52:06
 * @LastEditors: 安知鱼
 */
package main

import (
	"flag"
	"log"

	"github.com/anzhiyu-c/anheyu-press/cmd/server"
	"github.com/anzhiyu-c/anheyu-press/pkg/config"
)

// @title           Anheyu Press API
// @version         1.0
// @description     博客数据一致性操作接口文档

// @contact.name   安知鱼
// @contact.url    https://github.com/anzhiyu-c/anheyu-press

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8091
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 在请求头中添加 Bearer Token，格式为: Bearer {token}
func main() {
	var configPath string
	flag.StringVar(&configPath, "config", config.DefaultConfigPath, "配置文件路径，不存在时自动生成默认配置")
	flag.Parse()

	// 调用位于 cmd/server 包中的 NewApp 函数来构建整个应用
	app, cleanup, err := server.NewApp(configPath)
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	// 使用 defer 来确保 cleanup 函数在 main 退出时被调用
	defer cleanup()

	// 确保后台任务在程序退出时被停止
	defer app.Stop()

	app.PrintBanner()

	if err := app.Run(); err != nil {
		log.Printf("应用运行失败: %v", err)
	}
}
