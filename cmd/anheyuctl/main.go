/*
 * @Description: 运维命令行工具入口
 * @Author: 安知鱼
 * @Date: 2025-10-23 09:12:40
 * @LastEditTime: 2025-10-23 09:12:40
 * @LastEditors: 安知鱼
 */
package main

import "github.com/anzhiyu-c/anheyu-press/cmd/anheyuctl/commands"

func main() {
	commands.Execute()
}
