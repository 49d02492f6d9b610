/*
 * @Description: 请求参数解析辅助函数
 * @Author: 安知鱼
 * @Date: 2025-10-21 18:20:03
 * @LastEditTime: 2025-10-21 18:20:03
 * @LastEditors: 安知鱼
 */
package handler

import (
	"fmt"
	"strconv"

	"github.com/anzhiyu-c/anheyu-press/pkg/constant"

	"github.com/gin-gonic/gin"
)

// PathID 解析路径参数中的正整数 ID
func PathID(c *gin.Context, name string) (uint, error) {
	return parseID(c.Param(name), name)
}

// OptionalQueryID 解析可选的查询参数 ID，参数缺失时返回 nil
func OptionalQueryID(c *gin.Context, name string) (*uint, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	id, err := parseID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// QueryInt 解析必填的整数查询参数
func QueryInt(c *gin.Context, name string) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return 0, fmt.Errorf("%w: 缺少参数 %s", constant.ErrBadRequest, name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: 参数 %s 必须是整数", constant.ErrBadRequest, name)
	}
	return v, nil
}

// QueryIntOrDefault 解析可选的整数查询参数
func QueryIntOrDefault(c *gin.Context, name string, def int) (int, error) {
	if raw, ok := c.GetQuery(name); !ok || raw == "" {
		return def, nil
	}
	return QueryInt(c, name)
}

func parseID(raw, name string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: 无效的 %s '%s'", constant.ErrBadRequest, name, raw)
	}
	return uint(id), nil
}
