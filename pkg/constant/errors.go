/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-27 12:08:15
 * @LastEditTime: 2025-10-21 10:12:40
 * @LastEditors: 安知鱼
 */
package constant

import (
	"errors"
	"fmt"
)

// 定义业务逻辑相关的标准错误
var (
	// ErrNotFound 表示资源未找到，可以由 Handler 转换为 404
	ErrNotFound = errors.New("资源未找到")

	// ErrForbidden 表示无权访问，可以由 Handler 转换为 403
	ErrForbidden = errors.New("操作禁止")

	// ErrConflict 表示资源冲突，可以由 Handler 转换为 409
	ErrConflict = errors.New("资源冲突")

	// ErrInternalServer 表示服务器内部错误，可以由 Handler 转换为 500
	ErrInternalServer = errors.New("内部服务器错误")

	// ErrBadRequest 表示请求参数错误，可以由 Handler 转换为 400
	ErrBadRequest = errors.New("错误的请求")

	// ErrUnauthorized 表示未授权，可以由 Handler 转换为 401
	ErrUnauthorized = errors.New("未经授权的访问")

	// ErrInvalidToken 表示无效的令牌，可以由 Handler 转换为 401
	ErrInvalidToken = errors.New("无效令牌")

	// ErrNoMatchingArticles 表示按赞数阈值没有筛选到任何文章，属于 ErrBadRequest 的一种
	ErrNoMatchingArticles = fmt.Errorf("%w: 没有符合条件的文章", ErrBadRequest)

	// ErrUpvotesExhausted 表示文章赞数已为 0，无法继续踩，属于 ErrBadRequest 的一种
	ErrUpvotesExhausted = fmt.Errorf("%w: 文章赞数已为 0，无法继续减少", ErrBadRequest)
)
