package user

import (
	"github.com/anzhiyu-c/anheyu-press/internal/app/middleware"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/handler"
	"github.com/anzhiyu-c/anheyu-press/pkg/response"
	user_service "github.com/anzhiyu-c/anheyu-press/pkg/service/user"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有与用户相关的 HTTP 处理器。
type Handler struct {
	userSvc user_service.UserService
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(userSvc user_service.UserService) *Handler {
	return &Handler{userSvc: userSvc}
}

// DeleteMe
// @Summary      注销当前账号
// @Description  携带 newAuthorId 时把文章转给该用户，否则连同文章一起删除
// @Tags         用户
// @Security     BearerAuth
// @Produce      json
// @Param        newAuthorId query int false "接收文章的用户ID"
// @Success      200 {object} response.Response{data=model.DeleteUserResponse} "成功响应"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未授权"
// @Failure      404 {object} response.Response "用户或新作者不存在"
// @Router       /users/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	newAuthorID, err := handler.OptionalQueryID(c, "newAuthorId")
	if err != nil {
		response.Error(c, err)
		return
	}

	deleted, err := h.userSvc.DeleteUser(c.Request.Context(), userID, newAuthorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &model.DeleteUserResponse{User: deleted, NewAuthorID: newAuthorID}, "账号已注销")
}
