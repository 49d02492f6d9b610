package category

import (
	"github.com/anzhiyu-c/anheyu-press/pkg/handler"
	"github.com/anzhiyu-c/anheyu-press/pkg/response"
	category_service "github.com/anzhiyu-c/anheyu-press/pkg/service/category"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有与文章分类相关的 HTTP 处理器。
type Handler struct {
	svc *category_service.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc *category_service.Service) *Handler {
	return &Handler{svc: svc}
}

// Get
// @Summary      获取单个分类及其文章ID
// @Tags         文章分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response{data=model.Category} "成功响应"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	category, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, category, "获取成功")
}

// Merge
// @Summary      合并同名分类
// @Description  每组同名分类保留 ID 最小的一个，其余分类的文章转移到保留分类后删除
// @Tags         文章分类
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} response.Response{data=model.MergeReport} "成功响应"
// @Failure      401 {object} response.Response "未授权"
// @Failure      500 {object} response.Response "服务器内部错误"
// @Router       /categories/merge [patch]
func (h *Handler) Merge(c *gin.Context) {
	report, err := h.svc.MergeCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, report, "合并完成")
}

// Delete
// @Summary      删除分类及其全部文章
// @Tags         文章分类
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response "成功响应"
// @Failure      401 {object} response.Response "未授权"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /categories/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.svc.DeleteCategoryWithArticles(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "删除成功")
}
