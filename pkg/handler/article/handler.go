package article

import (
	"net/http"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/handler"
	"github.com/anzhiyu-c/anheyu-press/pkg/response"
	article_service "github.com/anzhiyu-c/anheyu-press/pkg/service/article"
	"github.com/anzhiyu-c/anheyu-press/pkg/service/ranking"

	"github.com/gin-gonic/gin"
)

// Handler 封装了所有与文章相关的 HTTP 处理器。
type Handler struct {
	svc     *article_service.Service
	ranking ranking.Service
}

// NewHandler 是 Handler 的构造函数。
func NewHandler(svc *article_service.Service, rankingSvc ranking.Service) *Handler {
	return &Handler{svc: svc, ranking: rankingSvc}
}

// Get
// @Summary      获取单篇文章
// @Tags         文章
// @Produce      json
// @Param        id path int true "文章ID"
// @Success      200 {object} response.Response{data=model.Article} "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Router       /articles/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	article, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article, "获取成功")
}

// Upvote
// @Summary      点赞文章
// @Tags         文章
// @Produce      json
// @Param        id path int true "文章ID"
// @Success      200 {object} response.Response{data=model.Article} "成功响应"
// @Failure      404 {object} response.Response "文章不存在"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /articles/{id}/upvote [post]
func (h *Handler) Upvote(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	article, err := h.svc.Upvote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article, "点赞成功")
}

// Downvote
// @Summary      取消点赞（踩）
// @Description  赞数为 0 时返回 400
// @Tags         文章
// @Produce      json
// @Param        id path int true "文章ID"
// @Success      200 {object} response.Response{data=model.Article} "成功响应"
// @Failure      400 {object} response.Response "赞数已为 0"
// @Failure      404 {object} response.Response "文章不存在"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /articles/{id}/downvote [post]
func (h *Handler) Downvote(c *gin.Context) {
	id, err := handler.PathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	article, err := h.svc.Downvote(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, article, "操作成功")
}

// BatchDelete
// @Summary      批量删除文章
// @Description  任意一篇不存在时整体不删除并返回 404
// @Tags         文章
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body model.DeleteArticlesRequest true "文章ID列表"
// @Success      200 {object} response.Response "成功响应"
// @Failure      400 {object} response.Response "请求参数错误"
// @Failure      404 {object} response.Response "存在不存在的文章"
// @Router       /articles/batch-delete [post]
func (h *Handler) BatchDelete(c *gin.Context) {
	var req model.DeleteArticlesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "请求参数无效: "+err.Error())
		return
	}

	if err := h.svc.DeleteArticles(c.Request.Context(), req.IDs); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil, "删除成功")
}

// DeleteLowUpvotes
// @Summary      删除低赞文章
// @Description  删除赞数严格小于 threshold 的全部文章，没有匹配时返回 400
// @Tags         文章
// @Security     BearerAuth
// @Produce      json
// @Param        threshold query int true "赞数阈值"
// @Success      200 {object} response.Response{data=model.DeleteResult} "成功响应"
// @Failure      400 {object} response.Response "没有符合条件的文章"
// @Router       /articles/low-upvotes [delete]
func (h *Handler) DeleteLowUpvotes(c *gin.Context) {
	threshold, err := handler.QueryInt(c, "threshold")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.svc.DeleteArticlesBelowUpvoteThreshold(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result, "删除成功")
}

// Ranking
// @Summary      点赞排行榜
// @Tags         文章
// @Produce      json
// @Param        limit query int false "返回条数，默认 10，最大 100"
// @Success      200 {object} response.Response{data=[]model.RankingItem} "成功响应"
// @Router       /articles/ranking [get]
func (h *Handler) Ranking(c *gin.Context) {
	limit, err := handler.QueryIntOrDefault(c, "limit", ranking.DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items, err := h.ranking.Top(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items, "获取成功")
}
