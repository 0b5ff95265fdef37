// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/interfaces/http/dto"
	"shop-assist-api/pkg/errors"
	"shop-assist-api/pkg/logger"
)

// SearchHandler 商品检索处理器
type SearchHandler struct {
	search      *assistant.ProductSearch
	recommender *assistant.Recommender
}

// NewSearchHandler 创建商品检索处理器
func NewSearchHandler(search *assistant.ProductSearch, recommender *assistant.Recommender) *SearchHandler {
	return &SearchHandler{
		search:      search,
		recommender: recommender,
	}
}

// Search 语义商品检索接口（绕过意图分类的直连调试入口）
// @Summary 语义商品检索
// @Tags Products
// @Produce json
// @Param q query string true "查询文本"
// @Success 200 {object} dto.Response[[]dto.ProductResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/products/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		appErr := errors.ErrEmptyQuery
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
		})
		return
	}

	ctx := c.Request.Context()
	products, err := h.search.Search(ctx, query)
	if err != nil {
		logger.Error(ctx, "product search failed", err)
		dto.InternalError(c, "product search failed")
		return
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductResponse(p))
	}
	dto.Success(c, out)
}

// Popular 热门商品接口
// @Summary 热门商品
// @Tags Products
// @Produce json
// @Param k query int false "返回数量"
// @Success 200 {object} dto.Response[[]dto.ProductResponse]
// @Router /v1/products/popular [get]
func (h *SearchHandler) Popular(c *gin.Context) {
	k, _ := strconv.Atoi(c.Query("k"))

	ctx := c.Request.Context()
	products, err := h.recommender.Recommend(ctx, k)
	if err != nil {
		logger.Error(ctx, "popular products lookup failed", err)
		dto.InternalError(c, "popular products lookup failed")
		return
	}

	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductResponse(p))
	}
	dto.Success(c, out)
}
