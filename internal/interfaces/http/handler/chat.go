// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/interfaces/http/dto"
	"shop-assist-api/pkg/errors"
	"shop-assist-api/pkg/logger"
)

// ChatHandler 对话处理器
type ChatHandler struct {
	router *assistant.Router
}

// NewChatHandler 创建对话处理器
func NewChatHandler(router *assistant.Router) *ChatHandler {
	return &ChatHandler{router: router}
}

// Chat 对话接口
// @Summary 自然语言购物助手
// @Description 对查询分类后分派到商品检索、热门推荐或客服问答
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "用户查询"
// @Success 200 {object} dto.Response[dto.ChatResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		appErr := errors.ErrEmptyQuery
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
		})
		return
	}

	ctx := c.Request.Context()
	st, err := h.router.Invoke(ctx, req.Query)
	if err != nil {
		logger.Error(ctx, "chat invocation failed", err, "query_len", len(req.Query))
		if appErr, ok := err.(*errors.AppError); ok {
			dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
				ErrorCode: string(appErr.Code),
			})
			return
		}
		dto.InternalError(c, "something went wrong, please try again later")
		return
	}

	dto.Success(c, dto.NewChatResponse(st))
}
