// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/domain/entity"
)

// ChatRequest 对话请求
type ChatRequest struct {
	Query string `json:"query"`
}

// ProductResponse 商品响应
type ProductResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

// ChatResponse 对话响应
type ChatResponse struct {
	Tool    string              `json:"tool"`
	Answer  string              `json:"answer"`
	Results []ProductResponse   `json:"results"`
	Sources []map[string]string `json:"sources"`
}

// NewProductResponse 由领域实体构建商品响应
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Image:       p.Image,
	}
}

// NewChatResponse 由路由终态构建对话响应
func NewChatResponse(st *assistant.State) ChatResponse {
	resp := ChatResponse{
		Tool:    string(st.Label),
		Answer:  st.Answer,
		Results: make([]ProductResponse, 0, len(st.Results)),
		Sources: st.Sources,
	}
	for _, p := range st.Results {
		if p == nil {
			continue
		}
		resp.Results = append(resp.Results, NewProductResponse(p))
	}
	if resp.Sources == nil {
		resp.Sources = []map[string]string{}
	}
	return resp
}
