package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/domain/entity"
	"shop-assist-api/internal/infrastructure/embedding"
	"shop-assist-api/internal/infrastructure/llm"
	"shop-assist-api/internal/interfaces/http/dto"
)

type stubVectorIndex struct{}

func (stubVectorIndex) Upsert(ctx context.Context, collection string, docs []*assistant.Document) error {
	return nil
}

func (stubVectorIndex) Search(ctx context.Context, collection string, vector []float32, topK int) ([]*assistant.Match, error) {
	if collection == assistant.CollectionProducts {
		return []*assistant.Match{{Document: assistant.Document{ID: "1"}, Score: 0.9}}, nil
	}
	return nil, nil
}

func (stubVectorIndex) QueryAll(ctx context.Context, collection string) ([]*assistant.Document, error) {
	return []*assistant.Document{{
		ID:       "return-policy:0000",
		Text:     "You can return any item within 30 days.",
		Metadata: map[string]string{"title": "Return Policy"},
	}}, nil
}

type stubProductRepo struct{}

func (stubProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	return []*entity.Product{{ID: 1, Title: "Backpack", Price: 109.95}}, nil
}

func (stubProductRepo) ListOrdered(ctx context.Context, limit int) ([]*entity.Product, error) {
	return []*entity.Product{{ID: 1, Title: "Backpack", Price: 109.95}}, nil
}

func (stubProductRepo) Upsert(ctx context.Context, products []*entity.Product) error { return nil }

func (stubProductRepo) Count(ctx context.Context) (int64, error) { return 1, nil }

func newChatRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	embedder := embedding.NewOfflineEmbedder(8)
	vector := stubVectorIndex{}
	products := stubProductRepo{}

	classifier := assistant.NewClassifier(llm.NewFakeChatModel())
	recommender := assistant.NewRecommender(products, nil, 0)
	search := assistant.NewProductSearch(embedder, vector, products, recommender, 5)
	support := assistant.NewSupportAnswerer(embedder, vector, 3)
	router := assistant.NewRouter(classifier, search, recommender, support, 5)

	engine := gin.New()
	engine.POST("/v1/chat", NewChatHandler(router).Chat)
	return engine
}

func doChat(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestChatSearchIntent(t *testing.T) {
	engine := newChatRouter(t)
	w := doChat(t, engine, `{"query": "wireless headphones"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.Response[dto.ChatResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Tool != "search" {
		t.Errorf("expected search tool, got %q", resp.Data.Tool)
	}
	if len(resp.Data.Results) != 1 || resp.Data.Results[0].Title != "Backpack" {
		t.Errorf("unexpected results: %+v", resp.Data.Results)
	}
}

func TestChatSupportIntent(t *testing.T) {
	engine := newChatRouter(t)
	w := doChat(t, engine, `{"query": "how do i return an item"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.Response[dto.ChatResponse]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Tool != "support" {
		t.Errorf("expected support tool, got %q", resp.Data.Tool)
	}
	if resp.Data.Answer == "" {
		t.Error("support answer should not be empty")
	}
	if len(resp.Data.Results) != 0 {
		t.Errorf("support path should not carry products: %+v", resp.Data.Results)
	}
}

func TestChatRejectsEmptyQuery(t *testing.T) {
	engine := newChatRouter(t)

	for _, body := range []string{`{"query": ""}`, `{"query": "   "}`} {
		w := doChat(t, engine, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestChatRejectsMalformedBody(t *testing.T) {
	engine := newChatRouter(t)
	w := doChat(t, engine, `{"query": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
