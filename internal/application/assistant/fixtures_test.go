package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"shop-assist-api/internal/domain/entity"
)

// fakeChatModel 返回固定回复或固定错误
type fakeChatModel struct {
	reply string
	err   error
}

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// fakeEmbedder 按文本长度生成占位向量
type fakeEmbedder struct {
	err error
}

func (e *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = []float64{float64(len(t)), 1, 0}
	}
	return out, nil
}

// fakeVectorIndex 以预置结果响应检索
type fakeVectorIndex struct {
	matches   map[string][]*Match
	searchErr error

	docs     map[string][]*Document
	queryErr error

	upserted map[string][]*Document
}

func newFakeVectorIndex() *fakeVectorIndex {
	return &fakeVectorIndex{
		matches:  map[string][]*Match{},
		docs:     map[string][]*Document{},
		upserted: map[string][]*Document{},
	}
}

func (f *fakeVectorIndex) Upsert(ctx context.Context, collection string, docs []*Document) error {
	f.upserted[collection] = append(f.upserted[collection], docs...)
	return nil
}

func (f *fakeVectorIndex) Search(ctx context.Context, collection string, vector []float32, topK int) ([]*Match, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	out := f.matches[collection]
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func (f *fakeVectorIndex) QueryAll(ctx context.Context, collection string) ([]*Document, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.docs[collection], nil
}

// fakeProductRepo 内存商品仓储。
// GetByIDs 刻意按入参逆序返回，暴露依赖取数顺序的调用方。
type fakeProductRepo struct {
	products map[int64]*entity.Product

	getErr  error
	listErr error
}

func newFakeProductRepo(items ...*entity.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: map[int64]*entity.Product{}}
	for _, p := range items {
		repo.products[p.ID] = p
	}
	return repo
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make([]*entity.Product, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		if p, ok := f.products[ids[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListOrdered(ctx context.Context, limit int) ([]*entity.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*entity.Product, 0, limit)
	var id int64
	for id = 0; id < 1000 && len(out) < limit; id++ {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Upsert(ctx context.Context, products []*entity.Product) error {
	for _, p := range products {
		f.products[p.ID] = p
	}
	return nil
}

func (f *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

func mkProduct(id int64, title string) *entity.Product {
	return &entity.Product{
		ID:          id,
		Title:       title,
		Description: fmt.Sprintf("%s description", title),
		Category:    "test",
		Price:       float64(id) * 10,
	}
}
