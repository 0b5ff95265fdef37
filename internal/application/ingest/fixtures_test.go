package ingest

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/domain/entity"
)

type fakeEmbedder struct {
	calls int
	err   error
}

func (e *fakeEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.calls++
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{1, 0, 0}
	}
	return out, nil
}

type fakeVectorIndex struct {
	upserted map[string][]*assistant.Document
	err      error
}

func newFakeVectorIndex() *fakeVectorIndex {
	return &fakeVectorIndex{upserted: map[string][]*assistant.Document{}}
}

func (f *fakeVectorIndex) Upsert(ctx context.Context, collection string, docs []*assistant.Document) error {
	if f.err != nil {
		return f.err
	}
	f.upserted[collection] = append(f.upserted[collection], docs...)
	return nil
}

func (f *fakeVectorIndex) Search(ctx context.Context, collection string, vector []float32, topK int) ([]*assistant.Match, error) {
	return nil, nil
}

func (f *fakeVectorIndex) QueryAll(ctx context.Context, collection string) ([]*assistant.Document, error) {
	return f.upserted[collection], nil
}

type fakeProductRepo struct {
	stored []*entity.Product
	err    error
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	return nil, nil
}

func (f *fakeProductRepo) ListOrdered(ctx context.Context, limit int) ([]*entity.Product, error) {
	return f.stored, nil
}

func (f *fakeProductRepo) Upsert(ctx context.Context, products []*entity.Product) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, products...)
	return nil
}

func (f *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.stored)), nil
}

type fakeInvalidator struct {
	invalidated int
}

func (f *fakeInvalidator) InvalidateRecommendations(ctx context.Context) error {
	f.invalidated++
	return nil
}
