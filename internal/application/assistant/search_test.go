package assistant

import (
	"context"
	"fmt"
	"testing"
)

func newSearchFixture(vec *fakeVectorIndex, repo *fakeProductRepo) *ProductSearch {
	rec := NewRecommender(repo, nil, 0)
	return NewProductSearch(&fakeEmbedder{}, vec, repo, rec, 5)
}

func TestSearchPreservesNeighborRank(t *testing.T) {
	repo := newFakeProductRepo(
		mkProduct(1, "backpack"),
		mkProduct(2, "jacket"),
		mkProduct(3, "ring"),
	)
	vec := newFakeVectorIndex()
	// 近邻排名 3, 1, 2；仓储会按逆序取数
	vec.matches[CollectionProducts] = []*Match{
		{Document: Document{ID: "3"}, Score: 0.9},
		{Document: Document{ID: "1"}, Score: 0.7},
		{Document: Document{ID: "2"}, Score: 0.5},
	}

	got, err := newSearchFixture(vec, repo).Search(context.Background(), "something shiny")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	wantIDs := []int64{3, 1, 2}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d products, want %d", len(got), len(wantIDs))
	}
	for i, p := range got {
		if p.ID != wantIDs[i] {
			t.Errorf("position %d: product %d, want %d", i, p.ID, wantIDs[i])
		}
	}
}

func TestSearchSkipsMissingAndMalformedIDs(t *testing.T) {
	repo := newFakeProductRepo(mkProduct(7, "lamp"))
	vec := newFakeVectorIndex()
	vec.matches[CollectionProducts] = []*Match{
		{Document: Document{ID: "not-a-number"}},
		{Document: Document{ID: "42"}}, // 索引残留，仓储中已不存在
		{Document: Document{ID: "7"}},
	}

	got, err := newSearchFixture(vec, repo).Search(context.Background(), "lamp")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("got %v, want only product 7", got)
	}
}

func TestSearchEmptyIndexFallsBackToRecommender(t *testing.T) {
	repo := newFakeProductRepo(
		mkProduct(1, "a"),
		mkProduct(2, "b"),
		mkProduct(3, "c"),
	)
	vec := newFakeVectorIndex()

	got, err := newSearchFixture(vec, repo).Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	rec, err := NewRecommender(repo, nil, 0).Recommend(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rec) {
		t.Fatalf("fallback returned %d products, recommender returns %d", len(got), len(rec))
	}
	for i := range got {
		if got[i].ID != rec[i].ID {
			t.Errorf("position %d: %d != %d", i, got[i].ID, rec[i].ID)
		}
	}
}

func TestSearchVectorErrorFallsBackToRecommender(t *testing.T) {
	repo := newFakeProductRepo(mkProduct(1, "a"), mkProduct(2, "b"))
	vec := newFakeVectorIndex()
	vec.searchErr = fmt.Errorf("milvus unreachable")

	got, err := newSearchFixture(vec, repo).Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search should degrade, got error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
}
