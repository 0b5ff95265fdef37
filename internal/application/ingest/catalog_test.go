package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/config"
)

const catalogPayload = `[
  {"id": 1, "title": "Fjallraven Backpack", "price": 109.95, "description": "Fits 15 inch laptops", "category": "men's clothing", "image": "https://img/1.jpg"},
  {"id": 2, "title": "Mens Casual T-Shirt", "price": 22.3, "description": "Slim fitting", "category": "men's clothing", "image": "https://img/2.jpg"},
  {"id": 3, "title": "Gold Petite Micropave", "price": 168.0, "description": "", "category": "jewelery", "image": "https://img/3.jpg"}
]`

func newCatalogFixture(t *testing.T, handler http.HandlerFunc) (*CatalogIngestor, *fakeProductRepo, *fakeVectorIndex, *fakeInvalidator) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo := &fakeProductRepo{}
	vector := newFakeVectorIndex()
	cache := &fakeInvalidator{}
	cfg := &config.CatalogConfig{FakeStoreURL: srv.URL, FetchTimeout: 5 * time.Second}
	ing := NewCatalogIngestor(cfg, repo, &fakeEmbedder{}, vector, cache, 2)
	return ing, repo, vector, cache
}

func TestCatalogIngestStoresAndIndexes(t *testing.T) {
	ing, repo, vector, cache := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(catalogPayload))
	})

	count, err := ing.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products, got %d", count)
	}

	if len(repo.stored) != 3 {
		t.Fatalf("expected 3 stored products, got %d", len(repo.stored))
	}
	if repo.stored[0].Title != "Fjallraven Backpack" || repo.stored[0].Price != 109.95 {
		t.Errorf("unexpected first product: %+v", repo.stored[0])
	}

	docs := vector.upserted[assistant.CollectionProducts]
	if len(docs) != 3 {
		t.Fatalf("expected 3 indexed documents, got %d", len(docs))
	}
	if docs[0].ID != "1" || docs[1].ID != "2" || docs[2].ID != "3" {
		t.Errorf("document ids should be product ids: %s %s %s", docs[0].ID, docs[1].ID, docs[2].ID)
	}
	if docs[2].Metadata["title"] != "Gold Petite Micropave" || docs[2].Metadata["category"] != "jewelery" {
		t.Errorf("unexpected document metadata: %v", docs[2].Metadata)
	}
	for i, doc := range docs {
		if len(doc.Vector) == 0 {
			t.Errorf("document %d has no vector", i)
		}
	}

	if cache.invalidated != 1 {
		t.Errorf("expected one cache invalidation, got %d", cache.invalidated)
	}
}

func TestCatalogIngestRejectsUpstreamError(t *testing.T) {
	ing, repo, _, cache := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	if _, err := ing.Run(context.Background()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
	if len(repo.stored) != 0 {
		t.Errorf("nothing should be stored on fetch failure")
	}
	if cache.invalidated != 0 {
		t.Errorf("cache should stay untouched on fetch failure")
	}
}

func TestCatalogIngestEmptySource(t *testing.T) {
	ing, repo, vector, cache := newCatalogFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	count, err := ing.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 products, got %d", count)
	}
	if len(repo.stored) != 0 || len(vector.upserted[assistant.CollectionProducts]) != 0 {
		t.Error("empty source must not write anywhere")
	}
	if cache.invalidated != 0 {
		t.Error("empty source must not invalidate the cache")
	}
}
