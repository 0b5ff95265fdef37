package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shop-assist-api/internal/application/assistant"
	"shop-assist-api/internal/config"
)

func writeKBFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestKBIngestChunksAndMetadata(t *testing.T) {
	dir := t.TempDir()
	writeKBFile(t, dir, "return-policy.md", `---
title: Return Policy
topic: returns
---
You can return any item within 30 days of delivery for a full refund.`)
	writeKBFile(t, dir, "shipping.md", "# Shipping Times\n\nStandard shipping takes 3 to 5 business days.")
	writeKBFile(t, dir, "notes.txt", "not markdown, must be ignored")

	vector := newFakeVectorIndex()
	cfg := &config.SupportKBConfig{ChunkSize: 500, ChunkOverlap: 50}
	ing := NewKBIngestor(cfg, &fakeEmbedder{}, vector, 4)

	count, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 chunks, got %d", count)
	}

	docs := vector.upserted[assistant.CollectionSupportKB]
	if len(docs) != 2 {
		t.Fatalf("expected 2 indexed documents, got %d", len(docs))
	}

	// 文件名按字典序处理，return-policy 在 shipping 前
	first := docs[0]
	if first.ID != "return-policy:0000" {
		t.Errorf("unexpected chunk id %q", first.ID)
	}
	if first.Metadata["title"] != "Return Policy" {
		t.Errorf("front matter title should win, got %q", first.Metadata["title"])
	}
	if first.Metadata["source"] != "return-policy.md" || first.Metadata["chunk"] != "0" {
		t.Errorf("unexpected chunk metadata: %v", first.Metadata)
	}
	if first.Metadata["topic"] != "returns" {
		t.Errorf("extra front matter keys should pass through, got %v", first.Metadata)
	}
	if len(first.Vector) == 0 {
		t.Error("chunk should carry a vector")
	}

	second := docs[1]
	if second.ID != "shipping:0000" {
		t.Errorf("unexpected chunk id %q", second.ID)
	}
	if second.Metadata["title"] != "Shipping Times" {
		t.Errorf("heading should become the title, got %q", second.Metadata["title"])
	}
}

func TestKBIngestSplitsLongDocument(t *testing.T) {
	dir := t.TempDir()
	body := strings.Repeat("All orders ship from our central warehouse. ", 20)
	writeKBFile(t, dir, "warehouse.md", body)

	vector := newFakeVectorIndex()
	cfg := &config.SupportKBConfig{ChunkSize: 200, ChunkOverlap: 20}
	ing := NewKBIngestor(cfg, &fakeEmbedder{}, vector, 4)

	count, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count < 2 {
		t.Fatalf("long document should split into multiple chunks, got %d", count)
	}

	docs := vector.upserted[assistant.CollectionSupportKB]
	for i, doc := range docs {
		want := "warehouse:"
		if !strings.HasPrefix(doc.ID, want) {
			t.Errorf("chunk %d id %q should start with %q", i, doc.ID, want)
		}
		if doc.Metadata["source"] != "warehouse.md" {
			t.Errorf("chunk %d has wrong source %q", i, doc.Metadata["source"])
		}
	}
	// 零填充序号保证集合扫描顺序与分块顺序一致
	if docs[0].ID != "warehouse:0000" || docs[1].ID != "warehouse:0001" {
		t.Errorf("chunk ids should be zero padded in order: %s %s", docs[0].ID, docs[1].ID)
	}
}

func TestKBIngestSkipsEmptyBody(t *testing.T) {
	dir := t.TempDir()
	writeKBFile(t, dir, "empty.md", "---\ntitle: Empty\n---\n   \n")
	writeKBFile(t, dir, "faq.md", "How do I track my order? Use the tracking link in your email.")

	vector := newFakeVectorIndex()
	cfg := &config.SupportKBConfig{ChunkSize: 500, ChunkOverlap: 50}
	ing := NewKBIngestor(cfg, &fakeEmbedder{}, vector, 4)

	count, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected empty document to be skipped, got %d chunks", count)
	}
	if vector.upserted[assistant.CollectionSupportKB][0].Metadata["source"] != "faq.md" {
		t.Error("only the non-empty document should be indexed")
	}
}

func TestKBIngestEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	vector := newFakeVectorIndex()
	cfg := &config.SupportKBConfig{ChunkSize: 500, ChunkOverlap: 50}
	ing := NewKBIngestor(cfg, &fakeEmbedder{}, vector, 4)

	count, err := ing.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 chunks from empty directory, got %d", count)
	}

	if _, err := ing.Run(context.Background(), filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
