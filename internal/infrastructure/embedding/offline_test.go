package embedding

import (
	"context"
	"testing"
)

func TestOfflineEmbedderDeterministic(t *testing.T) {
	e := NewOfflineEmbedder(64)
	ctx := context.Background()

	first, err := e.EmbedStrings(ctx, []string{"wireless headphones"})
	if err != nil {
		t.Fatalf("EmbedStrings failed: %v", err)
	}
	second, err := e.EmbedStrings(ctx, []string{"wireless headphones"})
	if err != nil {
		t.Fatalf("EmbedStrings failed: %v", err)
	}

	if len(first) != 1 || len(first[0]) != 64 {
		t.Fatalf("unexpected shape: %d x %d", len(first), len(first[0]))
	}
	for i := range first[0] {
		if first[0][i] != second[0][i] {
			t.Fatalf("component %d differs across calls: %v vs %v", i, first[0][i], second[0][i])
		}
	}
}

func TestOfflineEmbedderDistinguishesTexts(t *testing.T) {
	e := NewOfflineEmbedder(32)
	vectors, err := e.EmbedStrings(context.Background(), []string{"return policy", "gaming laptop"})
	if err != nil {
		t.Fatalf("EmbedStrings failed: %v", err)
	}

	same := true
	for i := range vectors[0] {
		if vectors[0][i] != vectors[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts should not map to the same vector")
	}
}

func TestOfflineEmbedderRange(t *testing.T) {
	e := NewOfflineEmbedder(0)
	if e.Dimension() != 1536 {
		t.Fatalf("expected default dimension 1536, got %d", e.Dimension())
	}

	vectors, err := e.EmbedStrings(context.Background(), []string{"anything"})
	if err != nil {
		t.Fatalf("EmbedStrings failed: %v", err)
	}
	for i, v := range vectors[0] {
		if v < -1 || v >= 1 {
			t.Fatalf("component %d out of range: %v", i, v)
		}
	}
}
