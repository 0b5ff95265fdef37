package assistant

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func newSupportFixture(vec *fakeVectorIndex) *SupportAnswerer {
	return NewSupportAnswerer(&fakeEmbedder{}, vec, 3)
}

func TestSupportLexicalConfirmationBeatsVectorRank(t *testing.T) {
	vec := newFakeVectorIndex()
	// 向量排名第一的候选不含任何查询词，第二个含 "return"
	vec.matches[CollectionSupportKB] = []*Match{
		{Document: Document{ID: "a", Text: "Our store opened in 2015.", Metadata: map[string]string{"title": "About us"}}, Score: 0.99},
		{Document: Document{ID: "b", Text: "You can return items within 30 days.", Metadata: map[string]string{"title": "Return policy"}}, Score: 0.42},
	}

	ans := newSupportFixture(vec).Answer(context.Background(), "how do I return an item")
	if !strings.Contains(ans.Answer, "return items within 30 days") {
		t.Errorf("answer %q does not use the lexically confirmed article", ans.Answer)
	}
	if len(ans.Sources) != 1 || ans.Sources[0]["title"] != "Return policy" {
		t.Errorf("sources = %v, want only the confirmed article", ans.Sources)
	}
}

func TestSupportFallsBackToVectorRankWhenNoLexicalHit(t *testing.T) {
	vec := newFakeVectorIndex()
	vec.matches[CollectionSupportKB] = []*Match{
		{Document: Document{ID: "a", Text: "Alpha body.", Metadata: map[string]string{"title": "Alpha"}}, Score: 0.9},
		{Document: Document{ID: "b", Text: "Beta body.", Metadata: map[string]string{"title": "Beta"}}, Score: 0.5},
	}

	ans := newSupportFixture(vec).Answer(context.Background(), "zzz qqq")
	if !strings.Contains(ans.Answer, "Alpha body.") {
		t.Errorf("answer %q should come from the top vector match", ans.Answer)
	}
	if len(ans.Sources) != 2 {
		t.Errorf("sources = %v, want all vector candidates", ans.Sources)
	}
}

func TestSupportLexicalScanWhenVectorFails(t *testing.T) {
	vec := newFakeVectorIndex()
	vec.searchErr = fmt.Errorf("milvus unreachable")
	vec.docs[CollectionSupportKB] = []*Document{
		{ID: "1", Text: "Alpha body.", Metadata: map[string]string{"title": "Alpha"}},
		{ID: "2", Text: "Shipping takes 3-5 business days.", Metadata: map[string]string{"title": "Shipping"}},
	}

	ans := newSupportFixture(vec).Answer(context.Background(), "how long does shipping take")
	if !strings.Contains(ans.Answer, "3-5 business days") {
		t.Errorf("answer %q should come from the lexical scan", ans.Answer)
	}
}

func TestSupportApologyWhenNothingMatches(t *testing.T) {
	vec := newFakeVectorIndex()
	vec.docs[CollectionSupportKB] = []*Document{
		{ID: "1", Text: "Unrelated article.", Metadata: map[string]string{"title": "Misc"}},
	}

	ans := newSupportFixture(vec).Answer(context.Background(), "zzz qqq")
	if ans.Answer != AnswerNoMatch {
		t.Errorf("answer = %q, want apology", ans.Answer)
	}
	if ans.Sources == nil || len(ans.Sources) != 0 {
		t.Errorf("sources = %v, want empty non-nil slice", ans.Sources)
	}
}

func TestSupportLexicalScanRespectsCollectionOrderAndCap(t *testing.T) {
	vec := newFakeVectorIndex()
	for i := 1; i <= 6; i++ {
		vec.docs[CollectionSupportKB] = append(vec.docs[CollectionSupportKB], &Document{
			ID:       fmt.Sprintf("%d", i),
			Text:     fmt.Sprintf("shipping note %d", i),
			Metadata: map[string]string{"title": "Shipping"},
		})
	}

	ans := newSupportFixture(vec).Answer(context.Background(), "shipping")
	if !strings.Contains(ans.Answer, "shipping note 1") {
		t.Errorf("answer %q should use the first document in collection order", ans.Answer)
	}
	if len(ans.Sources) != 3 {
		t.Errorf("got %d sources, want cap of 3", len(ans.Sources))
	}
}

func TestComposeAnswerPrependsTitle(t *testing.T) {
	doc := &Document{
		Text:     "Items can be returned within 30 days.",
		Metadata: map[string]string{"title": "Return policy"},
	}
	got := composeAnswer(doc)
	if !strings.HasPrefix(got, "Return policy\n\n") {
		t.Errorf("answer %q should start with the title", got)
	}

	// 标题已出现在正文中时不重复
	doc2 := &Document{
		Text:     "Return policy: items can be returned within 30 days.",
		Metadata: map[string]string{"title": "Return policy"},
	}
	got2 := composeAnswer(doc2)
	if strings.Count(got2, "Return policy") != 1 {
		t.Errorf("answer %q duplicates the title", got2)
	}
}
