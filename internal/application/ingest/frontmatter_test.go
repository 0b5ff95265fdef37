package ingest

import (
	"strings"
	"testing"
)

func TestParseFrontMatter(t *testing.T) {
	content := "---\ntitle: Return policy\ncategory: policies\n---\n\nItems can be returned within 30 days."

	meta, body := parseFrontMatter(content)
	if meta["title"] != "Return policy" {
		t.Errorf("title = %q", meta["title"])
	}
	if meta["category"] != "policies" {
		t.Errorf("category = %q", meta["category"])
	}
	if body != "Items can be returned within 30 days." {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontMatterAbsent(t *testing.T) {
	content := "# Shipping\n\nShipping takes 3-5 business days."

	meta, body := parseFrontMatter(content)
	if len(meta) != 0 {
		t.Errorf("meta = %v, want empty", meta)
	}
	if body != content {
		t.Errorf("body changed: %q", body)
	}
}

func TestParseFrontMatterUnclosed(t *testing.T) {
	content := "---\ntitle: Broken\nno closing delimiter"

	meta, body := parseFrontMatter(content)
	if len(meta) != 0 {
		t.Errorf("meta = %v, want empty", meta)
	}
	if body != content {
		t.Errorf("body changed: %q", body)
	}
}

func TestParseFrontMatterNonStringValues(t *testing.T) {
	content := "---\ntitle: FAQ\npriority: 3\ndraft: false\n---\nbody"

	meta, _ := parseFrontMatter(content)
	if meta["priority"] != "3" || meta["draft"] != "false" {
		t.Errorf("meta = %v, values must be stringified", meta)
	}
}

func TestFirstHeading(t *testing.T) {
	body := "intro line\n\n## Shipping times\n\nmore text"
	if got := firstHeading(body); got != "Shipping times" {
		t.Errorf("firstHeading = %q", got)
	}
	if got := firstHeading("no heading here"); got != "" {
		t.Errorf("firstHeading = %q, want empty", got)
	}
}

func TestDocSlug(t *testing.T) {
	cases := map[string]string{
		"Return Policy.md":  "return-policy",
		"shipping_info.md":  "shipping-info",
		"faq-2024.md":       "faq-2024",
		"ORDERS & BILLING.md": "orders---billing",
	}
	for in, want := range cases {
		if got := docSlug(in); got != want {
			t.Errorf("docSlug(%q) = %q, want %q", in, got, want)
		}
	}
	if strings.ContainsAny(docSlug("weird/.. name.md"), "/. ") {
		t.Error("slug must not contain path characters")
	}
}
