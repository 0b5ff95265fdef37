package assistant

import (
	"reflect"
	"testing"
)

func TestQueryTokens(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"How do I return an item?", []string{"return", "item"}},
		{"What is your shipping policy", []string{"shipping", "policy"}},
		{"red RED red shoes", []string{"red", "shoes"}},
		{"the a an is", []string{}},
		{"", []string{}},
	}
	for _, tc := range cases {
		got := queryTokens(tc.query)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("queryTokens(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestContainsAnyToken(t *testing.T) {
	meta := map[string]string{"title": "Return policy"}

	if !containsAnyToken("items ship in two days", nil, []string{"ship"}) {
		t.Error("expected hit on text")
	}
	if !containsAnyToken("unrelated body", meta, []string{"return"}) {
		t.Error("expected hit on metadata value")
	}
	if containsAnyToken("unrelated body", meta, []string{"warranty"}) {
		t.Error("unexpected hit")
	}
	if containsAnyToken("anything", meta, nil) {
		t.Error("empty token set must never match")
	}
}
