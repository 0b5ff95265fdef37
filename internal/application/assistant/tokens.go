package assistant

import "strings"

// stopWords 词法匹配时忽略的高频词：冠词、be 动词、疑问词。
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "whom": {}, "whose": {}, "why": {}, "how": {},
	"do": {}, "does": {}, "can": {}, "i": {}, "my": {}, "your": {},
}

// queryTokens 将 query 切分为小写词集合，剔除停用词。
func queryTokens(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isWordRune(r)
	})

	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r >= 'A' && r <= 'Z'
}

// containsAnyToken 检查文本或任一 metadata 值中是否逐字出现某个查询词。
func containsAnyToken(text string, metadata map[string]string, tokens []string) bool {
	lowered := strings.ToLower(text)
	for _, tok := range tokens {
		if strings.Contains(lowered, tok) {
			return true
		}
		for _, v := range metadata {
			if strings.Contains(strings.ToLower(v), tok) {
				return true
			}
		}
	}
	return false
}
