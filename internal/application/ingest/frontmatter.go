package ingest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// parseFrontMatter 解析 Markdown 文档头部的 YAML front matter。
// 无 front matter 或分隔符未闭合时返回空元数据与原文。
// 元数据值统一转为字符串。
func parseFrontMatter(content string) (map[string]string, string) {
	meta := map[string]string{}

	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontMatterDelimiter+"\n") {
		return meta, content
	}

	rest := normalized[len(frontMatterDelimiter)+1:]
	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx < 0 {
		return meta, content
	}

	head := rest[:idx]
	body := rest[idx+len("\n"+frontMatterDelimiter):]
	body = strings.TrimPrefix(body, "\n")

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(head), &raw); err != nil {
		return map[string]string{}, content
	}
	for k, v := range raw {
		meta[k] = fmt.Sprintf("%v", v)
	}
	return meta, strings.TrimSpace(body)
}

// firstHeading 提取正文中第一个 Markdown 标题
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}
