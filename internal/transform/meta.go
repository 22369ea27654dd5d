package transform

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Meta holds parsed document metadata used by the manifest and preview
// layers. The rewrite path never goes through here: rewriting must preserve
// front-matter text byte-for-byte, while Meta decodes it into values.
type Meta struct {
	FrontMatter map[string]any
	Title       string
	CoverURL    string
}

// ParseMeta decodes the document's front matter and derives a title from
// the "title" field or, failing that, the first H1 heading. Invalid YAML
// degrades to empty metadata rather than an error.
func ParseMeta(source string) Meta {
	fmText, body := splitFrontMatter(source)

	var fm map[string]any
	if fmText != "" {
		if err := yaml.Unmarshal([]byte(fmText), &fm); err != nil {
			fm = nil
		}
	}

	return Meta{
		FrontMatter: fm,
		Title:       deriveTitle(fm, body),
		CoverURL:    stringField(fm, "cover_url"),
	}
}

// deriveTitle prefers the front-matter "title", then the first H1 heading.
func deriveTitle(fm map[string]any, body string) string {
	if t := stringField(fm, "title"); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

func stringField(fm map[string]any, key string) string {
	if fm == nil {
		return ""
	}
	if v, ok := fm[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
