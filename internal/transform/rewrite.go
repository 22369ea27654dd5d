// Package transform implements the document pipeline that converts
// authoring-format Markdown into publishing-format MDX: front-matter and
// image-link rewriting followed by block classification and wrapping.
package transform

import (
	"regexp"
	"strings"
)

var (
	imageLinkRe = regexp.MustCompile(`!\[([^\]]*)\]\(images/([^)]*)\)`)
	coverLineRe = regexp.MustCompile(`(?m)^cover_url:[ \t]*(.*)$`)
)

// RewriteResult holds the output of the front-matter and link rewriter.
type RewriteResult struct {
	FrontMatter string // front-matter content without the --- fences
	Body        string // document body, images already rewritten
	Text        string // full reassembled document: ---\n<fm>\n---\n<body>
}

// Rewrite rewrites all inline images/ links to absolute site URLs, rewrites
// the cover_url front-matter field, and reassembles the document with a
// front-matter fence. A document without front matter gains an empty
// front-matter block so downstream consumers always find one.
func Rewrite(source, urlPrefix string) RewriteResult {
	text := RewriteImageLinks(source, urlPrefix)
	fm, body := splitFrontMatter(text)
	fm = rewriteCover(fm, urlPrefix)
	return RewriteResult{
		FrontMatter: fm,
		Body:        body,
		Text:        "---\n" + fm + "\n---\n" + body,
	}
}

// RewriteImageLinks replaces the path portion of every ![alt](images/...)
// reference with urlPrefix + "images/" + rest. Alt text and surrounding
// markup pass through verbatim; targets not under images/ are untouched.
// Matching is not anchored to block boundaries.
func RewriteImageLinks(text, urlPrefix string) string {
	return imageLinkRe.ReplaceAllString(text, "![$1]("+urlPrefix+"images/$2)")
}

// Split separates a document into front-matter content and body. It is the
// read-only counterpart of Rewrite used by preview and metadata consumers.
func Split(text string) (frontMatter, body string) {
	return splitFrontMatter(text)
}

// splitFrontMatter separates front matter (between a leading --- line and a
// later line that is exactly ---) from the body. The fence content is
// returned without the delimiters. A missing or unterminated closing fence
// means no front matter: the whole input is body.
func splitFrontMatter(text string) (fm, body string) {
	rest, ok := strings.CutPrefix(text, "---\n")
	if !ok {
		return "", text
	}
	// Empty front matter: closing fence immediately follows the opening one.
	if after, found := strings.CutPrefix(rest, "---\n"); found {
		return "", after
	}
	if idx := strings.Index(rest, "\n---\n"); idx >= 0 {
		return rest[:idx], rest[idx+len("\n---\n"):]
	}
	if inner, found := strings.CutSuffix(rest, "\n---"); found {
		return inner, ""
	}
	// Unterminated fence degrades to "no front matter detected".
	return "", text
}

// rewriteCover rewrites the cover_url line inside front-matter content.
// Absolute values (http..., /...) are left byte-identical. A vault-relative
// value has surrounding quotes and [[ ]] wiki brackets stripped and is
// joined onto urlPrefix. When the key is missing entirely, an empty
// cover_url line is appended so the key is always present.
//
// One match drives both detection and substitution, so every value the
// detection accepts is also rewritten.
func rewriteCover(fm, urlPrefix string) string {
	m := coverLineRe.FindStringSubmatchIndex(fm)
	if m == nil {
		return fm + "\ncover_url: "
	}
	value := strings.TrimSpace(fm[m[2]:m[3]])
	target := strings.Trim(value, `"'`)
	target = strings.TrimPrefix(target, "[[")
	target = strings.TrimSuffix(target, "]]")
	if target == "" || strings.HasPrefix(target, "http") || strings.HasPrefix(target, "/") {
		return fm
	}
	return fm[:m[0]] + "cover_url: " + urlPrefix + target + fm[m[1]:]
}
