package server

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/arnestad/mdxpress/internal/storage"
	"github.com/arnestad/mdxpress/internal/transform"
)

// wrapperLineRe matches standalone component wrapper lines. They are
// stripped before rendering: goldmark would otherwise treat a whole
// wrapped unit as one raw HTML block and skip the Markdown inside it.
var wrapperLineRe = regexp.MustCompile(`(?m)^</?[A-Z][A-Za-z0-9]*(\s[^>]*)?>$\n?`)

// Renderer turns pushed .mdx documents into browsable HTML so the output
// can be checked before the real site build runs.
type Renderer struct {
	dst storage.Provider
	md  goldmark.Markdown
}

// NewRenderer creates a preview renderer over the destination tree.
func NewRenderer(dst storage.Provider) *Renderer {
	return &Renderer{
		dst: dst,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
	}
}

// Render reads a destination file and returns an HTML page for it.
func (r *Renderer) Render(path string) ([]byte, error) {
	data, err := r.dst.Read(path)
	if err != nil {
		return nil, err
	}

	meta := transform.ParseMeta(string(data))
	_, body := transform.Split(string(data))
	body = wrapperLineRe.ReplaceAllString(body, "")

	var rendered bytes.Buffer
	if err := r.md.Convert([]byte(body), &rendered); err != nil {
		return nil, fmt.Errorf("preview: render %s: %w", path, err)
	}

	title := meta.Title
	if title == "" {
		title = path
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(title))
	page.Write(rendered.Bytes())
	page.WriteString("\n</body>\n</html>\n")
	return page.Bytes(), nil
}
