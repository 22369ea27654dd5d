package transform

import (
	"regexp"
	"strings"
)

// BlockKind classifies a block for the wrapping pass.
type BlockKind int

const (
	// KindPlain blocks are grouped and wrapped in the content tag.
	KindPlain BlockKind = iota
	// KindHeading blocks (# or ## at line start) get their own wrapper.
	KindHeading
	// KindOpaque blocks pass through unmodified: front-matter fences,
	// standalone image lines, and custom component markup.
	KindOpaque
)

var (
	blockSepRe  = regexp.MustCompile(`\n\s*\n`)
	headingRe   = regexp.MustCompile(`^#{1,2} `)
	fenceLineRe = regexp.MustCompile(`(?m)^---$`)
	imageLineRe = regexp.MustCompile(`(?m)^!\[[^\]]*\]\([^)]*\)[ \t]*$`)
	componentRe = regexp.MustCompile(`<[A-Za-z][A-Za-z0-9]*(\s[^>]*)?>`)
)

// SplitBlocks splits text into maximal runs separated by blank lines,
// trimmed of surrounding whitespace, in document order. Empty blocks are
// dropped; everything else is preserved exactly.
func SplitBlocks(text string) []string {
	var out []string
	for _, raw := range blockSepRe.Split(text, -1) {
		b := strings.TrimSpace(raw)
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Classify returns the kind of a single block. Evaluation order is
// Heading > Opaque > Plain: a heading that happens to contain an image is
// still a heading. Classification is pure and depends only on block text.
func Classify(block string) BlockKind {
	switch {
	case headingRe.MatchString(block):
		return KindHeading
	case strings.HasPrefix(block, "---"),
		fenceLineRe.MatchString(block),
		imageLineRe.MatchString(block),
		componentRe.MatchString(block):
		return KindOpaque
	default:
		return KindPlain
	}
}
