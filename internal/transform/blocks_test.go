package transform

import (
	"reflect"
	"testing"
)

func TestSplitBlocks_BasicOrder(t *testing.T) {
	got := SplitBlocks("one\n\ntwo\n\n\nthree")
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("blocks = %v, want %v", got, want)
	}
}

func TestSplitBlocks_WhitespaceOnlySeparators(t *testing.T) {
	got := SplitBlocks("a\n  \nb")
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("blocks = %v, want %v", got, want)
	}
}

func TestSplitBlocks_MultilineBlockKeptTogether(t *testing.T) {
	got := SplitBlocks("line one\nline two\n\nnext")
	want := []string{"line one\nline two", "next"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("blocks = %v, want %v", got, want)
	}
}

func TestSplitBlocks_Empty(t *testing.T) {
	if got := SplitBlocks(""); len(got) != 0 {
		t.Errorf("expected no blocks, got %v", got)
	}
	if got := SplitBlocks("\n\n\n"); len(got) != 0 {
		t.Errorf("expected no blocks from blank input, got %v", got)
	}
}

func TestClassify_Headings(t *testing.T) {
	for _, block := range []string{"# Title", "## Section"} {
		if got := Classify(block); got != KindHeading {
			t.Errorf("Classify(%q) = %v, want KindHeading", block, got)
		}
	}
	// Three or more hashes are not treated as headings by the wrapper.
	if got := Classify("### Deep"); got == KindHeading {
		t.Error("### must not classify as heading")
	}
}

func TestClassify_HeadingWinsOverImage(t *testing.T) {
	block := "# Title ![icon](images/i.png)"
	if got := Classify(block); got != KindHeading {
		t.Errorf("Classify = %v, want KindHeading (heading check has top priority)", got)
	}
}

func TestClassify_StandaloneImageIsOpaque(t *testing.T) {
	if got := Classify("![cover](images/c.png)"); got != KindOpaque {
		t.Errorf("Classify = %v, want KindOpaque", got)
	}
}

func TestClassify_FrontMatterFenceIsOpaque(t *testing.T) {
	blocks := []string{
		"---",
		"---\ntitle: x\n---\nintro line",
		"cover_url: \n---\nintro line",
	}
	for _, b := range blocks {
		if got := Classify(b); got != KindOpaque {
			t.Errorf("Classify(%q) = %v, want KindOpaque", b, got)
		}
	}
}

func TestClassify_ComponentTagIsOpaque(t *testing.T) {
	blocks := []string{
		"<Callout type=\"info\">note</Callout>",
		"text around <Figure src=\"x\"> inline",
	}
	for _, b := range blocks {
		if got := Classify(b); got != KindOpaque {
			t.Errorf("Classify(%q) = %v, want KindOpaque", b, got)
		}
	}
}

func TestClassify_Plain(t *testing.T) {
	blocks := []string{
		"Just a paragraph.",
		"An inline ![img](images/x.png) inside a sentence.",
		"A [link](somewhere) too.",
	}
	for _, b := range blocks {
		if got := Classify(b); got != KindPlain {
			t.Errorf("Classify(%q) = %v, want KindPlain", b, got)
		}
	}
}
