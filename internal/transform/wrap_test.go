package transform

import (
	"regexp"
	"strings"
	"testing"
)

func TestWrap_HeadingThenPlainRun(t *testing.T) {
	got := Wrap("# Title\n\nSome text.\n\nMore text.", "W", "H")
	want := "<H>\n# Title\n</H>\n\n<W>\nSome text.\n\nMore text.\n</W>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWrap_ConsecutivePlainMergedIntoOneUnit(t *testing.T) {
	got := Wrap("First.\n\nSecond.", "W", "H")
	if strings.Count(got, "<W>") != 1 {
		t.Errorf("consecutive plain blocks must share one wrapper, got %q", got)
	}
}

func TestWrap_PlainThenOpaqueSeparateUnits(t *testing.T) {
	got := Wrap("Paragraph.\n\n![img](pics/x.png)", "W", "H")
	want := "<W>\nParagraph.\n</W>\n\n![img](pics/x.png)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWrap_StandaloneImageOnly(t *testing.T) {
	in := "![cover](/work/proj/images/c.png)"
	got := Wrap(in, "W", "H")
	if got != in {
		t.Errorf("standalone image must pass through unwrapped, got %q", got)
	}
}

func TestWrap_OnlyHeadingsAndOpaque(t *testing.T) {
	got := Wrap("# A\n\n![i](x.png)\n\n## B", "W", "H")
	if strings.Contains(got, "<W>") {
		t.Errorf("no plain blocks means no group wrapper, got %q", got)
	}
	want := "<H>\n# A\n</H>\n\n![i](x.png)\n\n<H>\n## B\n</H>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWrap_TrailingRunFlushed(t *testing.T) {
	got := Wrap("# H\n\nlast paragraph", "W", "H")
	if !strings.HasSuffix(got, "<W>\nlast paragraph\n</W>") {
		t.Errorf("trailing run must be flushed, got %q", got)
	}
}

func TestWrap_Empty(t *testing.T) {
	if got := Wrap("", "W", "H"); got != "" {
		t.Errorf("empty input must produce empty output, got %q", got)
	}
}

func TestWrap_DefaultTags(t *testing.T) {
	got := Wrap("# T\n\ntext", "", "")
	if !strings.Contains(got, "<"+DefaultHeadingTag+">") || !strings.Contains(got, "<"+DefaultGroupTag+">") {
		t.Errorf("empty tag names must fall back to defaults, got %q", got)
	}
}

func TestWrap_FrontMatterPassesThrough(t *testing.T) {
	in := "---\ntitle: x\ncover_url: /p/c.png\n---\nintro paragraph\n\nsecond paragraph"
	got := Wrap(in, "W", "H")
	if !strings.HasPrefix(got, "---\ntitle: x") {
		t.Errorf("front-matter block must lead the output unwrapped, got %q", got)
	}
}

// No block may be lost or duplicated: stripping wrapper tag lines from the
// output and re-splitting must reproduce the input's blocks exactly.
func TestWrap_Completeness(t *testing.T) {
	inputs := []string{
		"# Title\n\nSome text.\n\nMore text.",
		"para one\n\n![i](images/x.png)\n\npara two\n\n## Head\n\nfinal",
		"<Callout>hi</Callout>\n\nplain\n\nplain two",
		"solo paragraph",
	}
	tagLine := regexp.MustCompile(`(?m)^</?(W|H)>$\n?`)
	for _, in := range inputs {
		out := Wrap(in, "W", "H")
		stripped := tagLine.ReplaceAllString(out, "")
		gotBlocks := SplitBlocks(stripped)
		wantBlocks := SplitBlocks(in)
		if len(gotBlocks) != len(wantBlocks) {
			t.Errorf("input %q: got %d blocks, want %d\noutput: %q", in, len(gotBlocks), len(wantBlocks), out)
			continue
		}
		for i := range wantBlocks {
			if gotBlocks[i] != wantBlocks[i] {
				t.Errorf("input %q: block %d = %q, want %q", in, i, gotBlocks[i], wantBlocks[i])
			}
		}
	}
}
