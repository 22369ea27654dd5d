package transform

import "strings"

// Default wrapper tag names.
const (
	DefaultGroupTag   = "ContentWrapper"
	DefaultHeadingTag = "HeadingWrapper"
)

// Wrap splits text into blocks and re-emits them with presentation
// containers: consecutive Plain blocks are merged into one groupTag unit,
// each Heading block gets its own headingTag unit, and Opaque blocks pass
// through unwrapped. Output units are joined with a blank line.
//
// The walk carries one piece of state, the pending plain-text run. A
// Heading or Opaque block flushes the run before emitting itself; end of
// input flushes any remainder so no run is left dangling.
func Wrap(text, groupTag, headingTag string) string {
	if groupTag == "" {
		groupTag = DefaultGroupTag
	}
	if headingTag == "" {
		headingTag = DefaultHeadingTag
	}

	var units []string
	var run []string

	flush := func() {
		if len(run) == 0 {
			return
		}
		units = append(units, wrapUnit(groupTag, strings.Join(run, "\n\n")))
		run = run[:0]
	}

	for _, block := range SplitBlocks(text) {
		switch Classify(block) {
		case KindHeading:
			flush()
			units = append(units, wrapUnit(headingTag, block))
		case KindOpaque:
			flush()
			units = append(units, block)
		default:
			run = append(run, block)
		}
	}
	flush()

	return strings.Join(units, "\n\n")
}

func wrapUnit(tag, content string) string {
	return "<" + tag + ">\n" + content + "\n</" + tag + ">"
}
