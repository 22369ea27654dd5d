package transform

// Options configures one pipeline invocation. Values come from explicit
// configuration threaded by the caller; there is no ambient state.
type Options struct {
	// URLPrefix is prepended to rewritten image and cover references,
	// conventionally "/work/<folder-name>/".
	URLPrefix string
	// GroupTag wraps runs of consecutive plain blocks. Empty means
	// DefaultGroupTag.
	GroupTag string
	// HeadingTag wraps heading blocks. Empty means DefaultHeadingTag.
	HeadingTag string
}

// Apply runs the full pipeline on one document: rewrite front matter and
// image links, then wrap the reassembled text into classified blocks.
// The pipeline is pure; it is safe to call concurrently on independent
// documents.
func Apply(source string, opts Options) string {
	res := Rewrite(source, opts.URLPrefix)
	return Wrap(res.Text, opts.GroupTag, opts.HeadingTag)
}
