package push

// FileError records one per-file failure with enough context to diagnose.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"error"`
}

// Report aggregates the outcome of a batch push. The batch policy is
// skip-and-collect: a failing file never aborts the remaining files, it is
// recorded here instead.
type Report struct {
	Folder      string      `json:"folder"`
	URLPrefix   string      `json:"url_prefix"`
	Transformed int         `json:"transformed"`
	Copied      int         `json:"copied"`
	Skipped     int         `json:"skipped"`
	Failures    []FileError `json:"failures,omitempty"`
}

// Failed reports whether any file failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

func (r *Report) addFailure(path string, err error) {
	r.Failures = append(r.Failures, FileError{Path: path, Message: err.Error()})
}
