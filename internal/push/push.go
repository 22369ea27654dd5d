// Package push orchestrates batch publication: it walks a source folder,
// runs the transform pipeline on Markdown documents, copies everything
// else, and aggregates per-file outcomes into a Report.
package push

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/arnestad/mdxpress/internal/apperr"
	"github.com/arnestad/mdxpress/internal/checksum"
	"github.com/arnestad/mdxpress/internal/manifest"
	"github.com/arnestad/mdxpress/internal/models"
	"github.com/arnestad/mdxpress/internal/storage"
	"github.com/arnestad/mdxpress/internal/transform"
)

// Config holds the explicit knobs for a push run. All fields are threaded
// from configuration; there is no shared mutable settings object.
type Config struct {
	// URLPrefixBase is joined with the folder name to form the site URL
	// prefix, conventionally "/work/".
	URLPrefixBase string
	// GroupTag and HeadingTag name the wrapper components; empty values
	// fall back to the transform defaults.
	GroupTag   string
	HeadingTag string
	// Workers bounds the number of concurrent per-file tasks.
	Workers int
	// Force pushes every file even when its manifest checksum matches.
	Force bool
}

// Pusher publishes one source tree into one destination tree.
type Pusher struct {
	src    storage.Provider
	dst    storage.Provider
	man    manifest.Store // nil disables incremental skipping
	logger *slog.Logger
	cfg    Config
}

// New creates a Pusher. man may be nil, in which case every push is full.
func New(src, dst storage.Provider, man manifest.Store, logger *slog.Logger, cfg Config) *Pusher {
	if cfg.URLPrefixBase == "" {
		cfg.URLPrefixBase = "/work/"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pusher{src: src, dst: dst, man: man, logger: logger, cfg: cfg}
}

// IsMarkdown reports whether name has a Markdown authoring extension.
func IsMarkdown(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".md" || ext == ".mdx"
}

// OutputPath maps a source-relative path to its destination-relative path.
// Markdown documents are renamed to the .mdx publishing extension; every
// other path is preserved.
func OutputPath(rel string) string {
	if !IsMarkdown(rel) {
		return rel
	}
	return strings.TrimSuffix(rel, path.Ext(rel)) + ".mdx"
}

// URLPrefix derives the site URL prefix for a folder from its base name.
func (p *Pusher) URLPrefix(folder string) string {
	name := path.Base(folder)
	if folder == "" || name == "." {
		name = path.Base(p.src.Root())
	}
	return p.cfg.URLPrefixBase + name + "/"
}

// PushFolder publishes one source folder (relative to the source root,
// empty for the root itself). Top-level Markdown entries run the transform
// pipeline and land as .mdx, subdirectories are copied verbatim, other
// files are byte-copied. A missing folder fails fast with ErrInvalidPath
// before any write; per-file failures are collected into the Report and
// never abort the batch.
func (p *Pusher) PushFolder(ctx context.Context, folder string) (*Report, error) {
	exists, isDir, err := p.src.Stat(folder)
	if err != nil {
		return nil, err
	}
	if !exists || !isDir {
		return nil, fmt.Errorf("push: source folder %q: %w", folder, apperr.ErrInvalidPath)
	}

	report := &Report{Folder: folder, URLPrefix: p.URLPrefix(folder)}

	entries, err := p.src.Entries(folder)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for _, e := range entries {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			switch {
			case e.IsDir:
				p.copyTree(e.Path, report, &mu)
			case IsMarkdown(e.Name):
				skipped, err := p.pushDocument(e.Path, report.URLPrefix)
				mu.Lock()
				switch {
				case err != nil:
					report.addFailure(e.Path, err)
				case skipped:
					report.Skipped++
				default:
					report.Transformed++
				}
				mu.Unlock()
			default:
				p.recordCopy(e.Path, report, &mu)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	p.logger.Info("push: folder done",
		slog.String("folder", report.Folder),
		slog.Int("transformed", report.Transformed),
		slog.Int("copied", report.Copied),
		slog.Int("skipped", report.Skipped),
		slog.Int("failures", len(report.Failures)))
	return report, nil
}

// PushFile publishes a single file, used by the watcher for incremental
// updates. Top-level Markdown files inside folder run the full pipeline;
// everything else is byte-copied, matching PushFolder's treatment.
func (p *Pusher) PushFile(ctx context.Context, folder, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := path.Dir(rel)
	topLevel := dir == folder || (folder == "" && dir == ".")
	if topLevel && IsMarkdown(rel) {
		_, err := p.pushDocument(rel, p.URLPrefix(folder))
		return err
	}
	_, err := p.copyFile(rel)
	return err
}

// pushDocument transforms one Markdown document and writes the .mdx output.
func (p *Pusher) pushDocument(rel, urlPrefix string) (skipped bool, err error) {
	data, err := p.src.Read(rel)
	if err != nil {
		return false, err
	}
	cs := checksum.Sum(data)
	if p.unchanged(rel, cs) {
		return true, nil
	}

	out := transform.Apply(string(data), transform.Options{
		URLPrefix:  urlPrefix,
		GroupTag:   p.cfg.GroupTag,
		HeadingTag: p.cfg.HeadingTag,
	})
	outPath := OutputPath(rel)
	if err := p.dst.Write(outPath, []byte(out)); err != nil {
		return false, err
	}
	p.record(rel, outPath, cs, data, transform.ParseMeta(string(data)).Title)
	p.logger.Debug("push: transformed", slog.String("source", rel), slog.String("output", outPath))
	return false, nil
}

// copyFile byte-copies one non-document file to the same relative path.
func (p *Pusher) copyFile(rel string) (skipped bool, err error) {
	data, err := p.src.Read(rel)
	if err != nil {
		return false, err
	}
	cs := checksum.Sum(data)
	if p.unchanged(rel, cs) {
		return true, nil
	}
	if err := p.dst.Write(rel, data); err != nil {
		return false, err
	}
	p.record(rel, rel, cs, data, "")
	p.logger.Debug("push: copied", slog.String("path", rel))
	return false, nil
}

// copyTree copies a subdirectory verbatim, file by file.
func (p *Pusher) copyTree(dir string, report *Report, mu *sync.Mutex) {
	metas, err := p.src.List(dir)
	if err != nil {
		mu.Lock()
		report.addFailure(dir, err)
		mu.Unlock()
		return
	}
	for _, m := range metas {
		p.recordCopy(m.Path, report, mu)
	}
}

func (p *Pusher) recordCopy(rel string, report *Report, mu *sync.Mutex) {
	skipped, err := p.copyFile(rel)
	mu.Lock()
	defer mu.Unlock()
	switch {
	case err != nil:
		report.addFailure(rel, err)
	case skipped:
		report.Skipped++
	default:
		report.Copied++
	}
}

// unchanged reports whether the manifest already holds this checksum.
func (p *Pusher) unchanged(rel, cs string) bool {
	if p.man == nil || p.cfg.Force {
		return false
	}
	stored, err := p.man.GetChecksum(rel)
	return err == nil && stored == cs
}

// record upserts the manifest entry after a successful write.
func (p *Pusher) record(rel, outPath, cs string, data []byte, title string) {
	if p.man == nil {
		return
	}
	a := models.Artifact{
		SourcePath:  rel,
		OutputPath:  outPath,
		Checksum:    cs,
		ContentType: mimetype.Detect(data).String(),
		Title:       title,
	}
	if err := p.man.Upsert(a); err != nil {
		p.logger.Warn("push: manifest upsert failed", slog.String("path", rel), slog.String("error", err.Error()))
	}
}
