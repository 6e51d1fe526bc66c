// Package walker discovers XML files under a directory tree and feeds
// them through the corpus loader, one file at a time.
package walker

import (
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/sgoodwin/xsearch/internal/xmldoc"
)

// Stats summarizes one scan.
type Stats struct {
	FilesScanned int // regular files seen, any extension
	FilesLoaded  int // files parsed as XML
	Elements     int // filter matches accumulated across all files
}

// Walk recursively visits every regular file under rootDir whose
// extension is exactly ".xml" (case-sensitive) and loads it into a fresh
// corpus. Files within a directory are visited in lexical order, so
// last-wins namespace merges and row order are reproducible. The first
// loader error aborts the walk.
func Walk(rootDir, filterXPath string, log *slog.Logger) (*xmldoc.Corpus, Stats, error) {
	corpus := xmldoc.NewCorpus()
	var stats Stats

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		stats.FilesScanned++
		base := filepath.Base(path)
		// A file named exactly ".xml" has no stem and no extension.
		if base == ".xml" || filepath.Ext(base) != ".xml" {
			return nil
		}
		if err := corpus.Load(path, filterXPath); err != nil {
			return err
		}
		stats.FilesLoaded++
		log.Debug("loaded file", "path", path, "elements", len(corpus.Elements))
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	stats.Elements = len(corpus.Elements)
	return corpus, stats, nil
}
