package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sgoodwin/xsearch/internal/extract"
	"github.com/sgoodwin/xsearch/internal/walker"
	"github.com/sgoodwin/xsearch/internal/xmldoc"
)

type scanStats struct {
	FilesScanned int `json:"files_scanned"`
	FilesLoaded  int `json:"files_loaded"`
	Elements     int `json:"elements"`
}

type searchResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Stats   scanStats  `json:"stats"`
}

// handleSearch runs one full walk-resolve-extract pass over the corpus
// directory. Query parameters mirror the CLI surface: filter (required),
// results (repeatable), id, parent, fields (comma-separated subset of
// tag,attrib,text,tail), expand.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	filter := q.Get("filter")
	if filter == "" {
		jsonError(w, "filter query parameter is required", http.StatusBadRequest)
		return
	}

	opts := extract.Options{
		ID:     q.Get("id"),
		Expand: q.Get("expand") == "1" || q.Get("expand") == "true",
	}
	for _, f := range strings.Split(q.Get("fields"), ",") {
		switch strings.TrimSpace(f) {
		case "tag":
			opts.Tag = true
		case "attrib":
			opts.Attrib = true
		case "text":
			opts.Text = true
		case "tail":
			opts.Tail = true
		case "":
		default:
			jsonError(w, fmt.Sprintf("unknown field %q", f), http.StatusBadRequest)
			return
		}
	}

	corpus, stats, err := walker.Walk(s.cfg.Dir, filter, s.log)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	parentTag := ""
	if p := q.Get("parent"); p != "" {
		parentTag, err = xmldoc.ExpandQName(p, corpus.Namespaces)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	parents := extract.ResolveParents(corpus.Elements, parentTag)
	records, err := extract.Extract(parents, opts, q["results"], corpus.Namespaces)
	if err != nil {
		jsonError(w, err.Error(), statusFor(err))
		return
	}

	resp := searchResponse{
		Columns: []string{},
		Rows:    [][]string{},
		Stats: scanStats{
			FilesScanned: stats.FilesScanned,
			FilesLoaded:  stats.FilesLoaded,
			Elements:     stats.Elements,
		},
	}
	if len(records) > 0 {
		resp.Columns = records[0].Keys()
		for _, rec := range records {
			row := make([]string, len(resp.Columns))
			for i, key := range resp.Columns {
				row[i], _ = rec.Get(key)
			}
			resp.Rows = append(resp.Rows, row)
		}
	}

	s.stats.Record(time.Since(start).Milliseconds())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// statusFor maps query mistakes to 400 and everything else (IO, malformed
// corpus files) to 500.
func statusFor(err error) int {
	if errors.Is(err, xmldoc.ErrInvalidXPath) || errors.Is(err, xmldoc.ErrUnknownPrefix) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
