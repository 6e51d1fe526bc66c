package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleQueryStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"dir":   s.cfg.Dir,
		"stats": s.stats.Snapshot(),
	})
}
