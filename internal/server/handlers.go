package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/koustreak/CloudVault/internal/errs"
	"github.com/koustreak/CloudVault/internal/metastore"
	"github.com/koustreak/CloudVault/internal/vault"
)

// fileView is the JSON shape of one catalog entry.
type fileView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	SizeHuman    string `json:"size_human"`
	MimeType     string `json:"mime_type"`
	Kind         string `json:"kind"`
	UploadDate   string `json:"upload_date"`
	StreamingURL string `json:"streaming_url,omitempty"`
}

func viewOf(rec *metastore.FileRecord, url string) fileView {
	return fileView{
		ID:           rec.ID,
		Name:         rec.Name,
		Size:         rec.Size,
		SizeHuman:    humanize.Bytes(uint64(rec.Size)),
		MimeType:     rec.MimeType,
		Kind:         string(vault.KindOf(rec.MimeType)),
		UploadDate:   rec.CreatedAt.Format(time.RFC3339),
		StreamingURL: url,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().Format(time.RFC3339),
		"files_count": s.vault.Count(),
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	recs := s.vault.List()
	views := make([]fileView, 0, len(recs))
	for _, rec := range recs {
		url, _, err := s.vault.StreamLink(r.Context(), rec.ID, s.presignTTL)
		if err != nil {
			url = "" // a broken link hides one entry's URL, not the catalog
		}
		views = append(views, viewOf(rec, url))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleStreamInfo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	url, rec, err := s.vault.StreamLink(r.Context(), id, s.presignTTL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(rec, url))
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errs.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "file not found"})
	case errs.IsConfigMissing(err):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage not configured"})
	default:
		s.log.With().Err(err).Logger().Error("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
