package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/iiifsearch/internal/search"
	"github.com/dgallion1/iiifsearch/internal/stats"
	"github.com/dgallion1/iiifsearch/internal/store"
	"github.com/go-chi/chi/v5"
)

const searchContext = "http://iiif.io/api/search/0/context.json"

// annotationList is the IIIF Search 0.9 response envelope.
type annotationList struct {
	Context   string              `json:"@context"`
	ID        string              `json:"@id"`
	Type      string              `json:"@type"`
	Resources []search.Annotation `json:"resources"`
	Hits      []search.Hit        `json:"hits"`
}

// handleSearch runs a content search over one document. Documents that do
// not support search answer with a JSON null.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "docID"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, "invalid document id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	doc, err := s.store.Document(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("load document", "document_id", id, "error", err)
		jsonError(w, "failed to load document", http.StatusBadGateway)
		return
	}

	start := time.Now()
	resp := s.engine.Search(ctx, doc, r.URL.Query().Get("q"))
	if s.stats != nil {
		s.stats.Record(time.Since(start), outcomeOf(resp))
	}

	w.Header().Set("Content-Type", "application/json")
	if resp == nil {
		_, _ = w.Write([]byte("null\n"))
		return
	}
	_ = json.NewEncoder(w).Encode(annotationList{
		Context:   searchContext,
		ID:        s.cfg.BaseURL + r.URL.RequestURI(),
		Type:      "sc:AnnotationList",
		Resources: resp.Resources,
		Hits:      resp.Hits,
	})
}

func outcomeOf(resp *search.Response) stats.Outcome {
	switch {
	case resp == nil:
		return stats.OutcomeNotSearchable
	case len(resp.Resources) == 0:
		return stats.OutcomeEmpty
	}
	return stats.OutcomeMatched
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
