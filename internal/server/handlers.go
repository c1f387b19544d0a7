package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/internal/indexer"
	"github.com/hyperjump/hotelrag/internal/keyword"
	"github.com/hyperjump/hotelrag/internal/storage"
)

const (
	defaultHistoryLimit = 50
	defaultSearchLimit  = 10
	maxLimit            = 1000
)

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("chat request", zap.String("message", req.Message))
	result, err := s.pipeline.ProcessMessage(r.Context(), req.Message)
	if err != nil {
		s.logger.Error("chat failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if debug, _ := strconv.ParseBool(r.URL.Query().Get("debug")); !debug {
		result.RawResponse = ""
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	limit, ok := s.parseLimit(w, r, defaultHistoryLimit)
	if !ok {
		return
	}
	records, err := s.log.Records(r.Context(), limit)
	if err != nil {
		s.logger.Error("list interactions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"interactions": records,
		"total":        s.log.Len(),
	})
}

func (s *Server) handleCorpusSearch(w http.ResponseWriter, r *http.Request) {
	if s.keywords == nil {
		s.respondError(w, http.StatusNotImplemented, "corpus search not enabled")
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit, ok := s.parseLimit(w, r, defaultSearchLimit)
	if !ok {
		return
	}
	fuzzy, _ := strconv.ParseBool(r.URL.Query().Get("fuzzy"))
	hits, err := s.keywords.Search(r.Context(), q, limit, &keyword.SearchOptions{FuzzyEnabled: fuzzy})
	if err != nil {
		s.logger.Error("corpus search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if hits == nil {
		hits = []keyword.Hit{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"query": q, "results": hits})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"corpus_documents": len(s.docs),
		"interactions":     s.log.Len(),
	}
	if s.vectorIndex != nil {
		resp["vector_index_size"] = s.vectorIndex.Size()
		resp["vector_index_type"] = s.vectorIndex.Type()
	}
	if s.config != nil {
		cfg := s.config
		resp["config"] = map[string]interface{}{
			"embedding_provider":   cfg.Embedding.Provider,
			"embedding_dimensions": cfg.Embedding.Dimensions,
			"generation_provider":  cfg.Generation.Provider,
			"generation_model":     cfg.Generation.Model,
			"log_backend":          cfg.Storage.LogBackend,
			"top_k":                cfg.Retrieval.TopK,
			"corpus_path":          cfg.Corpus.Path,
			"index_path":           cfg.Storage.IndexPath,
		}
		usage, err := storage.DataUsage(map[string]string{
			"corpus":       cfg.Corpus.Path,
			"index":        cfg.Storage.IndexPath,
			"index_meta":   indexer.MetaPath(cfg.Storage.IndexPath),
			"interactions": cfg.Storage.InteractionLogPath,
			"database":     cfg.Storage.DatabasePath,
		})
		if err != nil {
			s.logger.Warn("status: disk usage failed", zap.Error(err))
		} else {
			resp["disk_usage"] = usage
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// parseLimit reads the limit query parameter, writing a 400 response when it is invalid.
func (s *Server) parseLimit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
		return 0, false
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
