package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/smartetl/colmatch/internal/extract"
	"github.com/smartetl/colmatch/internal/scoring"
)

// maxUploadBytes caps header-extraction uploads.
const maxUploadBytes = 16 << 20

// similarityRequest uses pointers so absent keys are distinguishable from
// present-but-empty arrays: absent is a validation failure, empty is a valid
// degenerate request.
type similarityRequest struct {
	Headers         *[]string `json:"headers"`
	CanonicalFields *[]string `json:"canonicalFields"`
}

type similarityResponse struct {
	Model        string      `json:"model"`
	Similarities [][]float64 `json:"similarities"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": ServiceName,
		"version": s.version,
		"endpoints": map[string]string{
			"health":     "/healthz",
			"status":     "/statusz",
			"similarity": "/similarity/headers",
			"lexical":    "/similarity/lexical",
			"fields":     "/fields",
			"extract":    "/headers/extract",
		},
	})
}

// handleHealth forces provider initialization so orchestration layers see a
// model that cannot load as unhealthy instead of the process crash-looping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.provider.Warm(r.Context()); err != nil {
		s.logger.Error("health check failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "service unhealthy: embedding model unavailable")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"model":   s.provider.ModelID(),
		"service": ServiceName,
	})
}

// decodeSimilarityRequest parses and validates the request body; on failure it
// writes the 422 response and returns false.
func (s *Server) decodeSimilarityRequest(w http.ResponseWriter, r *http.Request) (headers, fields []string, ok bool) {
	var req similarityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request body")
		return nil, nil, false
	}
	if req.Headers == nil || req.CanonicalFields == nil {
		s.respondError(w, http.StatusUnprocessableEntity, "headers and canonicalFields are required")
		return nil, nil, false
	}
	if info := auditInfoFrom(r.Context()); info != nil {
		info.headerCount = len(*req.Headers)
		info.fieldCount = len(*req.CanonicalFields)
	}
	return *req.Headers, *req.CanonicalFields, true
}

func (s *Server) handleSimilarityHeaders(w http.ResponseWriter, r *http.Request) {
	headers, fields, ok := s.decodeSimilarityRequest(w, r)
	if !ok {
		return
	}

	matrix, err := s.scorer.ScoreHeaders(r.Context(), headers, fields)
	if err != nil {
		var dimErr *scoring.DimensionMismatchError
		if errors.As(err, &dimErr) {
			// Provider adapter bug: vectors of inconsistent length.
			s.logger.Error("scorer invariant violated", zap.Error(err))
		} else {
			s.logger.Error("similarity calculation failed", zap.Error(err))
		}
		s.respondError(w, http.StatusInternalServerError, "error calculating similarities")
		return
	}

	s.respondJSON(w, http.StatusOK, similarityResponse{
		Model:        s.scorer.ModelID(),
		Similarities: matrix,
	})
}

func (s *Server) handleSimilarityLexical(w http.ResponseWriter, r *http.Request) {
	headers, fields, ok := s.decodeSimilarityRequest(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, similarityResponse{
		Model:        "levenshtein",
		Similarities: scoring.LexicalMatrix(headers, fields),
	})
}

// handleExtractHeaders accepts a tabular file (multipart "file" field, or the
// raw body with a "filename" query parameter) and returns its header row.
func (s *Server) handleExtractHeaders(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var content []byte
	var name string
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		name = header.Filename
		content, err = io.ReadAll(file)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, "failed to read upload")
			return
		}
	} else {
		name = r.URL.Query().Get("filename")
		var readErr error
		content, readErr = io.ReadAll(r.Body)
		if readErr != nil {
			s.respondError(w, http.StatusUnprocessableEntity, "failed to read request body")
			return
		}
	}
	if len(content) == 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "empty file")
		return
	}

	headers, err := extract.HeaderRow(content, filepath.Ext(name))
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string][]string{"headers": headers})
}

func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	if s.dictionary == nil {
		s.respondError(w, http.StatusNotFound, "no canonical field dictionary configured")
		return
	}
	fields := s.dictionary.Fields()
	if fields == nil {
		fields = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string][]string{"fields": fields})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	resp := map[string]interface{}{
		"service": ServiceName,
		"version": s.version,
		"model": map[string]interface{}{
			"id":                s.provider.ModelID(),
			"state":             s.provider.State().String(),
			"load_time_seconds": s.provider.LoadDuration().Seconds(),
			"dimensions":        s.provider.Dimensions(),
		},
		"requests": s.collector.Snapshot(),
		"memory": map[string]interface{}{
			"alloc_mb":      float64(mem.Alloc) / (1 << 20),
			"sys_mb":        float64(mem.Sys) / (1 << 20),
			"num_gc":        mem.NumGC,
			"num_goroutine": runtime.NumGoroutine(),
		},
	}
	if s.audit != nil {
		if n, err := s.audit.Count(r.Context()); err == nil {
			resp["audited_requests"] = n
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
