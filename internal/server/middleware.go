package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartetl/colmatch/internal/storage"
)

type contextKey string

const auditInfoKey contextKey = "auditInfo"

// auditInfo is filled in by scoring handlers so the middleware can record
// request shape without re-reading the body.
type auditInfo struct {
	headerCount int
	fieldCount  int
}

func auditInfoFrom(ctx context.Context) *auditInfo {
	info, _ := ctx.Value(auditInfoKey).(*auditInfo)
	return info
}

// instrument times every request, attaches a request ID, feeds the metrics
// collector, and (when enabled) writes scoring requests to the audit log.
// This replaces a separately instrumented copy of the service: production and
// debug behavior share one code path.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		info := &auditInfo{}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), auditInfoKey, info)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.collector.RecordRequest(elapsed, status)

		s.logger.Debug("request completed",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed))

		if s.audit != nil && r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/similarity/") {
			rec := &storage.Record{
				ID:          requestID,
				Path:        r.URL.Path,
				HeaderCount: info.headerCount,
				FieldCount:  info.fieldCount,
				Status:      status,
				DurationMS:  elapsed.Milliseconds(),
			}
			// The request context may already be done; the audit write should
			// still land.
			if err := s.audit.Insert(context.Background(), rec); err != nil {
				s.logger.Warn("audit insert failed", zap.Error(err))
			}
		}
	})
}
