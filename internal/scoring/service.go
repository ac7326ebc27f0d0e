package scoring

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Provider is the slice of the embedding layer the scorer needs.
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

// Service scores free-form column headers against canonical schema fields.
type Service struct {
	provider Provider
	logger   *zap.Logger
}

// NewService creates a scoring service on top of the given embedding provider.
func NewService(provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// ModelID returns the identifier of the model backing the scores.
func (s *Service) ModelID() string {
	return s.provider.ModelID()
}

// ScoreHeaders returns the matrix of cosine similarities where row i column j
// is score(headers[i], canonicalFields[j]). Both lists may be empty; the
// matrix dimensions follow the inputs. The provider is called exactly once
// per request, on the concatenation of both lists, to amortize per-call
// overhead; provider failures come back as *ProviderError.
func (s *Service) ScoreHeaders(ctx context.Context, headers, canonicalFields []string) ([][]float64, error) {
	all := make([]string, 0, len(headers)+len(canonicalFields))
	all = append(all, headers...)
	all = append(all, canonicalFields...)

	s.logger.Debug("scoring headers",
		zap.Int("headers", len(headers)),
		zap.Int("canonical_fields", len(canonicalFields)))

	embeddings, err := s.provider.EmbedBatch(ctx, all)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	if len(embeddings) != len(all) {
		return nil, &ProviderError{Err: fmt.Errorf("provider returned %d embeddings for %d inputs", len(embeddings), len(all))}
	}

	matrix, err := PairwiseCosine(embeddings[:len(headers)], embeddings[len(headers):])
	if err != nil {
		return nil, err
	}
	return matrix, nil
}
