package embedding

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/smartetl/colmatch/internal/config"
)

// NewProvider builds the configured embedding provider wrapped in a
// LazyEmbedder. Supported providers: "onnx" (default), "remote", "mock".
// Construction never touches the model; the load happens on first use (or on
// Warm when cfg.Warmup is set, which the caller drives).
func NewProvider(cfg *config.EmbeddingConfig, logger *zap.Logger) (*LazyEmbedder, error) {
	var factory func() (Embedder, error)

	switch cfg.Provider {
	case "onnx", "":
		factory = func() (Embedder, error) {
			return NewONNXEmbedder(cfg.ModelPath, cfg.ModelID, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
		}
	case "remote":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("remote embedding provider requires an endpoint")
		}
		factory = func() (Embedder, error) {
			return NewRemoteEmbedder(cfg.Endpoint, cfg.ModelID, cfg.APIKey, cfg.Dimensions), nil
		}
	case "mock":
		factory = func() (Embedder, error) {
			return NewMockEmbedder(cfg.Dimensions), nil
		}
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: onnx, remote, mock)", cfg.Provider)
	}

	return NewLazyEmbedder(factory, cfg.ModelID, cfg.Dimensions,
		cfg.InitRetryBackoff, cfg.InitRetryMaxBackoff, logger), nil
}
